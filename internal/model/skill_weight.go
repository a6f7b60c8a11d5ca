package model

// SkillWeight 讲次-技能权重，长表存储。源表是"每个技能一列"的宽表，
// RowIndex / ColumnIndex 保留宽表的行序和列序，重建宽表时据此还原，
// 报告的并列取首规则依赖原始顺序
type SkillWeight struct {
	BaseModel
	Lecture     int     `gorm:"not null;index:idx_lecture_chapter,priority:1" json:"lecture"`
	Chapter     int     `gorm:"not null;index:idx_lecture_chapter,priority:2" json:"chapter"`
	Skill       string  `gorm:"size:100;not null;index" json:"skill"`
	Weight      float64 `gorm:"not null;default:0" json:"weight"`
	RowIndex    int     `gorm:"not null" json:"rowIndex"`
	ColumnIndex int     `gorm:"not null" json:"columnIndex"`
}

func (SkillWeight) TableName() string {
	return "lecture_skill_weights"
}

// DatasetImport 数据集导入记录
type DatasetImport struct {
	BaseModel
	BatchID     string `gorm:"size:36;not null;index" json:"batchId"`
	FileName    string `gorm:"size:255" json:"fileName"`
	StudentRows int    `gorm:"default:0" json:"studentRows"`
	WeightRows  int    `gorm:"default:0" json:"weightRows"`
	ImportedBy  uint   `gorm:"index" json:"importedBy"`
}

func (DatasetImport) TableName() string {
	return "dataset_imports"
}

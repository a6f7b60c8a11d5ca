package analytics

import (
	"fmt"
	"time"
)

// StudentRecord 学生学习记录（学生-讲次-章节粒度），
// (student_name, lecture, chapter) 唯一，由上游数据保证
type StudentRecord struct {
	StudentName       string    `json:"studentName"`
	Lecture           int       `json:"lecture"`
	Chapter           int       `json:"chapter"`
	Exam1             float64   `json:"exam1"`
	Exam2             float64   `json:"exam2"`
	Progress          float64   `json:"progress"` // 章节完成度 0.0~1.0
	Count             int       `json:"count"`    // 错题次数
	Time              float64   `json:"time"`     // 学习时长（分钟）
	LastStudyDatetime time.Time `json:"lastStudyDatetime"`
}

// WeightRow 权重表的一行：某讲次-章节对各技能的权重
type WeightRow struct {
	Lecture int                `json:"lecture"`
	Chapter int                `json:"chapter"`
	Weights map[string]float64 `json:"weights"`
}

// WeightTable 讲次-技能权重表。Skills 保留源表的列顺序，
// Rows 保留源表的行顺序，报告中的并列取首规则依赖这两个顺序
type WeightTable struct {
	Skills []string    `json:"skills"`
	Rows   []WeightRow `json:"rows"`
}

// NewWeightTable 构建权重表并做 schema 校验：
// 至少一个技能列，且每一行都必须覆盖全部技能列
func NewWeightTable(skills []string, rows []WeightRow) (*WeightTable, error) {
	if len(skills) == 0 {
		return nil, ErrSchemaNoSkillColumns
	}
	for i, row := range rows {
		for _, skill := range skills {
			if _, ok := row.Weights[skill]; !ok {
				return nil, fmt.Errorf("%w: 第%d行缺少技能列 %q", ErrSchemaMissingSkill, i+1, skill)
			}
		}
	}
	return &WeightTable{Skills: skills, Rows: rows}, nil
}

type longWeight struct {
	lecture int
	chapter int
	skill   string
	weight  float64
}

// melt 宽表转长表：每行一个 (lecture, chapter, skill, weight)
func (t *WeightTable) melt() []longWeight {
	long := make([]longWeight, 0, len(t.Rows)*len(t.Skills))
	for _, skill := range t.Skills {
		for _, row := range t.Rows {
			long = append(long, longWeight{
				lecture: row.Lecture,
				chapter: row.Chapter,
				skill:   skill,
				weight:  row.Weights[skill],
			})
		}
	}
	return long
}

// SkillScore 单个技能的熟练度得分
type SkillScore struct {
	Skill           string  `json:"skill"`
	RawScore        float64 `json:"rawScore"`        // sum(考试均分 × 权重)
	MaxScore        float64 `json:"maxScore"`        // sum(权重) × 100，理论满分
	NormalizedScore float64 `json:"normalizedScore"` // raw / max × 100
}

// SkillBrief 报告中技能的摘要项
type SkillBrief struct {
	Skill           string  `json:"skill"`
	NormalizedScore float64 `json:"normalizedScore"`
}

// ChapterWeight 某技能权重最高的章节
type ChapterWeight struct {
	Lecture int     `json:"lecture"`
	Chapter int     `json:"chapter"`
	Weight  float64 `json:"weight"`
}

// SkillReport 学生技能分析报告
type SkillReport struct {
	BestSkill                        SkillBrief    `json:"bestSkill"`
	WorstSkill                       SkillBrief    `json:"worstSkill"`
	MostWeightedChapterForWorstSkill ChapterWeight `json:"mostWeightedChapterForWorstSkill"`
	ProgressPercent                  float64       `json:"progressPercent"` // 保留两位小数
}

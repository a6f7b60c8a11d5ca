package repository

import (
	"edu_analytics_backend/internal/analytics"
	"edu_analytics_backend/internal/model"

	"gorm.io/gorm"
)

type SkillWeightRepository struct {
	DB *gorm.DB
}

func NewSkillWeightRepository(db *gorm.DB) *SkillWeightRepository {
	return &SkillWeightRepository{DB: db}
}

// LoadWeightTable 从长表还原宽表。按 column_index / row_index 排序，
// 保证技能列序和章节行序与导入时的源表完全一致
func (r *SkillWeightRepository) LoadWeightTable() (*analytics.WeightTable, error) {
	var weights []model.SkillWeight
	err := r.DB.Order("row_index ASC, column_index ASC").Find(&weights).Error
	if err != nil {
		return nil, err
	}
	if len(weights) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	// 排序保证首行先到，技能列序即首行的 column_index 序
	var skills []string
	seenSkill := make(map[string]bool)
	var rows []analytics.WeightRow
	rowIndex := make(map[int]int) // row_index -> rows 下标

	for _, w := range weights {
		if !seenSkill[w.Skill] {
			seenSkill[w.Skill] = true
			skills = append(skills, w.Skill)
		}
		i, ok := rowIndex[w.RowIndex]
		if !ok {
			i = len(rows)
			rowIndex[w.RowIndex] = i
			rows = append(rows, analytics.WeightRow{
				Lecture: w.Lecture,
				Chapter: w.Chapter,
				Weights: make(map[string]float64),
			})
		}
		rows[i].Weights[w.Skill] = w.Weight
	}

	return analytics.NewWeightTable(skills, rows)
}

// ReplaceAll 整表替换权重数据
func (r *SkillWeightRepository) ReplaceAll(tx *gorm.DB, weights []model.SkillWeight) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().Delete(&model.SkillWeight{}).Error; err != nil {
		return err
	}
	if len(weights) == 0 {
		return nil
	}
	return tx.CreateInBatches(weights, 500).Error
}

func (r *SkillWeightRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.SkillWeight{}).Count(&count).Error
	return count, err
}

func (r *SkillWeightRepository) RecordImport(tx *gorm.DB, imp *model.DatasetImport) error {
	return tx.Create(imp).Error
}

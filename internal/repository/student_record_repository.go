package repository

import (
	"edu_analytics_backend/internal/model"

	"gorm.io/gorm"
)

type StudentRecordRepository struct {
	DB *gorm.DB
}

func NewStudentRecordRepository(db *gorm.DB) *StudentRecordRepository {
	return &StudentRecordRepository{DB: db}
}

func (r *StudentRecordRepository) FindAll() ([]model.StudentRecord, error) {
	var records []model.StudentRecord
	err := r.DB.Order("student_name ASC, lecture ASC, chapter ASC").Find(&records).Error
	return records, err
}

func (r *StudentRecordRepository) FindByStudent(studentName string) ([]model.StudentRecord, error) {
	var records []model.StudentRecord
	err := r.DB.Where("student_name = ?", studentName).
		Order("lecture ASC, chapter ASC").
		Find(&records).Error
	return records, err
}

func (r *StudentRecordRepository) FindByStudentAndLecture(studentName string, lecture int) ([]model.StudentRecord, error) {
	var records []model.StudentRecord
	err := r.DB.Where("student_name = ? AND lecture = ?", studentName, lecture).
		Order("chapter ASC").
		Find(&records).Error
	return records, err
}

func (r *StudentRecordRepository) ListStudentNames() ([]string, error) {
	var names []string
	err := r.DB.Model(&model.StudentRecord{}).
		Distinct("student_name").
		Order("student_name ASC").
		Pluck("student_name", &names).Error
	return names, err
}

// ReplaceAll 整表替换，导入数据集时在事务里先清空再批量写入
func (r *StudentRecordRepository) ReplaceAll(tx *gorm.DB, records []model.StudentRecord) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().Delete(&model.StudentRecord{}).Error; err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	return tx.CreateInBatches(records, 500).Error
}

func (r *StudentRecordRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.StudentRecord{}).Count(&count).Error
	return count, err
}

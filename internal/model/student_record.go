package model

import "time"

// StudentRecord 学生学习记录，(student_name, lecture, chapter) 唯一
type StudentRecord struct {
	BaseModel
	StudentName       string    `gorm:"size:100;not null;uniqueIndex:idx_student_lecture_chapter,priority:1;index" json:"studentName"`
	Lecture           int       `gorm:"not null;uniqueIndex:idx_student_lecture_chapter,priority:2" json:"lecture"`
	Chapter           int       `gorm:"not null;uniqueIndex:idx_student_lecture_chapter,priority:3" json:"chapter"`
	Exam1             float64   `gorm:"default:0" json:"exam1"`
	Exam2             float64   `gorm:"default:0" json:"exam2"`
	Progress          float64   `gorm:"default:0" json:"progress"` // 0.0~1.0
	Count             int       `gorm:"default:0" json:"count"`    // 错题次数
	Time              float64   `gorm:"default:0" json:"time"`     // 学习时长（分钟）
	LastStudyDatetime time.Time `json:"lastStudyDatetime"`
}

func (StudentRecord) TableName() string {
	return "student_records"
}

package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 数据集工作簿的工作表名
const (
	SheetStudents       = "students"
	SheetLectureWeights = "lecture_weights"
)

const MimeHTML = "text/html; charset=utf-8"

package service

import (
	"context"
	"edu_analytics_backend/internal/analytics"
	"edu_analytics_backend/internal/model"
	"edu_analytics_backend/internal/repository"
	"edu_analytics_backend/internal/util"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"edu_analytics_backend/pkg/logger"
)

// DatasetService 负责导入数据集工作簿：students 工作表是学生记录，
// lecture_weights 工作表是讲次-技能权重宽表。导入为整表替换，在一个
// 事务里完成，成功后清空报告缓存
type DatasetService struct {
	DB         *gorm.DB
	RecordRepo *repository.StudentRecordRepository
	WeightRepo *repository.SkillWeightRepository
	Analytics  *AnalyticsService
}

func NewDatasetService(
	db *gorm.DB,
	recordRepo *repository.StudentRecordRepository,
	weightRepo *repository.SkillWeightRepository,
	analyticsService *AnalyticsService,
) *DatasetService {
	return &DatasetService{
		DB:         db,
		RecordRepo: recordRepo,
		WeightRepo: weightRepo,
		Analytics:  analyticsService,
	}
}

func (s *DatasetService) ImportWorkbook(ctx context.Context, fileName string, reader io.Reader, importedBy uint) (*model.DatasetImport, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := parseStudentSheet(f)
	if err != nil {
		return nil, err
	}
	weights, err := parseWeightSheet(f)
	if err != nil {
		return nil, err
	}

	imp := &model.DatasetImport{
		BatchID:     model.GenerateUUID(),
		FileName:    fileName,
		StudentRows: len(records),
		WeightRows:  len(weights),
		ImportedBy:  importedBy,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.RecordRepo.ReplaceAll(tx, records); err != nil {
			return err
		}
		if err := s.WeightRepo.ReplaceAll(tx, weights); err != nil {
			return err
		}
		return s.WeightRepo.RecordImport(tx, imp)
	})
	if err != nil {
		return nil, err
	}

	s.Analytics.InvalidateReports(ctx)
	logger.Log.Info("数据集导入完成",
		zap.String("file", fileName),
		zap.String("batch", imp.BatchID),
		zap.Int("studentRows", len(records)),
		zap.Int("weightRows", len(weights)),
	)
	return imp, nil
}

var studentColumns = []string{
	"student_name", "lecture", "chapter",
	"exam1", "exam2", "progress", "count", "time",
	"last_study_datetime",
}

func parseStudentSheet(f *excelize.File) ([]model.StudentRecord, error) {
	rows, err := f.GetRows(util.SheetStudents)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", util.ErrSheetNotFound, util.SheetStudents)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s 表头为空", analytics.ErrSchemaMissingColumn, util.SheetStudents)
	}

	idx, err := headerIndex(rows[0], studentColumns)
	if err != nil {
		return nil, err
	}

	var records []model.StudentRecord
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rowNum := i + 2 // 工作表行号，含表头

		lecture, err := parseIntCell(cell(row, idx["lecture"]), rowNum, "lecture")
		if err != nil {
			return nil, err
		}
		chapter, err := parseIntCell(cell(row, idx["chapter"]), rowNum, "chapter")
		if err != nil {
			return nil, err
		}
		exam1, err := parseFloatCell(cell(row, idx["exam1"]), rowNum, "exam1")
		if err != nil {
			return nil, err
		}
		exam2, err := parseFloatCell(cell(row, idx["exam2"]), rowNum, "exam2")
		if err != nil {
			return nil, err
		}
		progress, err := parseFloatCell(cell(row, idx["progress"]), rowNum, "progress")
		if err != nil {
			return nil, err
		}
		count, err := parseIntCell(cell(row, idx["count"]), rowNum, "count")
		if err != nil {
			return nil, err
		}
		studyTime, err := parseFloatCell(cell(row, idx["time"]), rowNum, "time")
		if err != nil {
			return nil, err
		}

		records = append(records, model.StudentRecord{
			StudentName:       strings.TrimSpace(cell(row, idx["student_name"])),
			Lecture:           lecture,
			Chapter:           chapter,
			Exam1:             exam1,
			Exam2:             exam2,
			Progress:          progress,
			Count:             count,
			Time:              studyTime,
			LastStudyDatetime: parseDatetimeCell(cell(row, idx["last_study_datetime"])),
		})
	}
	return records, nil
}

func parseWeightSheet(f *excelize.File) ([]model.SkillWeight, error) {
	rows, err := f.GetRows(util.SheetLectureWeights)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", util.ErrSheetNotFound, util.SheetLectureWeights)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s 表头为空", analytics.ErrSchemaMissingColumn, util.SheetLectureWeights)
	}

	header := rows[0]
	if len(header) < 2 || strings.TrimSpace(header[0]) != "lecture" || strings.TrimSpace(header[1]) != "chapter" {
		return nil, fmt.Errorf("%w: %s 前两列必须是 lecture, chapter", analytics.ErrSchemaMissingColumn, util.SheetLectureWeights)
	}
	// 记录技能列在工作表中的真实列号，表头出现空列时不影响后续取值
	type skillColumn struct {
		name string
		col  int
	}
	skills := make([]skillColumn, 0, len(header)-2)
	for i, h := range header[2:] {
		skill := strings.TrimSpace(h)
		if skill != "" {
			skills = append(skills, skillColumn{name: skill, col: i + 2})
		}
	}
	if len(skills) == 0 {
		return nil, analytics.ErrSchemaNoSkillColumns
	}

	var weights []model.SkillWeight
	rowIndex := 0
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rowNum := i + 2

		lecture, err := parseIntCell(cell(row, 0), rowNum, "lecture")
		if err != nil {
			return nil, err
		}
		chapter, err := parseIntCell(cell(row, 1), rowNum, "chapter")
		if err != nil {
			return nil, err
		}

		for j, sc := range skills {
			raw := cell(row, sc.col)
			weight := 0.0
			if strings.TrimSpace(raw) != "" {
				weight, err = parseFloatCell(raw, rowNum, sc.name)
				if err != nil {
					return nil, err
				}
			}
			if weight < 0 {
				return nil, fmt.Errorf("%w: 第%d行 %s=%v", util.ErrNegativeWeight, rowNum, sc.name, weight)
			}
			weights = append(weights, model.SkillWeight{
				Lecture:     lecture,
				Chapter:     chapter,
				Skill:       sc.name,
				Weight:      weight,
				RowIndex:    rowIndex,
				ColumnIndex: j,
			})
		}
		rowIndex++
	}
	return weights, nil
}

func headerIndex(header []string, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", analytics.ErrSchemaMissingColumn, col)
		}
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i >= 0 && i < len(row) {
		return row[i]
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseIntCell(raw string, rowNum int, column string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	// 数值单元格可能带小数格式
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("第%d行 %s 不是有效数字: %q", rowNum, column, raw)
	}
	return int(v), nil
}

func parseFloatCell(raw string, rowNum int, column string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("第%d行 %s 不是有效数字: %q", rowNum, column, raw)
	}
	return v, nil
}

var datetimeLayouts = []string{
	util.TimeFormat,
	time.RFC3339,
	"2006/01/02 15:04:05",
	"1/2/06 15:04",
	util.DateFormat,
}

func parseDatetimeCell(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

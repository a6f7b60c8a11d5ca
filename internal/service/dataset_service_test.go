package service

import (
	"edu_analytics_backend/internal/analytics"
	"edu_analytics_backend/internal/util"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func newStudentSheet(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	if _, err := f.NewSheet(util.SheetStudents); err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(util.SheetStudents, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func newWeightSheet(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	if _, err := f.NewSheet(util.SheetLectureWeights); err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(util.SheetLectureWeights, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func TestParseStudentSheet(t *testing.T) {
	f := newStudentSheet(t, [][]interface{}{
		{"student_name", "lecture", "chapter", "exam1", "exam2", "progress", "count", "time", "last_study_datetime"},
		{"Alice", "1", "1", "70", "90", "0.5", "3", "42.5", "2024-03-01 10:00:00"},
		{"", "", "", "", "", "", "", "", ""},
		{"Bob", "2", "3", "60.5", "80", "1", "0", "15", ""},
	})
	defer f.Close()

	records, err := parseStudentSheet(f)
	if err != nil {
		t.Fatalf("解析学生表失败: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("期望 2 条记录，实际 %d 条", len(records))
	}

	alice := records[0]
	if alice.StudentName != "Alice" || alice.Lecture != 1 || alice.Chapter != 1 {
		t.Errorf("Alice 记录解析错误: %+v", alice)
	}
	if alice.Exam1 != 70 || alice.Exam2 != 90 || alice.Progress != 0.5 {
		t.Errorf("Alice 成绩解析错误: %+v", alice)
	}
	if alice.Count != 3 || alice.Time != 42.5 {
		t.Errorf("Alice 统计解析错误: %+v", alice)
	}
	if alice.LastStudyDatetime.IsZero() {
		t.Error("Alice 最后学习时间未解析")
	}

	bob := records[1]
	if bob.Exam1 != 60.5 {
		t.Errorf("Bob exam1 解析错误: %v", bob.Exam1)
	}
	if !bob.LastStudyDatetime.IsZero() {
		t.Error("空时间单元格应解析为零值")
	}
}

func TestParseStudentSheetMissingColumn(t *testing.T) {
	f := newStudentSheet(t, [][]interface{}{
		{"student_name", "lecture", "chapter", "exam1", "exam2", "progress", "count"},
	})
	defer f.Close()

	_, err := parseStudentSheet(f)
	if !errors.Is(err, analytics.ErrSchemaMissingColumn) {
		t.Errorf("期望缺列错误，实际: %v", err)
	}
}

func TestParseStudentSheetMissing(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	_, err := parseStudentSheet(f)
	if !errors.Is(err, util.ErrSheetNotFound) {
		t.Errorf("期望工作表缺失错误，实际: %v", err)
	}
}

func TestParseWeightSheet(t *testing.T) {
	f := newWeightSheet(t, [][]interface{}{
		{"lecture", "chapter", "Dart", "Widget"},
		{"1", "1", "1", "0"},
		{"1", "2", "0.5", "2"},
	})
	defer f.Close()

	weights, err := parseWeightSheet(f)
	if err != nil {
		t.Fatalf("解析权重表失败: %v", err)
	}
	if len(weights) != 4 {
		t.Fatalf("期望 4 条权重，实际 %d 条", len(weights))
	}

	first := weights[0]
	if first.Lecture != 1 || first.Chapter != 1 || first.Skill != "Dart" || first.Weight != 1 {
		t.Errorf("首条权重解析错误: %+v", first)
	}
	if first.RowIndex != 0 || first.ColumnIndex != 0 {
		t.Errorf("首条权重行列索引错误: %+v", first)
	}

	last := weights[3]
	if last.Skill != "Widget" || last.Weight != 2 {
		t.Errorf("末条权重解析错误: %+v", last)
	}
	if last.RowIndex != 1 || last.ColumnIndex != 1 {
		t.Errorf("末条权重行列索引错误: %+v", last)
	}
}

func TestParseWeightSheetEmptyCellIsZero(t *testing.T) {
	f := newWeightSheet(t, [][]interface{}{
		{"lecture", "chapter", "Dart"},
		{"1", "1", ""},
	})
	defer f.Close()

	weights, err := parseWeightSheet(f)
	if err != nil {
		t.Fatalf("解析权重表失败: %v", err)
	}
	if len(weights) != 1 || weights[0].Weight != 0 {
		t.Errorf("空权重单元格应解析为 0: %+v", weights)
	}
}

func TestParseWeightSheetBlankHeaderColumn(t *testing.T) {
	// 表头中间的空列不应使后续技能的权重错位
	f := newWeightSheet(t, [][]interface{}{
		{"lecture", "chapter", "Dart", "", "Widget"},
		{"1", "1", "2", "9", "3"},
	})
	defer f.Close()

	weights, err := parseWeightSheet(f)
	if err != nil {
		t.Fatalf("解析权重表失败: %v", err)
	}
	if len(weights) != 2 {
		t.Fatalf("期望 2 条权重，实际 %d 条", len(weights))
	}
	if weights[0].Skill != "Dart" || weights[0].Weight != 2 || weights[0].ColumnIndex != 0 {
		t.Errorf("Dart 权重解析错误: %+v", weights[0])
	}
	if weights[1].Skill != "Widget" || weights[1].Weight != 3 || weights[1].ColumnIndex != 1 {
		t.Errorf("Widget 权重解析错误: %+v", weights[1])
	}
}

func TestParseWeightSheetNoSkillColumns(t *testing.T) {
	f := newWeightSheet(t, [][]interface{}{
		{"lecture", "chapter"},
		{"1", "1"},
	})
	defer f.Close()

	_, err := parseWeightSheet(f)
	if !errors.Is(err, analytics.ErrSchemaNoSkillColumns) {
		t.Errorf("期望无技能列错误，实际: %v", err)
	}
}

func TestParseWeightSheetNegativeWeight(t *testing.T) {
	f := newWeightSheet(t, [][]interface{}{
		{"lecture", "chapter", "Dart"},
		{"1", "1", "-0.5"},
	})
	defer f.Close()

	_, err := parseWeightSheet(f)
	if !errors.Is(err, util.ErrNegativeWeight) {
		t.Errorf("期望负权重错误，实际: %v", err)
	}
}

func TestParseWeightSheetBadHeader(t *testing.T) {
	f := newWeightSheet(t, [][]interface{}{
		{"chapter", "lecture", "Dart"},
	})
	defer f.Close()

	_, err := parseWeightSheet(f)
	if !errors.Is(err, analytics.ErrSchemaMissingColumn) {
		t.Errorf("期望表头错误，实际: %v", err)
	}
}

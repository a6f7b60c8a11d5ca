package analytics

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func testWeightTable(t *testing.T) *WeightTable {
	t.Helper()
	table, err := NewWeightTable(
		[]string{"Dart", "Widget"},
		[]WeightRow{
			{Lecture: 1, Chapter: 1, Weights: map[string]float64{"Dart": 2, "Widget": 1}},
			{Lecture: 1, Chapter: 2, Weights: map[string]float64{"Dart": 1, "Widget": 3}},
		},
	)
	if err != nil {
		t.Fatalf("NewWeightTable() error = %v", err)
	}
	return table
}

func aliceRecords() []StudentRecord {
	return []StudentRecord{
		{StudentName: "Alice", Lecture: 1, Chapter: 1, Exam1: 80, Exam2: 100, Progress: 1.0},
		{StudentName: "Alice", Lecture: 1, Chapter: 2, Exam1: 60, Exam2: 60, Progress: 0.0},
		{StudentName: "Bob", Lecture: 1, Chapter: 1, Exam1: 50, Exam2: 50, Progress: 0.5},
	}
}

func TestComputeSkillScores_AliceScenario(t *testing.T) {
	scores, err := ComputeSkillScores(aliceRecords(), testWeightTable(t), "Alice")
	if err != nil {
		t.Fatalf("ComputeSkillScores() error = %v", err)
	}

	want := []SkillScore{
		{Skill: "Dart", RawScore: 240, MaxScore: 300, NormalizedScore: 80.0},
		{Skill: "Widget", RawScore: 270, MaxScore: 400, NormalizedScore: 67.5},
	}
	if !reflect.DeepEqual(scores, want) {
		t.Errorf("ComputeSkillScores() = %+v, want %+v", scores, want)
	}
}

func TestComputeSkillScores_StudentNotFound(t *testing.T) {
	_, err := ComputeSkillScores(aliceRecords(), testWeightTable(t), "Carol")
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("ComputeSkillScores() error = %v, want ErrStudentNotFound", err)
	}
}

func TestComputeSkillScores_CeilingProperty(t *testing.T) {
	records := []StudentRecord{
		{StudentName: "Alice", Lecture: 1, Chapter: 1, Exam1: 100, Exam2: 100},
		{StudentName: "Alice", Lecture: 1, Chapter: 2, Exam1: 100, Exam2: 100},
	}
	scores, err := ComputeSkillScores(records, testWeightTable(t), "Alice")
	if err != nil {
		t.Fatalf("ComputeSkillScores() error = %v", err)
	}
	for _, sc := range scores {
		if sc.NormalizedScore != 100 {
			t.Errorf("技能 %s: NormalizedScore = %v, want 100", sc.Skill, sc.NormalizedScore)
		}
	}
}

func TestComputeSkillScores_FloorProperty(t *testing.T) {
	records := []StudentRecord{
		{StudentName: "Alice", Lecture: 1, Chapter: 1, Exam1: 0, Exam2: 0},
		{StudentName: "Alice", Lecture: 1, Chapter: 2, Exam1: 0, Exam2: 0},
	}
	scores, err := ComputeSkillScores(records, testWeightTable(t), "Alice")
	if err != nil {
		t.Fatalf("ComputeSkillScores() error = %v", err)
	}
	for _, sc := range scores {
		if sc.NormalizedScore != 0 {
			t.Errorf("技能 %s: NormalizedScore = %v, want 0", sc.Skill, sc.NormalizedScore)
		}
	}
}

func TestComputeSkillScores_UnweightedChaptersDropped(t *testing.T) {
	records := []StudentRecord{
		{StudentName: "Alice", Lecture: 1, Chapter: 1, Exam1: 80, Exam2: 100},
		// 权重表中不存在的章节，内连接应丢弃
		{StudentName: "Alice", Lecture: 9, Chapter: 9, Exam1: 0, Exam2: 0},
	}
	scores, err := ComputeSkillScores(records, testWeightTable(t), "Alice")
	if err != nil {
		t.Fatalf("ComputeSkillScores() error = %v", err)
	}
	for _, sc := range scores {
		if sc.Skill == "Dart" && sc.RawScore != 180 {
			t.Errorf("Dart RawScore = %v, want 180（未加权章节不计入）", sc.RawScore)
		}
	}
}

func TestComputeSkillScores_DegenerateSkill(t *testing.T) {
	table, err := NewWeightTable(
		[]string{"Dart", "Empty"},
		[]WeightRow{
			{Lecture: 1, Chapter: 1, Weights: map[string]float64{"Dart": 2, "Empty": 0}},
		},
	)
	if err != nil {
		t.Fatalf("NewWeightTable() error = %v", err)
	}

	records := []StudentRecord{
		{StudentName: "Alice", Lecture: 1, Chapter: 1, Exam1: 80, Exam2: 100},
	}
	_, err = ComputeSkillScores(records, table, "Alice")
	if !errors.Is(err, ErrDegenerateSkill) {
		t.Errorf("ComputeSkillScores() error = %v, want ErrDegenerateSkill", err)
	}
}

func TestComputeSkillScores_DoesNotMutateInputs(t *testing.T) {
	records := aliceRecords()
	table := testWeightTable(t)

	recordsCopy := make([]StudentRecord, len(records))
	copy(recordsCopy, records)
	rowsCopy := make([]WeightRow, len(table.Rows))
	for i, row := range table.Rows {
		weights := make(map[string]float64, len(row.Weights))
		for k, v := range row.Weights {
			weights[k] = v
		}
		rowsCopy[i] = WeightRow{Lecture: row.Lecture, Chapter: row.Chapter, Weights: weights}
	}

	if _, err := ComputeSkillScores(records, table, "Alice"); err != nil {
		t.Fatalf("ComputeSkillScores() error = %v", err)
	}

	if !reflect.DeepEqual(records, recordsCopy) {
		t.Error("ComputeSkillScores() 修改了输入记录")
	}
	if !reflect.DeepEqual(table.Rows, rowsCopy) {
		t.Error("ComputeSkillScores() 修改了权重表")
	}
}

func TestReport_AliceScenario(t *testing.T) {
	report, err := Report(aliceRecords(), testWeightTable(t), "Alice")
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	if report.BestSkill.Skill != "Dart" || report.BestSkill.NormalizedScore != 80.0 {
		t.Errorf("BestSkill = %+v, want Dart/80", report.BestSkill)
	}
	if report.WorstSkill.Skill != "Widget" || report.WorstSkill.NormalizedScore != 67.5 {
		t.Errorf("WorstSkill = %+v, want Widget/67.5", report.WorstSkill)
	}
	// Widget 权重最高的章节是 (1, 2) 的 3
	want := ChapterWeight{Lecture: 1, Chapter: 2, Weight: 3}
	if report.MostWeightedChapterForWorstSkill != want {
		t.Errorf("MostWeightedChapterForWorstSkill = %+v, want %+v", report.MostWeightedChapterForWorstSkill, want)
	}
	// progress 总和 1.0 / 2 行 × 100 = 50.00
	if report.ProgressPercent != 50.00 {
		t.Errorf("ProgressPercent = %v, want 50.00", report.ProgressPercent)
	}
}

func TestReport_Idempotent(t *testing.T) {
	records := aliceRecords()
	table := testWeightTable(t)

	first, err := Report(records, table, "Alice")
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	second, err := Report(records, table, "Alice")
	if err != nil {
		t.Fatalf("Report() 第二次调用 error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("两次调用结果不一致: %+v vs %+v", first, second)
	}
}

func TestReport_TieBreakFirstInSortedOrder(t *testing.T) {
	table, err := NewWeightTable(
		[]string{"Widget", "Dart"},
		[]WeightRow{
			{Lecture: 1, Chapter: 1, Weights: map[string]float64{"Dart": 1, "Widget": 1}},
		},
	)
	if err != nil {
		t.Fatalf("NewWeightTable() error = %v", err)
	}
	records := []StudentRecord{
		{StudentName: "Alice", Lecture: 1, Chapter: 1, Exam1: 90, Exam2: 90},
	}

	report, err := Report(records, table, "Alice")
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	// 分数全部并列时，按技能名排序后的首个胜出
	if report.BestSkill.Skill != "Dart" {
		t.Errorf("BestSkill = %s, want Dart（排序后首个）", report.BestSkill.Skill)
	}
	if report.WorstSkill.Skill != "Dart" {
		t.Errorf("WorstSkill = %s, want Dart（排序后首个）", report.WorstSkill.Skill)
	}
}

func TestReport_ChapterTieBreakOriginalOrder(t *testing.T) {
	table, err := NewWeightTable(
		[]string{"Dart"},
		[]WeightRow{
			{Lecture: 2, Chapter: 5, Weights: map[string]float64{"Dart": 3}},
			{Lecture: 1, Chapter: 1, Weights: map[string]float64{"Dart": 3}},
		},
	)
	if err != nil {
		t.Fatalf("NewWeightTable() error = %v", err)
	}
	records := []StudentRecord{
		{StudentName: "Alice", Lecture: 1, Chapter: 1, Exam1: 70, Exam2: 70},
	}

	report, err := Report(records, table, "Alice")
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	// 权重并列时取权重表原始行序的首行
	want := ChapterWeight{Lecture: 2, Chapter: 5, Weight: 3}
	if report.MostWeightedChapterForWorstSkill != want {
		t.Errorf("MostWeightedChapterForWorstSkill = %+v, want %+v", report.MostWeightedChapterForWorstSkill, want)
	}
}

func TestReport_NoWeightedChapters(t *testing.T) {
	records := []StudentRecord{
		{StudentName: "Alice", Lecture: 9, Chapter: 9, Exam1: 80, Exam2: 80},
	}
	_, err := Report(records, testWeightTable(t), "Alice")
	if !errors.Is(err, ErrNoWeightedChapters) {
		t.Errorf("Report() error = %v, want ErrNoWeightedChapters", err)
	}
}

func TestReport_ProgressRounding(t *testing.T) {
	table, err := NewWeightTable(
		[]string{"Dart"},
		[]WeightRow{
			{Lecture: 1, Chapter: 1, Weights: map[string]float64{"Dart": 1}},
			{Lecture: 1, Chapter: 2, Weights: map[string]float64{"Dart": 1}},
			{Lecture: 1, Chapter: 3, Weights: map[string]float64{"Dart": 1}},
		},
	)
	if err != nil {
		t.Fatalf("NewWeightTable() error = %v", err)
	}
	records := []StudentRecord{
		{StudentName: "Alice", Lecture: 1, Chapter: 1, Exam1: 80, Exam2: 80, Progress: 1.0},
	}

	report, err := Report(records, table, "Alice")
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	// 1.0 / 3 × 100 = 33.333... → 33.33
	if math.Abs(report.ProgressPercent-33.33) > 1e-9 {
		t.Errorf("ProgressPercent = %v, want 33.33", report.ProgressPercent)
	}
}

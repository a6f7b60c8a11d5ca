package analytics

import (
	"fmt"
	"math"
	"sort"
)

type lectureChapter struct {
	lecture int
	chapter int
}

// ComputeSkillScores 计算单个学生按技能归一化后的熟练度得分。
//
// 流程：筛选学生记录 → 计算考试均分 → 权重表宽转长 → 按 (lecture, chapter)
// 内连接 → 按技能汇总加权得分与理论满分 → 归一化到 0~100 → 按技能名排序。
// 未命中权重表的章节按内连接语义丢弃。输入只读，派生列全部写入私有副本，
// 同一份源表可被并发调用安全复用。
func ComputeSkillScores(records []StudentRecord, weights *WeightTable, studentName string) ([]SkillScore, error) {
	if weights == nil || len(weights.Skills) == 0 {
		return nil, ErrSchemaNoSkillColumns
	}

	// 1. 筛选该学生的记录
	examAvg := make(map[lectureChapter]float64)
	found := false
	for _, r := range records {
		if r.StudentName != studentName {
			continue
		}
		found = true
		// 2. 考试均分
		examAvg[lectureChapter{r.Lecture, r.Chapter}] = (r.Exam1 + r.Exam2) / 2
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, studentName)
	}

	// 3~7. 长表内连接后按技能汇总；weightSum 基于完整权重表，与学生无关
	raw := make(map[string]float64)
	weightSum := make(map[string]float64)
	matched := make(map[string]bool)
	for _, w := range weights.melt() {
		weightSum[w.skill] += w.weight
		if avg, ok := examAvg[lectureChapter{w.lecture, w.chapter}]; ok {
			raw[w.skill] += avg * w.weight
			matched[w.skill] = true
		}
	}

	// 8~9. 归一化并按技能名排序，保证输出确定性
	skills := make([]string, 0, len(matched))
	for skill := range matched {
		skills = append(skills, skill)
	}
	sort.Strings(skills)

	scores := make([]SkillScore, 0, len(skills))
	for _, skill := range skills {
		maxScore := weightSum[skill] * 100
		if maxScore == 0 {
			return nil, fmt.Errorf("%w: %s", ErrDegenerateSkill, skill)
		}
		scores = append(scores, SkillScore{
			Skill:           skill,
			RawScore:        raw[skill],
			MaxScore:        maxScore,
			NormalizedScore: raw[skill] / maxScore * 100,
		})
	}
	return scores, nil
}

// Report 生成学生技能分析报告：最强/最弱技能、最弱技能权重最高的章节、
// 以及总体进度百分比。
//
// 进度 = 学生 progress 列之和 / 权重表总行数 × 100，按源数据口径除以章节
// 数量而非进度满分之和，保留两位小数。最强/最弱按技能名排序后的序列取
// 首个最大/最小值，章节并列时取权重表原始行序的首行。
func Report(records []StudentRecord, weights *WeightTable, studentName string) (*SkillReport, error) {
	scores, err := ComputeSkillScores(records, weights, studentName)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoWeightedChapters, studentName)
	}

	var totalProgress float64
	for _, r := range records {
		if r.StudentName == studentName {
			totalProgress += r.Progress
		}
	}
	progressPercent := round2(totalProgress / float64(len(weights.Rows)) * 100)

	best, worst := scores[0], scores[0]
	for _, sc := range scores[1:] {
		if sc.NormalizedScore > best.NormalizedScore {
			best = sc
		}
		if sc.NormalizedScore < worst.NormalizedScore {
			worst = sc
		}
	}

	top := ChapterWeight{
		Lecture: weights.Rows[0].Lecture,
		Chapter: weights.Rows[0].Chapter,
		Weight:  weights.Rows[0].Weights[worst.Skill],
	}
	for _, row := range weights.Rows[1:] {
		if w := row.Weights[worst.Skill]; w > top.Weight {
			top = ChapterWeight{Lecture: row.Lecture, Chapter: row.Chapter, Weight: w}
		}
	}

	return &SkillReport{
		BestSkill:                        SkillBrief{Skill: best.Skill, NormalizedScore: best.NormalizedScore},
		WorstSkill:                       SkillBrief{Skill: worst.Skill, NormalizedScore: worst.NormalizedScore},
		MostWeightedChapterForWorstSkill: top,
		ProgressPercent:                  progressPercent,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

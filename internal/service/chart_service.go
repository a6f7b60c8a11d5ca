package service

import (
	"bytes"
	"context"
	"edu_analytics_backend/internal/analytics"
	"edu_analytics_backend/internal/model"
	"edu_analytics_backend/internal/repository"
	"edu_analytics_backend/internal/util"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"edu_analytics_backend/pkg/monitoring"
)

// ChartService 渲染图表产物并通过存储层持久化。
// 渲染只读取数据，不回写任何输入表
type ChartService struct {
	RecordRepo *repository.StudentRecordRepository
	Analytics  *AnalyticsService
	Storage    *StorageService

	// outputDir 支持配置热更新，读写都经过 mu
	mu        sync.RWMutex
	outputDir string
}

func NewChartService(
	recordRepo *repository.StudentRecordRepository,
	analyticsService *AnalyticsService,
	storage *StorageService,
	outputDir string,
) *ChartService {
	return &ChartService{
		RecordRepo: recordRepo,
		Analytics:  analyticsService,
		Storage:    storage,
		outputDir:  outputDir,
	}
}

// SetOutputDir 配置热更新回调使用，可与请求处理并发
func (s *ChartService) SetOutputDir(dir string) {
	s.mu.Lock()
	s.outputDir = dir
	s.mu.Unlock()
}

func (s *ChartService) OutputDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.outputDir
}

// StudyTimeChart 某学生某讲次的章节学习时长折线图，
// 产物命名 {student}_lec_{n}_time.html
func (s *ChartService) StudyTimeChart(ctx context.Context, studentName string, lecture int) (string, error) {
	records, err := s.RecordRepo.FindByStudentAndLecture(studentName, lecture)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", fmt.Errorf("%w: %s (lecture %d)", analytics.ErrStudentNotFound, studentName, lecture)
	}

	var buf bytes.Buffer
	title := fmt.Sprintf("%s's Study Time per Chapter (Lecture %d)", studentName, lecture)
	if err := renderChapterLine(&buf, title, "Study Time (min)", records, func(r model.StudentRecord) float64 {
		return r.Time
	}); err != nil {
		return "", err
	}

	monitoring.ChartCounter.WithLabelValues("study_time").Inc()
	name := studyTimeChartName(studentName, lecture)
	return s.upload(ctx, name, &buf)
}

// IncorrectCountChart 某学生某讲次的章节错题数折线图，
// 产物命名 {student}_lec_{n}_incorrect_count.html
func (s *ChartService) IncorrectCountChart(ctx context.Context, studentName string, lecture int) (string, error) {
	records, err := s.RecordRepo.FindByStudentAndLecture(studentName, lecture)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", fmt.Errorf("%w: %s (lecture %d)", analytics.ErrStudentNotFound, studentName, lecture)
	}

	var buf bytes.Buffer
	title := fmt.Sprintf("%s's Incorrect Count per Chapter (Lecture %d)", studentName, lecture)
	if err := renderChapterLine(&buf, title, "Incorrect Count", records, func(r model.StudentRecord) float64 {
		return float64(r.Count)
	}); err != nil {
		return "", err
	}

	monitoring.ChartCounter.WithLabelValues("incorrect_count").Inc()
	name := incorrectCountChartName(studentName, lecture)
	return s.upload(ctx, name, &buf)
}

// SkillRadarChart 学生技能熟练度雷达图，轴固定 0~100，
// 产物命名 {student}_skill.html
func (s *ChartService) SkillRadarChart(ctx context.Context, studentName string) (string, error) {
	scores, err := s.Analytics.GetSkillScores(studentName)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := renderSkillRadar(&buf, studentName, scores); err != nil {
		return "", err
	}

	monitoring.ChartCounter.WithLabelValues("skill_radar").Inc()
	name := skillRadarChartName(studentName)
	return s.upload(ctx, name, &buf)
}

func (s *ChartService) upload(ctx context.Context, filename string, buf *bytes.Buffer) (string, error) {
	object := path.Join(filepath.ToSlash(filepath.Clean(s.OutputDir())), filename)
	size := int64(buf.Len())
	return s.Storage.Upload(ctx, object, buf, size, util.MimeHTML)
}

func studyTimeChartName(studentName string, lecture int) string {
	return fmt.Sprintf("%s_lec_%d_time.html", studentName, lecture)
}

func incorrectCountChartName(studentName string, lecture int) string {
	return fmt.Sprintf("%s_lec_%d_incorrect_count.html", studentName, lecture)
}

func skillRadarChartName(studentName string) string {
	return fmt.Sprintf("%s_skill.html", studentName)
}

// renderChapterLine 章节维度折线图，数据点的 Name 携带最后学习时间
func renderChapterLine(w io.Writer, title, seriesName string, records []model.StudentRecord, value func(model.StudentRecord) float64) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title}),
	)

	chapters := make([]string, len(records))
	data := make([]opts.LineData, len(records))
	for i, r := range records {
		chapters[i] = fmt.Sprintf("%d", r.Chapter)
		data[i] = opts.LineData{
			Name:  r.LastStudyDatetime.Format(util.TimeFormat),
			Value: value(r),
		}
	}

	line.SetXAxis(chapters).AddSeries(seriesName, data)
	return line.Render(w)
}

func renderSkillRadar(w io.Writer, studentName string, scores []analytics.SkillScore) error {
	indicators := make([]*opts.Indicator, len(scores))
	values := make([]float64, len(scores))
	for i, sc := range scores {
		indicators[i] = &opts.Indicator{Name: sc.Skill, Max: 100}
		values[i] = sc.NormalizedScore
	}

	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: studentName}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s's Skill Proficiency", studentName)}),
		charts.WithRadarComponentOpts(opts.RadarComponent{Indicator: indicators}),
	)
	radar.AddSeries(studentName, []opts.RadarData{{Name: studentName, Value: values}})
	return radar.Render(w)
}

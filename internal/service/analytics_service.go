package service

import (
	"context"
	"edu_analytics_backend/internal/analytics"
	"edu_analytics_backend/internal/model"
	"edu_analytics_backend/internal/repository"
	"edu_analytics_backend/internal/util"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"edu_analytics_backend/pkg/monitoring"
)

type AnalyticsService struct {
	RecordRepo *repository.StudentRecordRepository
	WeightRepo *repository.SkillWeightRepository
	Redis      *redis.Client

	// cacheTTL 支持配置热更新，读写都经过 mu
	mu       sync.RWMutex
	cacheTTL time.Duration
}

func NewAnalyticsService(
	recordRepo *repository.StudentRecordRepository,
	weightRepo *repository.SkillWeightRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
) *AnalyticsService {
	return &AnalyticsService{
		RecordRepo: recordRepo,
		WeightRepo: weightRepo,
		Redis:      rdb,
		cacheTTL:   cacheTTL,
	}
}

// SetCacheTTL 配置热更新回调使用，可与请求处理并发
func (s *AnalyticsService) SetCacheTTL(ttl time.Duration) {
	s.mu.Lock()
	s.cacheTTL = ttl
	s.mu.Unlock()
}

func (s *AnalyticsService) CacheTTL() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cacheTTL
}

func (s *AnalyticsService) ListStudents() ([]string, error) {
	return s.RecordRepo.ListStudentNames()
}

func (s *AnalyticsService) GetSkillScores(studentName string) ([]analytics.SkillScore, error) {
	records, table, err := s.loadTables(studentName)
	if err != nil {
		return nil, err
	}
	return analytics.ComputeSkillScores(records, table, studentName)
}

func (s *AnalyticsService) GetSkillReport(ctx context.Context, studentName string) (*analytics.SkillReport, error) {
	key := reportCacheKey(studentName)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var report analytics.SkillReport
			if err := json.Unmarshal([]byte(cached), &report); err == nil {
				monitoring.ReportCounter.WithLabelValues("hit").Inc()
				return &report, nil
			}
		}
	}

	records, table, err := s.loadTables(studentName)
	if err != nil {
		return nil, err
	}

	report, err := analytics.Report(records, table, studentName)
	if err != nil {
		return nil, err
	}
	monitoring.ReportCounter.WithLabelValues("miss").Inc()

	if s.Redis != nil {
		if data, err := json.Marshal(report); err == nil {
			s.Redis.Set(ctx, key, data, s.CacheTTL())
		}
	}
	return report, nil
}

// InvalidateReports 数据集重新导入后清空缓存的报告。
// 用 SCAN 增量遍历，避免 KEYS 阻塞 Redis
func (s *AnalyticsService) InvalidateReports(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	iter := s.Redis.Scan(ctx, 0, "skillreport:*", 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil || len(keys) == 0 {
		return
	}
	s.Redis.Del(ctx, keys...)
}

func (s *AnalyticsService) loadTables(studentName string) ([]analytics.StudentRecord, *analytics.WeightTable, error) {
	table, err := s.WeightRepo.LoadWeightTable()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrDatasetEmpty
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.RecordRepo.FindByStudent(studentName)
	if err != nil {
		return nil, nil, err
	}
	return toEngineRecords(rows), table, nil
}

func reportCacheKey(studentName string) string {
	return "skillreport:" + studentName
}

func toEngineRecords(rows []model.StudentRecord) []analytics.StudentRecord {
	records := make([]analytics.StudentRecord, len(rows))
	for i, r := range rows {
		records[i] = analytics.StudentRecord{
			StudentName:       r.StudentName,
			Lecture:           r.Lecture,
			Chapter:           r.Chapter,
			Exam1:             r.Exam1,
			Exam2:             r.Exam2,
			Progress:          r.Progress,
			Count:             r.Count,
			Time:              r.Time,
			LastStudyDatetime: r.LastStudyDatetime,
		}
	}
	return records
}

package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"lifesnaps-data/internal/domain"
	"lifesnaps-data/internal/repository"
	"lifesnaps-data/internal/sleep"
)

// LoaderService 对外的只读加载服务
// 存储句柄由构造函数注入，无全局状态；所有校验在任何事件查询之前完成
type LoaderService struct {
	repo   repository.FitbitRepository
	agg    *sleep.Aggregator
	logger *zap.Logger
}

func NewLoaderService(repo repository.FitbitRepository, logger *zap.Logger) *LoaderService {
	return &LoaderService{
		repo:   repo,
		agg:    sleep.NewAggregator(repo, logger),
		logger: logger,
	}
}

// SleepStageResult 阶段视图结果：区间行 + 被跳过的畸形 log id
type SleepStageResult struct {
	Intervals     []domain.MergedInterval
	SkippedLogIDs []int64
}

// SleepSummaryResult 摘要视图结果：每条 sleep log 一行
type SleepSummaryResult struct {
	Rows          []domain.SleepSummary
	SkippedLogIDs []int64
}

// ParticipantIDs 返回数据集中全部已知参与者 id
func (s *LoaderService) ParticipantIDs(ctx context.Context) ([]string, error) {
	return s.repo.ParticipantIDs(ctx)
}

// LoadSleepStageSequence 加载窗口内全部 sleep log 的合并阶段序列
// includeShortWake=false 时只做 30s 重采样 + 合并，不叠加短醒
func (s *LoaderService) LoadSleepStageSequence(ctx context.Context, participantID string, window domain.Window, includeShortWake bool) (*SleepStageResult, error) {
	intervals, skipped, err := s.agg.Expand(ctx, participantID, window, includeShortWake)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		s.logger.Info("Loaded sleep stage sequence with skipped logs",
			zap.String("participant_id", participantID),
			zap.Int("interval_count", len(intervals)),
			zap.Int64s("skipped_log_ids", skipped),
		)
	}
	return &SleepStageResult{Intervals: intervals, SkippedLogIDs: skipped}, nil
}

// LoadSleepSummary 加载摘要视图：每条 sleep log 一行
func (s *LoaderService) LoadSleepSummary(ctx context.Context, participantID string, window domain.Window) (*SleepSummaryResult, error) {
	rows, skipped, err := s.agg.Summarize(ctx, participantID, window)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		s.logger.Info("Loaded sleep summary with skipped logs",
			zap.String("participant_id", participantID),
			zap.Int("row_count", len(rows)),
			zap.Int64s("skipped_log_ids", skipped),
		)
	}
	return &SleepSummaryResult{Rows: rows, SkippedLogIDs: skipped}, nil
}

// LoadMetric 通用单集合加载路径：按静态映射取文档并装饰时间列
func (s *LoaderService) LoadMetric(ctx context.Context, metric, participantID string, window domain.Window) (*domain.Table, error) {
	spec, ok := metricSpecs[metric]
	if !ok {
		return nil, fmt.Errorf("unknown metric %q", metric)
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkParticipant(ctx, participantID); err != nil {
		return nil, err
	}

	docs, err := s.repo.MetricDocuments(ctx, spec, participantID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load metric %s: %w", metric, err)
	}

	table := tableFromDocs(docs)
	if spec.StartKey != "" && len(table.Rows) > 0 {
		decorateDatetimeColumns(table, spec.StartKey)
	}
	return table, nil
}

// checkParticipant 参与者 id 必须在已知集合中，否则 NotFoundError
func (s *LoaderService) checkParticipant(ctx context.Context, participantID string) error {
	ids, err := s.repo.ParticipantIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list participant ids: %w", err)
	}
	for _, id := range ids {
		if id == participantID {
			return nil
		}
	}
	return &domain.NotFoundError{ParticipantID: participantID}
}

// tableFromDocs 按首次出现顺序收集列，行保持查询顺序
func tableFromDocs(docs []map[string]any) *domain.Table {
	table := &domain.Table{}
	for _, doc := range docs {
		keys := make([]string, 0, len(doc))
		for k := range doc {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			table.AddColumn(k)
		}
		table.Rows = append(table.Rows, doc)
	}
	return table
}

// decorateDatetimeColumns 起始时间列改名为 isoDate，补充
// unixTimestampInMs / timezoneOffsetInMs，按时间升序排序，
// 三个时间列移到表头（timezoneOffsetInMs, unixTimestampInMs, isoDate 顺序）
func decorateDatetimeColumns(table *domain.Table, startKey string) {
	table.RenameColumn(startKey, colIsoDate)
	table.AddColumn(colUnixTimestampInMs)
	table.AddColumn(colTimezoneOffsetInMs)
	for _, row := range table.Rows {
		row[colTimezoneOffsetInMs] = int64(0)
		if ts, ok := row[colIsoDate].(time.Time); ok {
			row[colUnixTimestampInMs] = ts.UnixMilli()
		}
	}
	sort.SliceStable(table.Rows, func(i, j int) bool {
		a, aok := table.Rows[i][colIsoDate].(time.Time)
		b, bok := table.Rows[j][colIsoDate].(time.Time)
		if !aok || !bok {
			return aok && !bok
		}
		return a.Before(b)
	})
	table.ReorderFront(colTimezoneOffsetInMs, colUnixTimestampInMs, colIsoDate)
}

// asInt64 数据集里数值列既可能是数字也可能是字符串
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

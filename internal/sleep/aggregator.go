package sleep

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"lifesnaps-data/internal/domain"
)

// Store 聚合器需要的最小取数能力（由 repository 提供）
type Store interface {
	// ParticipantIDs 返回数据集中全部已知参与者 id
	ParticipantIDs(ctx context.Context) ([]string, error)
	// SleepLogs 返回窗口内某参与者的全部 sleep log（含粗粒度与短醒序列）
	// byDateOfSleep=false 时窗口作用在 startTime，true 时作用在 dateOfSleep
	SleepLogs(ctx context.Context, participantID string, window domain.Window, byDateOfSleep bool) ([]domain.SleepLog, error)
}

// Aggregator 会话聚合器：对窗口内每条 sleep log 跑一次合并引擎
// 无持久状态，每次调用都是输入 + 存储当前内容的纯函数
type Aggregator struct {
	store  Store
	logger *zap.Logger
}

func NewAggregator(store Store, logger *zap.Logger) *Aggregator {
	return &Aggregator{store: store, logger: logger}
}

// Expand 阶段视图：逐条 sleep log 合并，打上 logId 后拼接，
// 最终按绝对时间重新排序（跨 log 顺序始终按时间先后）。
// 缺少阶段序列或事件非法的 log 仅跳过该条，返回被跳过的 log id 列表。
func (a *Aggregator) Expand(ctx context.Context, participantID string, window domain.Window, includeShortWake bool) ([]domain.MergedInterval, []int64, error) {
	if err := a.checkRequest(ctx, participantID, window); err != nil {
		return nil, nil, err
	}

	logs, err := a.store.SleepLogs(ctx, participantID, window, false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch sleep logs: %w", err)
	}

	var intervals []domain.MergedInterval
	var skipped []int64
	for _, sleepLog := range logs {
		merged, err := a.mergeLog(sleepLog, includeShortWake)
		if err != nil {
			a.logger.Warn("Skipping sleep log",
				zap.Int64("log_id", sleepLog.LogID),
				zap.Error(err),
			)
			skipped = append(skipped, sleepLog.LogID)
			continue
		}
		intervals = append(intervals, merged...)
	}

	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].IsoDate.Before(intervals[j].IsoDate)
	})
	return intervals, skipped, nil
}

// Summarize 摘要视图：每条 sleep log 一行，透传字段 + 四个阶段时长列（毫秒）
// 某阶段零次出现时对应列为 0；行按 dateOfSleep 排序
func (a *Aggregator) Summarize(ctx context.Context, participantID string, window domain.Window) ([]domain.SleepSummary, []int64, error) {
	if err := a.checkRequest(ctx, participantID, window); err != nil {
		return nil, nil, err
	}

	logs, err := a.store.SleepLogs(ctx, participantID, window, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch sleep logs: %w", err)
	}

	var rows []domain.SleepSummary
	var skipped []int64
	for _, sleepLog := range logs {
		merged, err := a.mergeLog(sleepLog, true)
		if err != nil {
			a.logger.Warn("Skipping sleep log",
				zap.Int64("log_id", sleepLog.LogID),
				zap.Error(err),
			)
			skipped = append(skipped, sleepLog.LogID)
			continue
		}

		durations := map[domain.Stage]int64{}
		for _, iv := range merged {
			durations[iv.Level] += int64(iv.Seconds)
		}

		row := summaryFromLog(sleepLog)
		row.DeepSleepDurationInMs = durations[domain.StageDeep] * 1000
		row.LightSleepDurationInMs = durations[domain.StageLight] * 1000
		row.RemSleepInMs = durations[domain.StageRem] * 1000
		row.AwakeDurationInMs = durations[domain.StageWake] * 1000
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DateOfSleep < rows[j].DateOfSleep
	})
	return rows, skipped, nil
}

// mergeLog 对单条 sleep log 跑合并引擎并打上 logId
func (a *Aggregator) mergeLog(sleepLog domain.SleepLog, includeShortWake bool) ([]domain.MergedInterval, error) {
	if len(sleepLog.StageEvents) == 0 {
		return nil, &domain.MalformedRecordError{LogID: sleepLog.LogID, Reason: "missing levels data"}
	}
	shortWakes := sleepLog.ShortWakeEvents
	if !includeShortWake {
		shortWakes = nil
	}
	merged, err := Merge(sleepLog.StageEvents, shortWakes)
	if err != nil {
		return nil, err
	}
	for i := range merged {
		merged[i].LogID = sleepLog.LogID
	}
	return merged, nil
}

// checkRequest 在任何事件查询之前校验窗口与参与者 id
func (a *Aggregator) checkRequest(ctx context.Context, participantID string, window domain.Window) error {
	if err := window.Validate(); err != nil {
		return err
	}
	ids, err := a.store.ParticipantIDs(ctx)
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

func summaryFromLog(sleepLog domain.SleepLog) domain.SleepSummary {
	return domain.SleepSummary{
		LogID:               sleepLog.LogID,
		DateOfSleep:         sleepLog.DateOfSleep,
		EndTime:             sleepLog.EndTime,
		Duration:            sleepLog.Duration,
		Efficiency:          sleepLog.Efficiency,
		MinutesToFallAsleep: sleepLog.MinutesToFallAsleep,
		MinutesAsleep:       sleepLog.MinutesAsleep,
		MinutesAwake:        sleepLog.MinutesAwake,
		MinutesAfterWakeup:  sleepLog.MinutesAfterWakeup,
		TimeInBed:           sleepLog.TimeInBed,
		MainSleep:           sleepLog.MainSleep,
		Type:                sleepLog.Type,
		InfoCode:            sleepLog.InfoCode,
		TimezoneOffsetInMs:  0,
		UnixTimestampInMs:   sleepLog.StartTime.UnixMilli(),
		IsoDate:             sleepLog.StartTime,
	}
}

package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"lifesnaps-data/internal/domain"
)

// 各指标的便捷加载入口；仅做列改名/派生列这类轻量整形，
// 取数与时间列装饰统一走 LoadMetric

func (s *LoaderService) LoadComputedTemperature(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricComputedTemperature, participantID, window)
}

func (s *LoaderService) LoadDeviceTemperature(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricDeviceTemperature, participantID, window)
}

func (s *LoaderService) LoadWristTemperature(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricWristTemperature, participantID, window)
}

func (s *LoaderService) LoadDailySpo2(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricDailySpo2, participantID, window)
}

func (s *LoaderService) LoadDailyHrvSummary(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricDailyHrvSummary, participantID, window)
}

func (s *LoaderService) LoadHrvDetails(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricHrvDetails, participantID, window)
}

func (s *LoaderService) LoadStressScore(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricStressScore, participantID, window)
}

func (s *LoaderService) LoadRespiratoryRateSummary(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricRespiratoryRateSummary, participantID, window)
}

func (s *LoaderService) LoadProfile(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricProfile, participantID, window)
}

func (s *LoaderService) LoadJournalEntries(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricJournalEntries, participantID, window)
}

func (s *LoaderService) LoadAltitude(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricAltitude, participantID, window)
}

func (s *LoaderService) LoadBadges(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricBadge, participantID, window)
}

func (s *LoaderService) LoadCalories(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricCalories, participantID, window)
}

func (s *LoaderService) LoadDistance(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricDistance, participantID, window)
}

func (s *LoaderService) LoadEstimatedOxygenVariation(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricEstimatedOxygenVariation, participantID, window)
}

func (s *LoaderService) LoadLightlyActiveMinutes(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricLightlyActiveMinutes, participantID, window)
}

func (s *LoaderService) LoadModeratelyActiveMinutes(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricModeratelyActiveMinutes, participantID, window)
}

func (s *LoaderService) LoadVeryActiveMinutes(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricVeryActiveMinutes, participantID, window)
}

func (s *LoaderService) LoadSedentaryMinutes(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricSedentaryMinutes, participantID, window)
}

func (s *LoaderService) LoadWaterLogs(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricWaterLogs, participantID, window)
}

func (s *LoaderService) LoadMindfulnessGoals(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	return s.LoadMetric(ctx, MetricMindfulnessGoals, participantID, window)
}

func (s *LoaderService) LoadTimeInHeartRateZones(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	table, err := s.LoadMetric(ctx, MetricTimeInHeartRateZones, participantID, window)
	if err != nil {
		return nil, err
	}
	renameDottedColumns(table)
	return table, nil
}

func (s *LoaderService) LoadDemographicVO2Max(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	table, err := s.LoadMetric(ctx, MetricDemographicVO2Max, participantID, window)
	if err != nil {
		return nil, err
	}
	renameDottedColumns(table)
	return table, nil
}

// ECG 波形的采样率与列名
const (
	ecgSampleRateHz    = 512
	colWaveformSamples = "waveformSamples"
	colEcgSampleValue  = "sampleValue"
)

// LoadECG 心电读数：waveformSamples 字符串展开为逐样本行，
// 每个样本按 512Hz 采样率派生自己的时间戳
func (s *LoaderService) LoadECG(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	table, err := s.LoadMetric(ctx, MetricECG, participantID, window)
	if err != nil {
		return nil, err
	}
	if len(table.Rows) == 0 {
		return table, nil
	}

	rows := make([]map[string]any, 0, len(table.Rows))
	for _, row := range table.Rows {
		samples := parseWaveformSamples(row[colWaveformSamples])
		delete(row, colWaveformSamples)
		if len(samples) == 0 {
			row[colEcgSampleValue] = nil
			rows = append(rows, row)
			continue
		}
		baseUnix, _ := asInt64(row[colUnixTimestampInMs])
		tzOffset, _ := asInt64(row[colTimezoneOffsetInMs])
		for i, sample := range samples {
			clone := make(map[string]any, len(row)+1)
			for k, v := range row {
				clone[k] = v
			}
			unixMs := float64(baseUnix) + float64(i)*1000/ecgSampleRateHz
			clone[colUnixTimestampInMs] = unixMs
			clone[colIsoDate] = time.UnixMicro(int64((unixMs + float64(tzOffset)) * 1000)).UTC()
			clone[colEcgSampleValue] = sample
			rows = append(rows, clone)
		}
	}
	table.Rows = rows
	table.RenameColumn(colWaveformSamples, colEcgSampleValue)
	return table, nil
}

// parseWaveformSamples 波形以空白分隔的数字字符串存储
func parseWaveformSamples(v any) []float64 {
	raw, ok := v.(string)
	if !ok {
		return nil
	}
	fields := strings.Fields(raw)
	samples := make([]float64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSuffix(f, ","), 64)
		if err != nil {
			continue
		}
		samples = append(samples, n)
	}
	return samples
}

// LoadHeartRate 心率：value.bpm / value.confidence 展开为顶层列
func (s *LoaderService) LoadHeartRate(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	table, err := s.LoadMetric(ctx, MetricHeartRate, participantID, window)
	if err != nil {
		return nil, err
	}
	table.RenameColumn("value.bpm", "bpm")
	table.RenameColumn("value.confidence", "confidence")
	return table, nil
}

// LoadRestingHeartRate 静息心率：value.* 提升为顶层列，丢弃无值的行
func (s *LoaderService) LoadRestingHeartRate(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	table, err := s.LoadMetric(ctx, MetricRestingHeartRate, participantID, window)
	if err != nil {
		return nil, err
	}
	rows := table.Rows[:0]
	for _, row := range table.Rows {
		if row["value.date"] == nil {
			continue
		}
		rows = append(rows, row)
	}
	table.Rows = rows
	table.RenameColumn("value.value", "value")
	table.RenameColumn("value.error", "error")
	table.DropColumn("value.date")
	return table, nil
}

// LoadSteps 步数：value 列改名为 steps，并派生按日累计的 totalSteps 列
func (s *LoaderService) LoadSteps(ctx context.Context, participantID string, window domain.Window) (*domain.Table, error) {
	table, err := s.LoadMetric(ctx, MetricSteps, participantID, window)
	if err != nil {
		return nil, err
	}
	table.RenameColumn("value", "steps")
	if len(table.Rows) == 0 {
		return table, nil
	}

	table.AddColumn("totalSteps")
	var day string
	var total int64
	for _, row := range table.Rows {
		ts, ok := row[colIsoDate].(time.Time)
		if !ok {
			continue
		}
		if d := ts.Format("2006-01-02"); d != day {
			day = d
			total = 0
		}
		if steps, ok := asInt64(row["steps"]); ok {
			row["steps"] = steps
			total += steps
		}
		row["totalSteps"] = total
	}
	return table, nil
}

// renameDottedColumns 把 a.b.c 形式的列名缩短为末段（原始数据的嵌套展开列）
func renameDottedColumns(table *domain.Table) {
	for _, col := range append([]string(nil), table.Columns...) {
		if i := strings.LastIndex(col, "."); i >= 0 {
			table.RenameColumn(col, col[i+1:])
		}
	}
}

package service

import (
	"lifesnaps-data/internal/domain"
)

// TableFromIntervals 阶段视图结果转扁平表（导出用）
func TableFromIntervals(intervals []domain.MergedInterval) *domain.Table {
	table := &domain.Table{
		Columns: []string{"logId", "level", "seconds", colIsoDate, colUnixTimestampInMs, colTimezoneOffsetInMs},
	}
	for _, iv := range intervals {
		table.Rows = append(table.Rows, map[string]any{
			"logId":               iv.LogID,
			"level":               string(iv.Level),
			"seconds":             iv.Seconds,
			colIsoDate:            iv.IsoDate,
			colUnixTimestampInMs:  iv.UnixTimestampInMs(),
			colTimezoneOffsetInMs: int64(0),
		})
	}
	return table
}

// TableFromSummaries 摘要视图结果转扁平表
// 前导列顺序沿用数据集惯例：logId, dateOfSleep, endTime, duration
func TableFromSummaries(rows []domain.SleepSummary) *domain.Table {
	table := &domain.Table{
		Columns: []string{
			"logId", "dateOfSleep", "endTime", "duration",
			"efficiency", "minutesToFallAsleep", "minutesAsleep", "minutesAwake",
			"minutesAfterWakeup", "timeInBed", "mainSleep", "type", "infoCode",
			"deepSleepDurationInMs", "lightSleepDurationInMs", "remSleepInMs", "awakeDurationInMs",
			colTimezoneOffsetInMs, colUnixTimestampInMs, colIsoDate,
		},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, map[string]any{
			"logId":                  row.LogID,
			"dateOfSleep":            row.DateOfSleep,
			"endTime":                row.EndTime,
			"duration":               row.Duration,
			"efficiency":             row.Efficiency,
			"minutesToFallAsleep":    row.MinutesToFallAsleep,
			"minutesAsleep":          row.MinutesAsleep,
			"minutesAwake":           row.MinutesAwake,
			"minutesAfterWakeup":     row.MinutesAfterWakeup,
			"timeInBed":              row.TimeInBed,
			"mainSleep":              row.MainSleep,
			"type":                   row.Type,
			"infoCode":               row.InfoCode,
			"deepSleepDurationInMs":  row.DeepSleepDurationInMs,
			"lightSleepDurationInMs": row.LightSleepDurationInMs,
			"remSleepInMs":           row.RemSleepInMs,
			"awakeDurationInMs":      row.AwakeDurationInMs,
			colTimezoneOffsetInMs:    row.TimezoneOffsetInMs,
			colUnixTimestampInMs:     row.UnixTimestampInMs,
			colIsoDate:               row.IsoDate,
		})
	}
	return table
}

package domain

import "time"

// Stage 睡眠阶段（Fitbit levels.data 中的 level 值）
type Stage string

const (
	StageDeep  Stage = "deep"
	StageLight Stage = "light"
	StageRem   Stage = "rem"
	StageWake  Stage = "wake"
)

// StageEvent 设备上报的粗粒度睡眠阶段区间（通常为分钟级）
type StageEvent struct {
	DateTime time.Time `json:"dateTime"`
	Level    Stage     `json:"level"`
	Seconds  int       `json:"seconds"`
}

// ShortWakeEvent 细粒度短醒中断（levels.shortData）
// 语义上永远是 wake，无论记录中带什么 level 标签
type ShortWakeEvent struct {
	DateTime time.Time `json:"dateTime"`
	Seconds  int       `json:"seconds"`
}

// StageSummary levels.summary 中单个阶段的统计（原样透传）
type StageSummary struct {
	Count               int `json:"count"`
	Minutes             int `json:"minutes"`
	ThirtyDayAvgMinutes int `json:"thirtyDayAvgMinutes"`
}

// SleepLog 一次睡眠会话：摘要字段 + 一条粗粒度阶段序列 + 0..1 条短醒序列
type SleepLog struct {
	LogID               int64     `json:"logId"`
	DateOfSleep         string    `json:"dateOfSleep"` // YYYY-MM-DD
	StartTime           time.Time `json:"startTime"`
	EndTime             string    `json:"endTime"`
	Duration            int64     `json:"duration"` // 毫秒
	Efficiency          int       `json:"efficiency"`
	MinutesToFallAsleep int       `json:"minutesToFallAsleep"`
	MinutesAsleep       int       `json:"minutesAsleep"`
	MinutesAwake        int       `json:"minutesAwake"`
	MinutesAfterWakeup  int       `json:"minutesAfterWakeup"`
	TimeInBed           int       `json:"timeInBed"`
	MainSleep           bool      `json:"mainSleep"`
	Type                string    `json:"type"`
	InfoCode            int       `json:"infoCode"`

	StageEvents     []StageEvent            `json:"stageEvents"`
	ShortWakeEvents []ShortWakeEvent        `json:"shortWakeEvents"`
	LevelsSummary   map[string]StageSummary `json:"levelsSummary"`
}

// MergedInterval 合并引擎的输出单元：无缝、按时间排序的阶段区间
type MergedInterval struct {
	LogID   int64     `json:"logId"`
	IsoDate time.Time `json:"isoDate"`
	Seconds int       `json:"seconds"`
	Level   Stage     `json:"level"`
}

// UnixTimestampInMs 区间起点的 Unix 毫秒时间戳
func (m MergedInterval) UnixTimestampInMs() int64 {
	return m.IsoDate.UnixMilli()
}

// SleepSummary 摘要视图的单行：SleepLog 透传字段 + 四个阶段时长列（毫秒）
// 某阶段零次出现时对应列为 0，不缺列
type SleepSummary struct {
	LogID               int64     `json:"logId"`
	DateOfSleep         string    `json:"dateOfSleep"`
	EndTime             string    `json:"endTime"`
	Duration            int64     `json:"duration"`
	Efficiency          int       `json:"efficiency"`
	MinutesToFallAsleep int       `json:"minutesToFallAsleep"`
	MinutesAsleep       int       `json:"minutesAsleep"`
	MinutesAwake        int       `json:"minutesAwake"`
	MinutesAfterWakeup  int       `json:"minutesAfterWakeup"`
	TimeInBed           int       `json:"timeInBed"`
	MainSleep           bool      `json:"mainSleep"`
	Type                string    `json:"type"`
	InfoCode            int       `json:"infoCode"`

	DeepSleepDurationInMs  int64 `json:"deepSleepDurationInMs"`
	LightSleepDurationInMs int64 `json:"lightSleepDurationInMs"`
	RemSleepInMs           int64 `json:"remSleepInMs"`
	AwakeDurationInMs      int64 `json:"awakeDurationInMs"`

	TimezoneOffsetInMs int64     `json:"timezoneOffsetInMs"`
	UnixTimestampInMs  int64     `json:"unixTimestampInMs"`
	IsoDate            time.Time `json:"isoDate"` // 原 startTime 列
}

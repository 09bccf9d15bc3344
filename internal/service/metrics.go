package service

import (
	"sort"

	"lifesnaps-data/internal/repository"
)

// 指标名（对外 API；type 标签是数据集内的文档 type 值，不可改动）
const (
	MetricDailySpo2                = "daily-spo2"
	MetricComputedTemperature      = "computed-temperature"
	MetricDeviceTemperature        = "device-temperature"
	MetricWristTemperature         = "wrist-temperature"
	MetricDailyHrvSummary          = "daily-hrv-summary"
	MetricHrvDetails               = "hrv-details"
	MetricHrvHistogram             = "hrv-histogram"
	MetricProfile                  = "profile"
	MetricRespiratoryRateSummary   = "respiratory-rate-summary"
	MetricStressScore              = "stress"
	MetricAltitude                 = "altitude"
	MetricBadge                    = "badge"
	MetricCalories                 = "calories"
	MetricDemographicVO2Max        = "demographic-vo2-max"
	MetricDistance                 = "distance"
	MetricECG                      = "ecg"
	MetricEstimatedOxygenVariation = "estimated-oxygen-variation"
	MetricHeartRate                = "heart-rate"
	MetricJournalEntries           = "journal-entries"
	MetricLightlyActiveMinutes     = "lightly-active-minutes"
	MetricModeratelyActiveMinutes  = "moderately-active-minutes"
	MetricSedentaryMinutes         = "sedentary-minutes"
	MetricVeryActiveMinutes        = "very-active-minutes"
	MetricSteps                    = "steps"
	MetricRestingHeartRate         = "resting-heart-rate"
	MetricTimeInHeartRateZones     = "time-in-heart-rate-zones"
	MetricWaterLogs                = "water-logs"
	MetricMindfulnessGoals         = "mindfulness-goals"
)

// 通用表的时间列
const (
	colIsoDate            = "isoDate"
	colUnixTimestampInMs  = "unixTimestampInMs"
	colTimezoneOffsetInMs = "timezoneOffsetInMs"
	colCalendarDate       = "calendarDate"
)

// metricSpecs 指标名 -> {文档 type 标签, 起始/结束时间字段} 的静态映射
// 只被通用 LoadMetric 路径消费
var metricSpecs = map[string]repository.MetricSpec{
	MetricComputedTemperature:      {TypeTag: "Computed Temperature", StartKey: "sleep_start", EndKey: "sleep_end"},
	MetricDailySpo2:                {TypeTag: "Daily SpO2", StartKey: "timestamp"},
	MetricDeviceTemperature:        {TypeTag: "Device Temperature", StartKey: "recorded_time"},
	MetricWristTemperature:         {TypeTag: "Wrist Temperature", StartKey: "recorded_time"},
	MetricDailyHrvSummary:          {TypeTag: "Daily Heart Rate Variability Summary", StartKey: "timestamp"},
	MetricHrvDetails:               {TypeTag: "Heart Rate Variability Details", StartKey: "timestamp"},
	MetricHrvHistogram:             {TypeTag: "Heart Rate Variability Histogram", StartKey: "timestamp"},
	MetricProfile:                  {TypeTag: "Profile"},
	MetricRespiratoryRateSummary:   {TypeTag: "Respiratory Rate Summary", StartKey: "timestamp"},
	MetricStressScore:              {TypeTag: "Stress Score", StartKey: "DATE"},
	MetricAltitude:                 {TypeTag: "altitude", StartKey: "dateTime"},
	MetricBadge:                    {TypeTag: "badge", StartKey: "dateTime"},
	MetricCalories:                 {TypeTag: "calories", StartKey: "dateTime"},
	MetricDemographicVO2Max:        {TypeTag: "demographic_vo2_max", StartKey: "dateTime"},
	MetricDistance:                 {TypeTag: "distance", StartKey: "dateTime"},
	MetricECG:                      {TypeTag: "Afib ECG Readings", StartKey: "reading_time"},
	MetricEstimatedOxygenVariation: {TypeTag: "estimated_oxygen_variation", StartKey: "timestamp"},
	MetricHeartRate:                {TypeTag: "heart_rate", StartKey: "dateTime"},
	MetricJournalEntries:           {TypeTag: "journal_entries", StartKey: "log_time"},
	MetricLightlyActiveMinutes:     {TypeTag: "lightly_active_minutes", StartKey: "dateTime"},
	MetricModeratelyActiveMinutes:  {TypeTag: "moderately_active_minutes", StartKey: "dateTime"},
	MetricSedentaryMinutes:         {TypeTag: "sedentary_minutes", StartKey: "dateTime"},
	MetricVeryActiveMinutes:        {TypeTag: "very_active_minutes", StartKey: "dateTime"},
	MetricSteps:                    {TypeTag: "steps", StartKey: "dateTime"},
	MetricRestingHeartRate:         {TypeTag: "resting_heart_rate", StartKey: "dateTime"},
	MetricTimeInHeartRateZones:     {TypeTag: "time_in_heart_rate_zones", StartKey: "dateTime"},
	MetricWaterLogs:                {TypeTag: "water_logs", StartKey: "date"},
	MetricMindfulnessGoals:         {TypeTag: "mindfulness_goals", StartKey: "date"},
}

// Metrics 返回全部受支持的指标名（排序后）
func Metrics() []string {
	names := make([]string, 0, len(metricSpecs))
	for name := range metricSpecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

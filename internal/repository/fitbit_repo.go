package repository

import (
	"context"

	"lifesnaps-data/internal/domain"
)

// MetricSpec 指标到文档字段的静态映射项
// TypeTag 是文档的 type 标签，StartKey/EndKey 是 data 内的时间字段（可为空）
type MetricSpec struct {
	TypeTag  string
	StartKey string
	EndKey   string
}

// FitbitRepository fitbit 集合的只读数据访问接口
// 使用强类型领域模型，通用指标路径返回扁平化文档
// 设计原则：Repository 层只负责数据访问，不做重采样/合并
type FitbitRepository interface {
	// ParticipantIDs 返回集合中全部去重后的参与者 id
	ParticipantIDs(ctx context.Context) ([]string, error)

	// SleepLogs 返回窗口内某参与者的全部 sleep log
	// byDateOfSleep=false 时窗口作用在 startTime（阶段视图），
	// true 时作用在 dateOfSleep（摘要视图）
	SleepLogs(ctx context.Context, participantID string, window domain.Window, byDateOfSleep bool) ([]domain.SleepLog, error)

	// MetricDocuments 按 MetricSpec 取某参与者窗口内的指标文档，
	// 嵌套字段按点号展开（如 value.bpm），时间字段已转为 time.Time
	MetricDocuments(ctx context.Context, spec MetricSpec, participantID string, window domain.Window) ([]map[string]any, error)
}

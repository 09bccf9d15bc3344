package domain

import (
	"fmt"
	"time"
)

// NotFoundError 参与者 id 在数据集中不存在
// 在任何事件查询之前按已知参与者集合校验
type NotFoundError struct {
	ParticipantID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("participant %s does not exist in DB", e.ParticipantID)
}

// InvalidRangeError 请求窗口 end < start
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("end date %s must not be earlier than start date %s",
		e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
}

// MalformedRecordError 睡眠文档缺少预期的 levels.data 结构
// 只影响该条 sleep log，批量请求继续处理其余记录
type MalformedRecordError struct {
	LogID  int64
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("sleep log %d is malformed: %s", e.LogID, e.Reason)
}

// InvalidEventError 输入事件时长为负
// 时长为 0 的事件在重采样前直接丢弃，不报错
type InvalidEventError struct {
	Index   int
	Seconds int
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("event %d has negative duration %ds", e.Index, e.Seconds)
}

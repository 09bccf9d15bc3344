package service

import (
	"fmt"
	"time"

	"lifesnaps-data/internal/domain"
)

// dateLayouts 日期参数接受的格式，按顺序尝试
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate 把日期字符串规范化为 UTC 时间戳；纯日期视为当天零点
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", s)
}

// ParseWindow 解析可选的起止日期为查询窗口（空串表示不限）
func ParseWindow(start, end string) (domain.Window, error) {
	var w domain.Window
	if start != "" {
		t, err := ParseDate(start)
		if err != nil {
			return w, fmt.Errorf("invalid start date: %w", err)
		}
		w.Start = &t
	}
	if end != "" {
		t, err := ParseDate(end)
		if err != nil {
			return w, fmt.Errorf("invalid end date: %w", err)
		}
		w.End = &t
	}
	return w, w.Validate()
}

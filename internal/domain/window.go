package domain

import "time"

// Window 查询时间窗口，两端均可省略（nil 表示不限）
type Window struct {
	Start *time.Time
	End   *time.Time
}

// Validate 两端都给定时要求 end >= start，否则返回 InvalidRangeError
func (w Window) Validate() error {
	if w.Start != nil && w.End != nil && w.End.Before(*w.Start) {
		return &InvalidRangeError{Start: *w.Start, End: *w.End}
	}
	return nil
}

// Contains 判断时刻 t 是否落在窗口内（闭区间，nil 端不限制）
func (w Window) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}

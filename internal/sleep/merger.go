package sleep

import (
	"sort"
	"time"

	"lifesnaps-data/internal/domain"
)

// gridStep 统一重采样网格的步长
const gridStep = 30 * time.Second

// gridPoint 网格上的一个采样点（起始时刻 + 阶段）
type gridPoint struct {
	ts    time.Time
	level domain.Stage
}

// Merge 把一条粗粒度阶段序列和一条短醒序列合并为无缝、按时间排序、
// 相邻同阶段已合并的区间序列。
//
// 算法：
//  1. 计算会话跨度 [min(coarse_start, short_start), max(coarse_end, short_end))
//     计算 short_end 前先把 >30s 的短醒事件拆成连续的 30s wake 子事件
//  2. 以 30s 为步长铺网格，floor(span/30) 个桶，尾部不足 30s 丢弃；
//     每个桶取覆盖其起点的粗粒度阶段，起点之前/终点之后只向前填充
//  3. 把归一化后的短醒子事件覆盖到网格上，一律置为 wake；
//     ≤30s 的短醒按自身起点插入，不对齐到网格边界
//  4. 扫描网格合并相邻同阶段的桶，区间时长按时间戳差计算
//
// 粗粒度序列为空时返回 nil；短醒序列为空时等价于纯重采样 + 合并。
// 负时长事件返回 InvalidEventError，零时长事件在重采样前丢弃。
func Merge(coarse []domain.StageEvent, shortWakes []domain.ShortWakeEvent) ([]domain.MergedInterval, error) {
	coarse, err := sanitizeStageEvents(coarse)
	if err != nil {
		return nil, err
	}
	if len(coarse) == 0 {
		return nil, nil
	}
	shortWakes, err = sanitizeShortWakeEvents(shortWakes)
	if err != nil {
		return nil, err
	}

	// 1. 会话跨度
	norm := normalizeShortWakes(shortWakes)
	spanStart := coarse[0].DateTime
	spanEnd := coarse[len(coarse)-1].DateTime.Add(time.Duration(coarse[len(coarse)-1].Seconds) * time.Second)
	if len(norm) > 0 {
		shortStart := norm[0].DateTime
		shortEnd := norm[len(norm)-1].DateTime.Add(time.Duration(norm[len(norm)-1].Seconds) * time.Second)
		if shortStart.Before(spanStart) {
			spanStart = shortStart
		}
		if shortEnd.After(spanEnd) {
			spanEnd = shortEnd
		}
	}

	// 2. 统一网格，向前填充
	n := int(spanEnd.Sub(spanStart) / gridStep)
	if n <= 0 {
		return nil, nil
	}
	points := make([]gridPoint, 0, n)
	j := -1
	for i := 0; i < n; i++ {
		ts := spanStart.Add(time.Duration(i) * gridStep)
		for j+1 < len(coarse) && !coarse[j+1].DateTime.After(ts) {
			j++
		}
		var level domain.Stage
		if j >= 0 {
			level = coarse[j].Level
		}
		points = append(points, gridPoint{ts: ts, level: level})
	}

	// 3. 短醒覆盖
	gridEnd := spanStart.Add(time.Duration(n) * gridStep)
	for _, ev := range norm {
		if ev.DateTime.Before(spanStart) || !ev.DateTime.Before(gridEnd) {
			continue
		}
		i := sort.Search(len(points), func(k int) bool { return !points[k].ts.Before(ev.DateTime) })
		if i < len(points) && points[i].ts.Equal(ev.DateTime) {
			points[i].level = domain.StageWake
		} else {
			points = append(points, gridPoint{})
			copy(points[i+1:], points[i:])
			points[i] = gridPoint{ts: ev.DateTime, level: domain.StageWake}
		}
	}

	// 短醒把跨度向前扩展时，首个粗粒度样本之前未被覆盖的桶记为 wake，
	// 不从后面的粗粒度阶段回填
	for i := range points {
		if points[i].level == "" {
			points[i].level = domain.StageWake
		}
	}

	// 4. 合并相邻同阶段的桶，最后一段在末个采样点 + 30s 处封口
	out := make([]domain.MergedInterval, 0, len(points))
	runStart := points[0].ts
	runLevel := points[0].level
	for i := 1; i <= len(points); i++ {
		var boundary time.Time
		if i == len(points) {
			boundary = points[len(points)-1].ts.Add(gridStep)
		} else if points[i].level == runLevel {
			continue
		} else {
			boundary = points[i].ts
		}
		out = append(out, domain.MergedInterval{
			IsoDate: runStart,
			Seconds: int(boundary.Sub(runStart) / time.Second),
			Level:   runLevel,
		})
		if i < len(points) {
			runStart = points[i].ts
			runLevel = points[i].level
		}
	}
	return out, nil
}

// sanitizeStageEvents 拒绝负时长、丢弃零时长并按起始时间排序（不修改调用方切片）
func sanitizeStageEvents(events []domain.StageEvent) ([]domain.StageEvent, error) {
	out := make([]domain.StageEvent, 0, len(events))
	for i, ev := range events {
		if ev.Seconds < 0 {
			return nil, &domain.InvalidEventError{Index: i, Seconds: ev.Seconds}
		}
		if ev.Seconds == 0 {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out, nil
}

func sanitizeShortWakeEvents(events []domain.ShortWakeEvent) ([]domain.ShortWakeEvent, error) {
	out := make([]domain.ShortWakeEvent, 0, len(events))
	for i, ev := range events {
		if ev.Seconds < 0 {
			return nil, &domain.InvalidEventError{Index: i, Seconds: ev.Seconds}
		}
		if ev.Seconds == 0 {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out, nil
}

// normalizeShortWakes 把 >30s 的短醒拆成连续 30s 的 wake 子事件（尾部不足 30s 丢弃），
// ≤30s 的保留自身起点与时长
func normalizeShortWakes(events []domain.ShortWakeEvent) []domain.ShortWakeEvent {
	norm := make([]domain.ShortWakeEvent, 0, len(events))
	for _, ev := range events {
		if ev.Seconds > 30 {
			count := ev.Seconds / 30
			for i := 0; i < count; i++ {
				norm = append(norm, domain.ShortWakeEvent{
					DateTime: ev.DateTime.Add(time.Duration(i) * gridStep),
					Seconds:  30,
				})
			}
		} else {
			norm = append(norm, ev)
		}
	}
	return norm
}

package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"lifesnaps-data/internal/domain"
)

// MemoryFitbitRepo supports tests and DB-disabled local runs.
// Documents are seeded through AddSleepLog / AddMetricDocument.
type MemoryFitbitRepo struct {
	mu        sync.RWMutex
	sleepLogs map[string][]domain.SleepLog          // participantID -> logs
	metrics   map[string]map[string][]map[string]any // participantID -> typeTag -> flat docs
}

func NewMemoryFitbitRepo() *MemoryFitbitRepo {
	return &MemoryFitbitRepo{
		sleepLogs: map[string][]domain.SleepLog{},
		metrics:   map[string]map[string][]map[string]any{},
	}
}

var _ FitbitRepository = (*MemoryFitbitRepo)(nil)

// AddSleepLog seeds one sleep log for a participant.
func (r *MemoryFitbitRepo) AddSleepLog(participantID string, sleepLog domain.SleepLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sleepLogs[participantID] = append(r.sleepLogs[participantID], sleepLog)
}

// AddMetricDocument seeds one flattened metric document for a participant.
// Time-typed fields must already be time.Time values.
func (r *MemoryFitbitRepo) AddMetricDocument(participantID, typeTag string, doc map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byType, ok := r.metrics[participantID]
	if !ok {
		byType = map[string][]map[string]any{}
		r.metrics[participantID] = byType
	}
	byType[typeTag] = append(byType[typeTag], doc)
}

func (r *MemoryFitbitRepo) ParticipantIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := map[string]bool{}
	for id := range r.sleepLogs {
		set[id] = true
	}
	for id := range r.metrics {
		set[id] = true
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *MemoryFitbitRepo) SleepLogs(_ context.Context, participantID string, window domain.Window, byDateOfSleep bool) ([]domain.SleepLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.SleepLog
	for _, sleepLog := range r.sleepLogs[participantID] {
		ts := sleepLog.StartTime
		if byDateOfSleep {
			if parsed, err := time.Parse("2006-01-02", sleepLog.DateOfSleep); err == nil {
				ts = parsed
			}
		}
		if !window.Contains(ts) {
			continue
		}
		out = append(out, sleepLog)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func (r *MemoryFitbitRepo) MetricDocuments(_ context.Context, spec MetricSpec, participantID string, window domain.Window) ([]map[string]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []map[string]any
	for _, doc := range r.metrics[participantID][spec.TypeTag] {
		if spec.StartKey != "" {
			if ts, ok := doc[spec.StartKey].(time.Time); ok && !window.Contains(ts) {
				continue
			}
		}
		// copy so callers can rename/drop keys freely
		clone := make(map[string]any, len(doc))
		for k, v := range doc {
			clone[k] = v
		}
		out = append(out, clone)
	}
	return out, nil
}

package sleep_test

import (
	"context"

	"lifesnaps-data/internal/domain"
)

// fakeStore 仅用于单元测试（内存 sleep log 存储 + 调用计数）
type fakeStore struct {
	logs map[string][]domain.SleepLog

	participantCalls  int
	sleepLogCalls     int
	lastByDateOfSleep bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{logs: map[string][]domain.SleepLog{}}
}

func (f *fakeStore) add(participantID string, sleepLog domain.SleepLog) {
	f.logs[participantID] = append(f.logs[participantID], sleepLog)
}

func (f *fakeStore) ParticipantIDs(_ context.Context) ([]string, error) {
	f.participantCalls++
	ids := make([]string, 0, len(f.logs))
	for id := range f.logs {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeStore) SleepLogs(_ context.Context, participantID string, window domain.Window, byDateOfSleep bool) ([]domain.SleepLog, error) {
	f.sleepLogCalls++
	f.lastByDateOfSleep = byDateOfSleep

	var out []domain.SleepLog
	for _, sleepLog := range f.logs[participantID] {
		if !window.Contains(sleepLog.StartTime) {
			continue
		}
		out = append(out, sleepLog)
	}
	return out, nil
}

package sleep_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lifesnaps-data/internal/domain"
	"lifesnaps-data/internal/sleep"
)

var t0 = time.Date(2021, 5, 1, 23, 0, 0, 0, time.UTC)

func stage(offset time.Duration, seconds int, level domain.Stage) domain.StageEvent {
	return domain.StageEvent{DateTime: t0.Add(offset), Level: level, Seconds: seconds}
}

func shortWake(offset time.Duration, seconds int) domain.ShortWakeEvent {
	return domain.ShortWakeEvent{DateTime: t0.Add(offset), Seconds: seconds}
}

// requireSeamless asserts the structural invariants of a merged sequence:
// sorted by start, each interval starts where the previous one ends, and
// no two adjacent intervals share the same level.
func requireSeamless(t *testing.T, intervals []domain.MergedInterval) {
	t.Helper()
	for i := 1; i < len(intervals); i++ {
		prevEnd := intervals[i-1].IsoDate.Add(time.Duration(intervals[i-1].Seconds) * time.Second)
		require.True(t, intervals[i].IsoDate.Equal(prevEnd),
			"interval %d starts at %v, previous ends at %v", i, intervals[i].IsoDate, prevEnd)
		require.NotEqual(t, intervals[i-1].Level, intervals[i].Level,
			"adjacent intervals %d and %d share level %s", i-1, i, intervals[i].Level)
	}
}

func TestMerge_ResampleAndCoalesce(t *testing.T) {
	merged, err := sleep.Merge([]domain.StageEvent{
		stage(0, 90, domain.StageLight),
		stage(90*time.Second, 60, domain.StageDeep),
	}, nil)
	require.NoError(t, err)

	require.Equal(t, []domain.MergedInterval{
		{IsoDate: t0, Seconds: 90, Level: domain.StageLight},
		{IsoDate: t0.Add(90 * time.Second), Seconds: 60, Level: domain.StageDeep},
	}, merged)
	requireSeamless(t, merged)
}

func TestMerge_ShortWakeOverridesCoarseStage(t *testing.T) {
	merged, err := sleep.Merge([]domain.StageEvent{
		stage(0, 60, domain.StageLight),
		stage(60*time.Second, 90, domain.StageDeep),
	}, []domain.ShortWakeEvent{
		shortWake(30*time.Second, 20),
	})
	require.NoError(t, err)

	require.Equal(t, []domain.MergedInterval{
		{IsoDate: t0, Seconds: 30, Level: domain.StageLight},
		{IsoDate: t0.Add(30 * time.Second), Seconds: 30, Level: domain.StageWake},
		{IsoDate: t0.Add(60 * time.Second), Seconds: 90, Level: domain.StageDeep},
	}, merged)
	requireSeamless(t, merged)
}

func TestMerge_AlreadyMergedInputIsStable(t *testing.T) {
	// A sequence that is already on the 30s grid with alternating levels
	// must come back unchanged.
	events := []domain.StageEvent{
		stage(0, 30, domain.StageLight),
		stage(30*time.Second, 30, domain.StageDeep),
		stage(60*time.Second, 30, domain.StageLight),
		stage(90*time.Second, 30, domain.StageRem),
	}
	merged, err := sleep.Merge(events, nil)
	require.NoError(t, err)

	require.Len(t, merged, len(events))
	for i, ev := range events {
		require.True(t, merged[i].IsoDate.Equal(ev.DateTime))
		require.Equal(t, ev.Seconds, merged[i].Seconds)
		require.Equal(t, ev.Level, merged[i].Level)
	}
	requireSeamless(t, merged)
}

func TestMerge_LongShortWakeSplitInto30sSlots(t *testing.T) {
	// A 100s interruption covers three full 30s slots; the 10s remainder
	// is dropped.
	merged, err := sleep.Merge([]domain.StageEvent{
		stage(0, 300, domain.StageLight),
	}, []domain.ShortWakeEvent{
		shortWake(60*time.Second, 100),
	})
	require.NoError(t, err)

	require.Equal(t, []domain.MergedInterval{
		{IsoDate: t0, Seconds: 60, Level: domain.StageLight},
		{IsoDate: t0.Add(60 * time.Second), Seconds: 90, Level: domain.StageWake},
		{IsoDate: t0.Add(150 * time.Second), Seconds: 150, Level: domain.StageLight},
	}, merged)
	requireSeamless(t, merged)
}

func TestMerge_ShortWakeBeforeCoarseStartExtendsSpan(t *testing.T) {
	// The interruption extends the session span backwards; slots before the
	// first coarse sample stay wake instead of borrowing a later stage.
	merged, err := sleep.Merge([]domain.StageEvent{
		stage(0, 60, domain.StageLight),
	}, []domain.ShortWakeEvent{
		shortWake(-60*time.Second, 30),
	})
	require.NoError(t, err)

	require.Equal(t, []domain.MergedInterval{
		{IsoDate: t0.Add(-60 * time.Second), Seconds: 60, Level: domain.StageWake},
		{IsoDate: t0, Seconds: 60, Level: domain.StageLight},
	}, merged)
	requireSeamless(t, merged)
}

func TestMerge_UnalignedShortWakeKeepsOwnStart(t *testing.T) {
	// A sub-30s interruption that does not fall on a grid boundary is
	// inserted at its own start, producing a partial light slot before it.
	merged, err := sleep.Merge([]domain.StageEvent{
		stage(0, 120, domain.StageLight),
	}, []domain.ShortWakeEvent{
		shortWake(45*time.Second, 20),
	})
	require.NoError(t, err)

	require.Equal(t, []domain.MergedInterval{
		{IsoDate: t0, Seconds: 45, Level: domain.StageLight},
		{IsoDate: t0.Add(45 * time.Second), Seconds: 15, Level: domain.StageWake},
		{IsoDate: t0.Add(60 * time.Second), Seconds: 60, Level: domain.StageLight},
	}, merged)
	requireSeamless(t, merged)
}

func TestMerge_ShortWakeAfterLastGridPointExtendsTail(t *testing.T) {
	// An unaligned interruption behind the last grid point becomes the final
	// sample, and the closing run still spans a full 30s slot, so the output
	// can run past the raw span end.
	merged, err := sleep.Merge([]domain.StageEvent{
		stage(0, 60, domain.StageLight),
	}, []domain.ShortWakeEvent{
		shortWake(50*time.Second, 10),
	})
	require.NoError(t, err)

	require.Equal(t, []domain.MergedInterval{
		{IsoDate: t0, Seconds: 50, Level: domain.StageLight},
		{IsoDate: t0.Add(50 * time.Second), Seconds: 30, Level: domain.StageWake},
	}, merged)
	requireSeamless(t, merged)
}

func TestMerge_TrailingPartialSlotDropped(t *testing.T) {
	merged, err := sleep.Merge([]domain.StageEvent{
		stage(0, 100, domain.StageLight),
	}, nil)
	require.NoError(t, err)

	require.Equal(t, []domain.MergedInterval{
		{IsoDate: t0, Seconds: 90, Level: domain.StageLight},
	}, merged)
}

func TestMerge_UnsortedInputIsSortedFirst(t *testing.T) {
	merged, err := sleep.Merge([]domain.StageEvent{
		stage(90*time.Second, 60, domain.StageDeep),
		stage(0, 90, domain.StageLight),
	}, nil)
	require.NoError(t, err)

	require.Len(t, merged, 2)
	require.Equal(t, domain.StageLight, merged[0].Level)
	require.Equal(t, domain.StageDeep, merged[1].Level)
	requireSeamless(t, merged)
}

func TestMerge_ZeroDurationEventsDropped(t *testing.T) {
	merged, err := sleep.Merge([]domain.StageEvent{
		stage(0, 0, domain.StageWake),
		stage(0, 60, domain.StageLight),
	}, []domain.ShortWakeEvent{
		shortWake(0, 0),
	})
	require.NoError(t, err)

	require.Equal(t, []domain.MergedInterval{
		{IsoDate: t0, Seconds: 60, Level: domain.StageLight},
	}, merged)
}

func TestMerge_NegativeDurationRejected(t *testing.T) {
	_, err := sleep.Merge([]domain.StageEvent{
		stage(0, 60, domain.StageLight),
		stage(60*time.Second, -30, domain.StageDeep),
	}, nil)

	var invalid *domain.InvalidEventError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, 1, invalid.Index)
	require.Equal(t, -30, invalid.Seconds)

	_, err = sleep.Merge([]domain.StageEvent{
		stage(0, 60, domain.StageLight),
	}, []domain.ShortWakeEvent{
		shortWake(0, -5),
	})
	require.ErrorAs(t, err, &invalid)
}

func TestMerge_EmptyCoarseSequence(t *testing.T) {
	merged, err := sleep.Merge(nil, nil)
	require.NoError(t, err)
	require.Nil(t, merged)

	// Short wakes alone cannot form a session.
	merged, err = sleep.Merge(nil, []domain.ShortWakeEvent{shortWake(0, 30)})
	require.NoError(t, err)
	require.Nil(t, merged)
}

func TestMerge_TotalDurationCoversSpan(t *testing.T) {
	merged, err := sleep.Merge([]domain.StageEvent{
		stage(0, 1800, domain.StageLight),
		stage(30*time.Minute, 3600, domain.StageDeep),
		stage(90*time.Minute, 600, domain.StageRem),
		stage(100*time.Minute, 1200, domain.StageLight),
	}, []domain.ShortWakeEvent{
		shortWake(10*time.Minute, 60),
		shortWake(95*time.Minute, 20),
	})
	require.NoError(t, err)
	requireSeamless(t, merged)

	var total int
	for _, iv := range merged {
		total += iv.Seconds
	}
	require.Equal(t, 120*60, total)
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lifesnaps-data/internal/domain"
	"lifesnaps-data/internal/repository"
	"lifesnaps-data/internal/service"
)

func TestLoadHeartRate_RenamesValueColumns(t *testing.T) {
	repo := repository.NewMemoryFitbitRepo()
	repo.AddMetricDocument(participantID, "heart_rate", map[string]any{
		"dateTime": nightStart, "value.bpm": 62, "value.confidence": 3,
	})
	svc := service.NewLoaderService(repo, zap.NewNop())

	table, err := svc.LoadHeartRate(context.Background(), participantID, domain.Window{})
	require.NoError(t, err)

	require.Contains(t, table.Columns, "bpm")
	require.Contains(t, table.Columns, "confidence")
	require.NotContains(t, table.Columns, "value.bpm")
	require.Equal(t, 62, table.Rows[0]["bpm"])
}

func TestLoadRestingHeartRate_DropsRowsWithoutValue(t *testing.T) {
	repo := repository.NewMemoryFitbitRepo()
	repo.AddMetricDocument(participantID, "resting_heart_rate", map[string]any{
		"dateTime": nightStart, "value.date": "05/01/21", "value.value": 55.2, "value.error": 6.8,
	})
	// days without a measurement carry a null value.date
	repo.AddMetricDocument(participantID, "resting_heart_rate", map[string]any{
		"dateTime": nightStart.Add(24 * time.Hour),
	})
	svc := service.NewLoaderService(repo, zap.NewNop())

	table, err := svc.LoadRestingHeartRate(context.Background(), participantID, domain.Window{})
	require.NoError(t, err)

	require.Len(t, table.Rows, 1)
	require.Equal(t, 55.2, table.Rows[0]["value"])
	require.Equal(t, 6.8, table.Rows[0]["error"])
	require.NotContains(t, table.Columns, "value.date")
	require.NotContains(t, table.Rows[0], "value.date")
}

func TestLoadSteps_ComputesDailyRunningTotals(t *testing.T) {
	repo := repository.NewMemoryFitbitRepo()
	day1 := time.Date(2021, 5, 1, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2021, 5, 2, 8, 0, 0, 0, time.UTC)
	repo.AddMetricDocument(participantID, "steps", map[string]any{"dateTime": day1, "value": 10})
	repo.AddMetricDocument(participantID, "steps", map[string]any{"dateTime": day1.Add(time.Minute), "value": "20"})
	repo.AddMetricDocument(participantID, "steps", map[string]any{"dateTime": day2, "value": 5})
	svc := service.NewLoaderService(repo, zap.NewNop())

	table, err := svc.LoadSteps(context.Background(), participantID, domain.Window{})
	require.NoError(t, err)

	require.Contains(t, table.Columns, "steps")
	require.Contains(t, table.Columns, "totalSteps")
	require.NotContains(t, table.Columns, "value")
	require.Len(t, table.Rows, 3)

	// string-encoded counts are coerced; totals reset at each calendar day
	require.Equal(t, int64(10), table.Rows[0]["totalSteps"])
	require.Equal(t, int64(20), table.Rows[1]["steps"])
	require.Equal(t, int64(30), table.Rows[1]["totalSteps"])
	require.Equal(t, int64(5), table.Rows[2]["totalSteps"])
}

func TestLoadECG_ExplodesWaveformSamples(t *testing.T) {
	repo := repository.NewMemoryFitbitRepo()
	readingTime := time.Date(2021, 5, 1, 10, 0, 0, 0, time.UTC)
	repo.AddMetricDocument(participantID, "Afib ECG Readings", map[string]any{
		"reading_time":          readingTime,
		"waveformSamples":       "100  -200  300",
		"result_classification": "NSR",
	})
	// readings without samples survive as a single row
	repo.AddMetricDocument(participantID, "Afib ECG Readings", map[string]any{
		"reading_time":          readingTime.Add(time.Hour),
		"waveformSamples":       "",
		"result_classification": "inconclusive",
	})
	svc := service.NewLoaderService(repo, zap.NewNop())

	table, err := svc.LoadECG(context.Background(), participantID, domain.Window{})
	require.NoError(t, err)

	require.Contains(t, table.Columns, "sampleValue")
	require.NotContains(t, table.Columns, "waveformSamples")
	require.Len(t, table.Rows, 4)

	require.Equal(t, 100.0, table.Rows[0]["sampleValue"])
	require.Equal(t, -200.0, table.Rows[1]["sampleValue"])
	require.Equal(t, 300.0, table.Rows[2]["sampleValue"])
	require.Nil(t, table.Rows[3]["sampleValue"])

	// sample timestamps advance by 1000/512 ms each
	base := float64(readingTime.UnixMilli())
	require.Equal(t, base, table.Rows[0]["unixTimestampInMs"])
	require.Equal(t, base+1000.0/512, table.Rows[1]["unixTimestampInMs"])
	require.Equal(t, base+2*1000.0/512, table.Rows[2]["unixTimestampInMs"])
	require.True(t, table.Rows[0]["isoDate"].(time.Time).Equal(readingTime))

	// reading metadata is carried onto every exploded row
	for _, row := range table.Rows[:3] {
		require.Equal(t, "NSR", row["result_classification"])
	}
}

func TestLoadTimeInHeartRateZones_ShortensNestedColumns(t *testing.T) {
	repo := repository.NewMemoryFitbitRepo()
	repo.AddMetricDocument(participantID, "time_in_heart_rate_zones", map[string]any{
		"dateTime":                             nightStart,
		"value.valuesInZones.BELOW_DEFAULT_ZONE_1": 118.0,
		"value.valuesInZones.IN_DEFAULT_ZONE_1":    21.0,
	})
	svc := service.NewLoaderService(repo, zap.NewNop())

	table, err := svc.LoadTimeInHeartRateZones(context.Background(), participantID, domain.Window{})
	require.NoError(t, err)

	require.Contains(t, table.Columns, "BELOW_DEFAULT_ZONE_1")
	require.Contains(t, table.Columns, "IN_DEFAULT_ZONE_1")
	require.NotContains(t, table.Columns, "value.valuesInZones.IN_DEFAULT_ZONE_1")
	require.Equal(t, 118.0, table.Rows[0]["BELOW_DEFAULT_ZONE_1"])
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/samistat08/ro-process-dashboard/internal/models"
	"github.com/samistat08/ro-process-dashboard/internal/store"
)

func testService(t *testing.T) *DataService {
	t.Helper()

	st := store.NewReadingStore()
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		st.Add(models.Reading{
			SiteID:        "RO-001",
			SiteName:      "Ashdod North",
			Timestamp:     base.Add(time.Duration(i) * time.Hour),
			Pressure:      65,
			FlowRate:      118,
			Conductivity:  460,
			Temperature:   25,
			PH:            7,
			RecoveryRate:  75,
			SaltRejection: 98,
		})
	}

	// nil Redis client: caching disabled, every call hits the store
	return NewDataService(st, nil, 0, zap.NewNop())
}

func TestLatest(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	r, err := svc.Latest(ctx, "RO-001")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 10, 5, 0, 0, 0, time.UTC), r.Timestamp)

	_, err = svc.Latest(ctx, "RO-999")
	assert.ErrorIs(t, err, store.ErrSiteNotFound)
}

func TestKPIs(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	kpis, err := svc.KPIs(ctx, "RO-001", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 6, kpis.SampleCount)
	assert.InDelta(t, 75, kpis.AvgRecovery, 1e-9)

	_, err = svc.KPIs(ctx, "RO-999", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, store.ErrSiteNotFound)
}

func TestKPIs_WindowNarrowsSamples(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	start := time.Date(2026, 1, 10, 2, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 10, 4, 0, 0, 0, time.UTC)

	kpis, err := svc.KPIs(ctx, "RO-001", start, end)
	require.NoError(t, err)
	assert.Equal(t, 3, kpis.SampleCount)
}

func TestStats_DefaultsToAllMetrics(t *testing.T) {
	svc := testService(t)

	summaries, err := svc.Stats(context.Background(), "RO-001", nil, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, summaries, len(models.MetricNames))
}

func TestMaintenance_SteadySiteIsNormal(t *testing.T) {
	svc := testService(t)

	forecast, err := svc.Maintenance(context.Background(), "RO-001")
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceStatusNormal, forecast.Status)

	_, err = svc.Maintenance(context.Background(), "RO-999")
	assert.ErrorIs(t, err, store.ErrSiteNotFound)
}

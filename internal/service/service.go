package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/samistat08/ro-process-dashboard/internal/analysis"
	"github.com/samistat08/ro-process-dashboard/internal/models"
	"github.com/samistat08/ro-process-dashboard/internal/store"
)

// DataService answers dashboard queries over the reading store, layering
// the analysis routines and an optional Redis snapshot cache on top.
type DataService struct {
	store     *store.ReadingStore
	predictor *analysis.Predictor
	cache     *snapshotCache
	logger    *zap.Logger
}

func NewDataService(st *store.ReadingStore, cacheClient *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *DataService {
	return &DataService{
		store:     st,
		predictor: analysis.NewPredictor(),
		cache:     newSnapshotCache(cacheClient, cacheTTL),
		logger:    logger,
	}
}

// Sites lists the known sites.
func (s *DataService) Sites(ctx context.Context) []models.Site {
	return s.store.Sites()
}

// Readings returns the readings matching the filter, ordered by timestamp.
func (s *DataService) Readings(ctx context.Context, opts store.FilterOptions) []models.Reading {
	return s.store.Filter(opts)
}

// Latest returns the most recent reading for a site.
func (s *DataService) Latest(ctx context.Context, siteID string) (models.Reading, error) {
	key := "latest:" + siteID
	var cached models.Reading
	if s.cache.get(ctx, key, &cached) {
		return cached, nil
	}

	reading, err := s.store.Latest(siteID)
	if err != nil {
		return models.Reading{}, err
	}
	s.cache.set(ctx, key, reading)
	return reading, nil
}

// KPIs computes the aggregate indicators for one site over a time window.
func (s *DataService) KPIs(ctx context.Context, siteID string, start, end time.Time) (analysis.KPIs, error) {
	key := fmt.Sprintf("kpis:%s:%d:%d", siteID, start.Unix(), end.Unix())
	var cached analysis.KPIs
	if s.cache.get(ctx, key, &cached) {
		return cached, nil
	}

	readings := s.siteReadings(siteID, start, end)
	if len(readings) == 0 {
		return analysis.KPIs{}, store.ErrSiteNotFound
	}

	kpis := analysis.CalculateKPIs(siteID, readings)
	s.cache.set(ctx, key, kpis)
	return kpis, nil
}

// Stats computes descriptive statistics for the selected metrics of a site.
// With no metrics given all known metrics are summarised.
func (s *DataService) Stats(ctx context.Context, siteID string, metricNames []string, start, end time.Time) ([]analysis.Summary, error) {
	readings := s.siteReadings(siteID, start, end)
	if len(readings) == 0 {
		return nil, store.ErrSiteNotFound
	}

	if len(metricNames) == 0 {
		metricNames = models.MetricNames
	}

	summaries := make([]analysis.Summary, 0, len(metricNames))
	for _, name := range metricNames {
		summary, err := analysis.Summarize(readings, name)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Correlation builds the Pearson matrix for the selected metrics of a site.
func (s *DataService) Correlation(ctx context.Context, siteID string, metricNames []string, start, end time.Time) (analysis.CorrelationMatrix, error) {
	readings := s.siteReadings(siteID, start, end)
	if len(readings) == 0 {
		return analysis.CorrelationMatrix{}, store.ErrSiteNotFound
	}

	if len(metricNames) == 0 {
		metricNames = models.MetricNames
	}
	return analysis.Correlate(readings, metricNames)
}

// Maintenance evaluates a site's recent readings for maintenance needs.
func (s *DataService) Maintenance(ctx context.Context, siteID string) (models.MaintenanceForecast, error) {
	readings := s.siteReadings(siteID, time.Time{}, time.Time{})
	if len(readings) == 0 {
		return models.MaintenanceForecast{}, store.ErrSiteNotFound
	}

	now := readings[len(readings)-1].Timestamp
	forecast := s.predictor.Predict(siteID, readings, now)

	if forecast.Status != models.MaintenanceStatusNormal {
		s.logger.Info("maintenance attention required",
			zap.String("site_id", siteID),
			zap.String("status", forecast.Status),
			zap.Int("alerts", len(forecast.Alerts)))
	}
	return forecast, nil
}

// ExportCSV streams the filtered readings as CSV.
func (s *DataService) ExportCSV(ctx context.Context, opts store.FilterOptions, w io.Writer) error {
	return store.WriteCSV(w, s.store.Filter(opts))
}

// ReadingCount reports the number of stored readings.
func (s *DataService) ReadingCount(ctx context.Context) int {
	return s.store.Len()
}

func (s *DataService) siteReadings(siteID string, start, end time.Time) []models.Reading {
	return s.store.Filter(store.FilterOptions{
		SiteIDs: []string{siteID},
		Start:   start,
		End:     end,
	})
}

package simulator

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/samistat08/ro-process-dashboard/internal/models"
)

func testConfig() *models.Config {
	return &models.Config{
		Seed:           42,
		StartDate:      time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), // a Monday
		EndDate:        time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
		SampleInterval: 5 * time.Minute,
		Metrics:        models.DefaultMetricRanges,
		WeekendFactor:  0.85,
	}
}

func testSite() *models.Site {
	return &models.Site{
		ID:       "RO-001",
		Name:     "Ashdod North",
		Location: models.Location{Lat: 31.8328, Lon: 34.6499},
		Status:   models.SiteStatusOnline,
	}
}

func newTestSimulator(t *testing.T) *Simulator {
	t.Helper()
	s := NewSimulator(testConfig(), zap.NewNop())
	site := testSite()
	s.Sites = []*models.Site{site}
	s.states[site.ID] = &siteState{lastMaintenance: s.CurrentTime}
	return s
}

func TestGenerateReading_WithinRanges(t *testing.T) {
	s := newTestSimulator(t)
	site := s.Sites[0]
	state := s.states[site.ID]

	for i := 0; i < 200; i++ {
		r := s.generateReading(site, state)

		assert.Equal(t, site.ID, r.SiteID)
		assert.Equal(t, s.CurrentTime, r.Timestamp)
		assert.InDelta(t, site.Location.Lat, r.Latitude, 1e-9)

		for _, name := range models.MetricNames {
			rng := models.DefaultMetricRanges[name]
			v, ok := r.Metric(name)
			require.True(t, ok)
			assert.GreaterOrEqual(t, v, rng.Min, name)
			assert.LessOrEqual(t, v, rng.Max, name)
		}
	}
}

func TestGenerateReading_FoulingShiftsMetrics(t *testing.T) {
	s := newTestSimulator(t)
	site := s.Sites[0]

	clean := &siteState{}
	fouled := &siteState{foulingLevel: 1}

	var cleanPressure, fouledPressure, cleanRecovery, fouledRecovery float64
	const n = 500
	for i := 0; i < n; i++ {
		cr := s.generateReading(site, clean)
		fr := s.generateReading(site, fouled)
		cleanPressure += cr.Pressure
		fouledPressure += fr.Pressure
		cleanRecovery += cr.RecoveryRate
		fouledRecovery += fr.RecoveryRate
	}

	assert.Greater(t, fouledPressure/n, cleanPressure/n)
	assert.Less(t, fouledRecovery/n, cleanRecovery/n)
}

func TestHandleGenerateReading_SchedulesNextAndEmits(t *testing.T) {
	s := newTestSimulator(t)
	site := s.Sites[0]

	messages, err := s.handleGenerateReading(site)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, models.TopicTelemetryReadings, messages[0].Topic)

	var event TelemetryReadingEvent
	require.NoError(t, json.Unmarshal(messages[0].Message, &event))
	assert.Equal(t, site.ID, event.SiteID)
	assert.Equal(t, s.CurrentTime.Unix(), event.Timestamp)

	next := s.EventQueue.Peek()
	require.NotNil(t, next)
	assert.Equal(t, models.EventGenerateReading, next.Type)
	assert.Equal(t, s.CurrentTime.Add(5*time.Minute), next.Time)

	assert.NotNil(t, s.Latest[site.ID])
	assert.Positive(t, s.states[site.ID].foulingLevel)
}

func TestHandleGenerateReading_TrimsRecentWindow(t *testing.T) {
	s := newTestSimulator(t)
	site := s.Sites[0]

	for i := 0; i < recentWindow+10; i++ {
		_, err := s.handleGenerateReading(site)
		require.NoError(t, err)
	}
	assert.Len(t, s.states[site.ID].recent, recentWindow)
}

func TestHandleUpdateOperatingConditions_StaysNearNominal(t *testing.T) {
	s := newTestSimulator(t)

	for i := 0; i < 1000; i++ {
		messages, err := s.handleUpdateOperatingConditions()
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, models.TopicOperatingConditions, messages[0].Topic)
	}

	// Mean reversion keeps the walk bounded.
	assert.InDelta(t, 1.0, s.conditions.DemandFactor, 0.5)
	assert.InDelta(t, 0.0, s.conditions.FeedTempOffset, 3.0)
	assert.InDelta(t, 1.0, s.conditions.FeedSalinityFactor, 0.2)
}

func TestHandleMaintenanceCheck_CriticalResetsFouling(t *testing.T) {
	s := newTestSimulator(t)
	site := s.Sites[0]
	state := s.states[site.ID]
	state.foulingLevel = 0.9

	// Readings that look like heavy fouling: high pressure, low recovery.
	base := s.CurrentTime
	for i := 0; i < 10; i++ {
		state.recent = append(state.recent, models.Reading{
			SiteID:       site.ID,
			Timestamp:    base.Add(time.Duration(i) * time.Hour),
			Pressure:     78,
			FlowRate:     115,
			Conductivity: 450,
			RecoveryRate: 68,
		})
	}

	messages, err := s.handleMaintenanceCheck(site)
	require.NoError(t, err)
	require.NotEmpty(t, messages)

	var alertTopics, statusTopics int
	for _, msg := range messages {
		switch msg.Topic {
		case models.TopicMaintenanceAlerts:
			alertTopics++
		case models.TopicSiteStatusEvents:
			statusTopics++
		}
	}
	assert.Equal(t, 2, alertTopics)
	assert.Equal(t, 1, statusTopics)

	// cleaning-in-place: offline for now, fouling gone
	assert.Equal(t, models.SiteStatusOffline, site.Status)
	assert.Zero(t, state.foulingLevel)
	assert.Equal(t, s.CurrentTime, state.lastMaintenance)

	var alert MaintenanceAlertEvent
	require.NoError(t, json.Unmarshal(messages[0].Message, &alert))
	assert.NotEmpty(t, alert.AlertID)
	assert.NotEmpty(t, alert.Recommendation)
}

func TestHandleMaintenanceCheck_SiteRecoversAfterCleaning(t *testing.T) {
	s := newTestSimulator(t)
	site := s.Sites[0]
	state := s.states[site.ID]
	state.foulingLevel = 0.9

	base := s.CurrentTime
	for i := 0; i < 10; i++ {
		state.recent = append(state.recent, models.Reading{
			SiteID:       site.ID,
			Timestamp:    base.Add(time.Duration(i) * time.Hour),
			Pressure:     78,
			FlowRate:     115,
			Conductivity: 450,
			RecoveryRate: 68,
		})
	}

	_, err := s.handleMaintenanceCheck(site)
	require.NoError(t, err)
	require.Equal(t, models.SiteStatusOffline, site.Status)

	// The scheduled status check sees zero fouling and restores service.
	messages, err := s.handleSiteStatusChange(site)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, models.TopicSiteStatusEvents, messages[0].Topic)
	assert.Equal(t, models.SiteStatusOnline, site.Status)

	var event SiteStatusEvent
	require.NoError(t, json.Unmarshal(messages[0].Message, &event))
	assert.Equal(t, models.SiteStatusOffline, event.OldStatus)
	assert.Equal(t, models.SiteStatusOnline, event.NewStatus)
}

func TestHandleMaintenanceCheck_QuietSiteJustReschedules(t *testing.T) {
	s := newTestSimulator(t)
	site := s.Sites[0]
	state := s.states[site.ID]

	for i := 0; i < 10; i++ {
		state.recent = append(state.recent, models.Reading{
			SiteID:       site.ID,
			Pressure:     65,
			FlowRate:     115,
			Conductivity: 450,
			RecoveryRate: 75,
		})
	}

	messages, err := s.handleMaintenanceCheck(site)
	require.NoError(t, err)
	assert.Empty(t, messages)

	next := s.EventQueue.Peek()
	require.NotNil(t, next)
	assert.Equal(t, models.EventMaintenanceCheck, next.Type)
}

func TestHandleSiteStatusChange(t *testing.T) {
	tests := []struct {
		name       string
		fouling    float64
		fromStatus string
		wantStatus string
		wantEvent  bool
	}{
		{"heavy fouling goes to maintenance", 0.9, models.SiteStatusOnline, models.SiteStatusMaintenance, true},
		{"moderate fouling degrades", 0.6, models.SiteStatusOnline, models.SiteStatusDegraded, true},
		{"cleaned site comes back online", 0, models.SiteStatusMaintenance, models.SiteStatusOnline, true},
		{"no change emits nothing", 0.2, models.SiteStatusOnline, models.SiteStatusOnline, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSimulator(t)
			site := s.Sites[0]
			site.Status = tt.fromStatus
			s.states[site.ID].foulingLevel = tt.fouling

			messages, err := s.handleSiteStatusChange(site)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, site.Status)
			if tt.wantEvent {
				require.Len(t, messages, 1)
				assert.Equal(t, models.TopicSiteStatusEvents, messages[0].Topic)
			} else {
				assert.Empty(t, messages)
			}
		})
	}
}

// captureOutput collects emitted messages for inspection.
type captureOutput struct {
	messages []models.EventMessage
}

func (c *captureOutput) WriteMessage(topic string, msg []byte) error {
	c.messages = append(c.messages, models.EventMessage{Topic: topic, Message: msg})
	return nil
}

func (c *captureOutput) Close() error { return nil }

func TestRunBackfill_NeverEmitsPastEndDate(t *testing.T) {
	cfg := testConfig()
	cfg.InitialSites = 2
	cfg.RegionLat = 32.0
	cfg.RegionLon = 34.75
	cfg.RegionRadius = 120

	s := NewSimulator(cfg, zap.NewNop())
	require.NoError(t, s.initializeData())

	out := &captureOutput{}
	require.NoError(t, s.runBackfill(out))
	require.NotEmpty(t, out.messages)

	var prev int64
	readings := 0
	for _, m := range out.messages {
		var event BaseEvent
		require.NoError(t, json.Unmarshal(m.Message, &event))

		assert.LessOrEqual(t, event.Timestamp, cfg.EndDate.Unix())
		assert.GreaterOrEqual(t, event.Timestamp, prev, "events must drain in time order")
		prev = event.Timestamp

		if m.Topic == models.TopicTelemetryReadings {
			readings++
		}
	}

	// two sites sampled every 5 minutes across one day
	assert.Equal(t, 2*288, readings)
}

func TestProcessEvent_UnknownType(t *testing.T) {
	s := newTestSimulator(t)
	_, err := s.processEvent(&models.Event{Type: "Bogus"})
	assert.Error(t, err)
}

func TestInitializeData_RequiresSites(t *testing.T) {
	cfg := testConfig()
	cfg.InitialSites = 0
	s := NewSimulator(cfg, zap.NewNop())
	assert.Error(t, s.initializeData())
}

func TestInitializeData_SchedulesInitialEvents(t *testing.T) {
	cfg := testConfig()
	cfg.InitialSites = 3
	cfg.RegionLat = 32.0
	cfg.RegionLon = 34.75
	cfg.RegionRadius = 120
	s := NewSimulator(cfg, zap.NewNop())

	require.NoError(t, s.initializeData())
	assert.Len(t, s.Sites, 3)
	// one reading and one maintenance check per site, plus the conditions update
	assert.Equal(t, 2*3+1, s.EventQueue.Len())
}

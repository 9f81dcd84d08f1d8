package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/samistat08/ro-process-dashboard/internal/analysis"
	"github.com/samistat08/ro-process-dashboard/internal/factories"
	"github.com/samistat08/ro-process-dashboard/internal/metrics"
	"github.com/samistat08/ro-process-dashboard/internal/models"
)

// OperatingConditions carries the plant-wide modifiers applied to every
// site's readings until the next conditions update.
type OperatingConditions struct {
	DemandFactor       float64
	FeedTempOffset     float64
	FeedSalinityFactor float64
}

// siteState tracks the slow-moving per-site simulation state.
type siteState struct {
	foulingLevel    float64 // 0..1, membrane fouling since last cleaning
	lastMaintenance time.Time
	recent          []models.Reading
}

const recentWindow = 48 // readings kept per site for trend analysis

type Simulator struct {
	Config      *models.Config
	Sites       []*models.Site
	CurrentTime time.Time
	Rng         *rand.Rand
	EventQueue  *models.EventQueue
	Latest      map[string]*models.Reading

	conditions OperatingConditions
	states     map[string]*siteState
	predictor  *analysis.Predictor
	logger     *zap.Logger
}

func NewSimulator(config *models.Config, logger *zap.Logger) *Simulator {
	seed := int64(config.Seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		Config:      config,
		CurrentTime: config.StartDate,
		Rng:         rand.New(rand.NewSource(seed)),
		EventQueue:  models.NewEventQueue(),
		Latest:      make(map[string]*models.Reading),
		states:      make(map[string]*siteState),
		conditions: OperatingConditions{
			DemandFactor:       1.0,
			FeedSalinityFactor: 1.0,
		},
		predictor: analysis.NewPredictor(),
		logger:    logger,
	}
}

func (s *Simulator) initializeData() error {
	if s.Config.SitesFile != "" {
		sites, err := models.LoadSites(s.Config.SitesFile)
		if err != nil {
			return fmt.Errorf("loading sites: %w", err)
		}
		s.Sites = sites
	} else {
		siteFactory := &factories.SiteFactory{}
		for i := 0; i < s.Config.InitialSites; i++ {
			s.Sites = append(s.Sites, siteFactory.CreateSite(s.Config))
		}
	}
	if len(s.Sites) == 0 {
		return fmt.Errorf("no sites configured: set sites_file or initial_sites")
	}

	for _, site := range s.Sites {
		s.states[site.ID] = &siteState{lastMaintenance: s.CurrentTime}

		s.EventQueue.Enqueue(&models.Event{
			Time: s.CurrentTime,
			Type: models.EventGenerateReading,
			Data: site,
		})
		s.EventQueue.Enqueue(&models.Event{
			Time: s.CurrentTime.Add(s.maintenanceInterval()),
			Type: models.EventMaintenanceCheck,
			Data: site,
		})
	}

	s.EventQueue.Enqueue(&models.Event{
		Time: s.CurrentTime.Add(s.conditionInterval()),
		Type: models.EventUpdateOperatingConditions,
	})

	return nil
}

// Run executes the simulation until end_date (backfill) or forever
// (continuous mode).
func (s *Simulator) Run() error {
	output := s.determineOutputDestination()
	defer func() {
		if err := output.Close(); err != nil {
			s.logger.Warn("closing output", zap.Error(err))
		}
	}()

	if err := s.initializeData(); err != nil {
		return err
	}
	if s.Config.PostgresEnabled {
		if err := s.seedSites(context.Background()); err != nil {
			return err
		}
	}

	s.logger.Info("simulation starting",
		zap.Int("sites", len(s.Sites)),
		zap.Time("start", s.CurrentTime),
		zap.Time("end", s.Config.EndDate),
		zap.Bool("continuous", s.Config.Continuous),
	)

	if s.Config.Continuous {
		return s.runContinuous(output)
	}
	return s.runBackfill(output)
}

// runBackfill advances a virtual clock as fast as possible from start_date
// to end_date.
func (s *Simulator) runBackfill(output OutputDestination) error {
	interval := s.sampleInterval()
	totalSteps := int(s.Config.EndDate.Sub(s.Config.StartDate) / interval)
	bar := progressbar.Default(int64(totalSteps), "simulating")

	for s.CurrentTime.Before(s.Config.EndDate) {
		s.drainDueEvents(output)
		s.CurrentTime = s.CurrentTime.Add(interval)
		_ = bar.Add(1)
	}

	_ = bar.Finish()
	s.logger.Info("simulation completed", zap.Time("end", s.CurrentTime))
	return nil
}

// runContinuous ticks in real time and never returns unless the output
// becomes unusable.
func (s *Simulator) runContinuous(output OutputDestination) error {
	ticker := time.NewTicker(s.sampleInterval())
	defer ticker.Stop()

	s.CurrentTime = time.Now().UTC()
	for range ticker.C {
		s.CurrentTime = time.Now().UTC()
		s.drainDueEvents(output)
	}
	return nil
}

func (s *Simulator) drainDueEvents(output OutputDestination) {
	for {
		next := s.EventQueue.Peek()
		if next == nil || next.Time.After(s.CurrentTime) {
			return
		}
		event := s.EventQueue.Dequeue()
		if event == nil {
			return
		}

		messages, err := s.processEvent(event)
		if err != nil {
			s.logger.Error("processing event", zap.String("type", event.Type), zap.Error(err))
			continue
		}
		for _, msg := range messages {
			if err := output.WriteMessage(msg.Topic, msg.Message); err != nil {
				metrics.OutputWriteErrors.WithLabelValues(msg.Topic).Inc()
				s.logger.Error("writing message", zap.String("topic", msg.Topic), zap.Error(err))
			}
		}
	}
}

// processEvent mutates simulation state and returns the messages to emit.
func (s *Simulator) processEvent(event *models.Event) ([]models.EventMessage, error) {
	switch event.Type {
	case models.EventGenerateReading:
		return s.handleGenerateReading(event.Data.(*models.Site))
	case models.EventUpdateOperatingConditions:
		return s.handleUpdateOperatingConditions()
	case models.EventMaintenanceCheck:
		return s.handleMaintenanceCheck(event.Data.(*models.Site))
	case models.EventSiteStatusChange:
		return s.handleSiteStatusChange(event.Data.(*models.Site))
	default:
		return nil, fmt.Errorf("unknown event type: %s", event.Type)
	}
}

func (s *Simulator) handleGenerateReading(site *models.Site) ([]models.EventMessage, error) {
	state := s.states[site.ID]
	reading := s.generateReading(site, state)

	s.Latest[site.ID] = &reading
	state.recent = append(state.recent, reading)
	if len(state.recent) > recentWindow {
		state.recent = state.recent[len(state.recent)-recentWindow:]
	}

	// Fouling accumulates with throughput until the membranes are cleaned.
	days := s.sampleInterval().Hours() / 24
	state.foulingLevel += s.foulingRate() * days * s.conditions.DemandFactor
	if state.foulingLevel > 1 {
		state.foulingLevel = 1
	}

	metrics.ReadingsGenerated.WithLabelValues(site.Name).Inc()

	s.EventQueue.Enqueue(&models.Event{
		Time: s.CurrentTime.Add(s.sampleInterval()),
		Type: models.EventGenerateReading,
		Data: site,
	})

	msg, err := s.serializeReading(site, reading)
	if err != nil {
		return nil, err
	}
	return []models.EventMessage{msg}, nil
}

// generateReading draws one telemetry sample for the site, applying demand,
// seasonal and fouling adjustments before clamping to range.
func (s *Simulator) generateReading(site *models.Site, state *siteState) models.Reading {
	demand := s.demandFactor(s.CurrentTime) * s.conditions.DemandFactor
	fouling := state.foulingLevel

	pressure := s.sampleMetric(models.MetricPressure) + fouling*8 + (demand-1)*4
	flowRate := s.sampleMetric(models.MetricFlowRate) * demand
	conductivity := s.sampleMetric(models.MetricConductivity) * s.conditions.FeedSalinityFactor * (1 + fouling*0.1)
	temperature := s.sampleMetric(models.MetricTemperature) + s.temperatureOffset(s.CurrentTime) + s.conditions.FeedTempOffset
	ph := s.sampleMetric(models.MetricPH)
	recovery := s.sampleMetric(models.MetricRecoveryRate) - fouling*6
	rejection := s.sampleMetric(models.MetricSaltRejection) - fouling*1.5

	return models.Reading{
		SiteID:        site.ID,
		SiteName:      site.Name,
		Timestamp:     s.CurrentTime,
		Latitude:      site.Location.Lat,
		Longitude:     site.Location.Lon,
		Pressure:      s.clampMetric(models.MetricPressure, pressure),
		FlowRate:      s.clampMetric(models.MetricFlowRate, flowRate),
		Conductivity:  s.clampMetric(models.MetricConductivity, conductivity),
		Temperature:   s.clampMetric(models.MetricTemperature, temperature),
		PH:            s.clampMetric(models.MetricPH, ph),
		RecoveryRate:  s.clampMetric(models.MetricRecoveryRate, recovery),
		SaltRejection: s.clampMetric(models.MetricSaltRejection, rejection),
	}
}

func (s *Simulator) handleUpdateOperatingConditions() ([]models.EventMessage, error) {
	// Random walk, mean-reverting toward nominal.
	s.conditions.DemandFactor += (1.0-s.conditions.DemandFactor)*0.2 + (s.Rng.Float64()*2-1)*0.05
	s.conditions.FeedTempOffset += -s.conditions.FeedTempOffset*0.2 + (s.Rng.Float64()*2-1)*0.3
	s.conditions.FeedSalinityFactor += (1.0-s.conditions.FeedSalinityFactor)*0.2 + (s.Rng.Float64()*2-1)*0.02

	s.EventQueue.Enqueue(&models.Event{
		Time: s.CurrentTime.Add(s.conditionInterval()),
		Type: models.EventUpdateOperatingConditions,
	})

	msg, err := s.serializeConditions()
	if err != nil {
		return nil, err
	}
	return []models.EventMessage{msg}, nil
}

func (s *Simulator) handleMaintenanceCheck(site *models.Site) ([]models.EventMessage, error) {
	state := s.states[site.ID]

	forecast := s.predictor.Predict(site.ID, state.recent, s.CurrentTime)

	var messages []models.EventMessage
	for i := range forecast.Alerts {
		alert := &forecast.Alerts[i]
		alert.ID = uuid.NewString()
		metrics.AlertsRaised.WithLabelValues(site.Name, alert.Severity).Inc()

		msg, err := s.serializeAlert(site, *alert)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	switch forecast.Status {
	case models.MaintenanceStatusCritical:
		// Cleaning-in-place: the site drops offline while the membranes
		// are cleaned; the follow-up status check brings it back online.
		if site.Status != models.SiteStatusOffline {
			oldStatus := site.Status
			site.Status = models.SiteStatusOffline
			msg, err := s.serializeStatusChange(site, oldStatus, state.foulingLevel)
			if err != nil {
				return nil, err
			}
			messages = append(messages, msg)
		}
		state.foulingLevel = 0
		state.lastMaintenance = s.CurrentTime
		s.EventQueue.Enqueue(&models.Event{
			Time: s.CurrentTime.Add(s.sampleInterval()),
			Type: models.EventSiteStatusChange,
			Data: site,
		})
	case models.MaintenanceStatusWarning:
		if site.Status == models.SiteStatusOnline {
			s.EventQueue.Enqueue(&models.Event{
				Time: s.CurrentTime,
				Type: models.EventSiteStatusChange,
				Data: site,
			})
		}
	}

	s.EventQueue.Enqueue(&models.Event{
		Time: s.CurrentTime.Add(s.maintenanceInterval()),
		Type: models.EventMaintenanceCheck,
		Data: site,
	})

	return messages, nil
}

func (s *Simulator) handleSiteStatusChange(site *models.Site) ([]models.EventMessage, error) {
	state := s.states[site.ID]
	oldStatus := site.Status

	switch {
	case state.foulingLevel == 0 && oldStatus != models.SiteStatusOnline:
		site.Status = models.SiteStatusOnline
	case state.foulingLevel > 0.8:
		site.Status = models.SiteStatusMaintenance
	case state.foulingLevel > 0.5:
		site.Status = models.SiteStatusDegraded
	default:
		site.Status = models.SiteStatusOnline
	}

	if site.Status == oldStatus {
		return nil, nil
	}

	s.logger.Info("site status changed",
		zap.String("site", site.Name),
		zap.String("from", oldStatus),
		zap.String("to", site.Status),
	)

	msg, err := s.serializeStatusChange(site, oldStatus, state.foulingLevel)
	if err != nil {
		return nil, err
	}
	return []models.EventMessage{msg}, nil
}

// serialization

func (s *Simulator) baseEvent(eventType string, site *models.Site) BaseEvent {
	base := BaseEvent{
		Timestamp: s.CurrentTime.Unix(),
		EventType: eventType,
	}
	if site != nil {
		base.SiteID = site.ID
		base.SiteName = site.Name
	}
	return base
}

func (s *Simulator) serializeReading(site *models.Site, r models.Reading) (models.EventMessage, error) {
	event := TelemetryReadingEvent{
		BaseEvent:     s.baseEvent(models.EventGenerateReading, site),
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		Pressure:      r.Pressure,
		FlowRate:      r.FlowRate,
		Conductivity:  r.Conductivity,
		Temperature:   r.Temperature,
		PH:            r.PH,
		RecoveryRate:  r.RecoveryRate,
		SaltRejection: r.SaltRejection,
	}
	return marshalMessage(models.TopicTelemetryReadings, event)
}

func (s *Simulator) serializeAlert(site *models.Site, alert models.Alert) (models.EventMessage, error) {
	event := MaintenanceAlertEvent{
		BaseEvent:      s.baseEvent(models.EventMaintenanceCheck, site),
		AlertID:        alert.ID,
		Parameter:      alert.Parameter,
		Severity:       alert.Severity,
		Message:        alert.Message,
		Recommendation: alert.Recommendation,
	}
	return marshalMessage(models.TopicMaintenanceAlerts, event)
}

func (s *Simulator) serializeStatusChange(site *models.Site, oldStatus string, fouling float64) (models.EventMessage, error) {
	event := SiteStatusEvent{
		BaseEvent:    s.baseEvent(models.EventSiteStatusChange, site),
		OldStatus:    oldStatus,
		NewStatus:    site.Status,
		FoulingLevel: fouling,
	}
	return marshalMessage(models.TopicSiteStatusEvents, event)
}

func (s *Simulator) serializeConditions() (models.EventMessage, error) {
	event := OperatingConditionEvent{
		BaseEvent:          s.baseEvent(models.EventUpdateOperatingConditions, nil),
		DemandFactor:       s.conditions.DemandFactor,
		FeedTempOffset:     s.conditions.FeedTempOffset,
		FeedSalinityFactor: s.conditions.FeedSalinityFactor,
	}
	return marshalMessage(models.TopicOperatingConditions, event)
}

func marshalMessage(topic string, event interface{}) (models.EventMessage, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return models.EventMessage{}, fmt.Errorf("serializing %s event: %w", topic, err)
	}
	return models.EventMessage{Topic: topic, Message: data}, nil
}

// interval helpers with defaults

func (s *Simulator) sampleInterval() time.Duration {
	if s.Config.SampleInterval > 0 {
		return s.Config.SampleInterval
	}
	return 5 * time.Minute
}

func (s *Simulator) conditionInterval() time.Duration {
	if s.Config.ConditionInterval > 0 {
		return s.Config.ConditionInterval
	}
	return time.Hour
}

func (s *Simulator) maintenanceInterval() time.Duration {
	if s.Config.MaintenanceInterval > 0 {
		return s.Config.MaintenanceInterval
	}
	return 6 * time.Hour
}

func (s *Simulator) foulingRate() float64 {
	if s.Config.FoulingRate > 0 {
		return s.Config.FoulingRate
	}
	return 0.01 // fraction per day at nominal demand
}

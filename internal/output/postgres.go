package output

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samistat08/ro-process-dashboard/internal/models"
	"github.com/samistat08/ro-process-dashboard/internal/repositories/postgres"
)

// PostgresOutput persists generated events. Telemetry readings land in the
// readings table the dashboard queries; every other topic gets a table of
// its own.
type PostgresOutput struct {
	pool     *pgxpool.Pool
	readings *postgres.ReadingRepository
}

func NewPostgresOutput(config *models.DatabaseConfig) (*PostgresOutput, error) {
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, config.ConnString())
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	return &PostgresOutput{
		pool:     pool,
		readings: postgres.NewReadingRepository(pool),
	}, nil
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	if topic == models.TopicTelemetryReadings {
		reading, err := readingFromEvent(msg)
		if err != nil {
			return err
		}
		return p.readings.BulkCreate(context.Background(), []models.Reading{reading})
	}

	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}

	cols, vals, placeholders := buildInsertComponents(event)
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		topicToTable(topic), cols, placeholders,
	)

	if _, err := p.pool.Exec(context.Background(), query, vals...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", topicToTable(topic), err)
	}
	return nil
}

func (p *PostgresOutput) Close() error {
	p.pool.Close()
	return nil
}

// readingFromEvent converts a serialized telemetry event into the reading
// row the dashboard's serve path loads.
func readingFromEvent(msg []byte) (models.Reading, error) {
	var event struct {
		Timestamp     int64   `json:"timestamp"`
		SiteID        string  `json:"siteId"`
		SiteName      string  `json:"siteName"`
		Latitude      float64 `json:"latitude"`
		Longitude     float64 `json:"longitude"`
		Pressure      float64 `json:"pressure"`
		FlowRate      float64 `json:"flowRate"`
		Conductivity  float64 `json:"conductivity"`
		Temperature   float64 `json:"temperature"`
		PH            float64 `json:"ph"`
		RecoveryRate  float64 `json:"recoveryRate"`
		SaltRejection float64 `json:"saltRejection"`
	}
	if err := json.Unmarshal(msg, &event); err != nil {
		return models.Reading{}, fmt.Errorf("decoding telemetry event: %w", err)
	}
	if event.SiteID == "" {
		return models.Reading{}, fmt.Errorf("telemetry event missing site id")
	}

	return models.Reading{
		SiteID:        event.SiteID,
		SiteName:      event.SiteName,
		Timestamp:     time.Unix(event.Timestamp, 0).UTC(),
		Latitude:      event.Latitude,
		Longitude:     event.Longitude,
		Pressure:      event.Pressure,
		FlowRate:      event.FlowRate,
		Conductivity:  event.Conductivity,
		Temperature:   event.Temperature,
		PH:            event.PH,
		RecoveryRate:  event.RecoveryRate,
		SaltRejection: event.SaltRejection,
	}, nil
}

// topicToTable maps an event topic to its destination table.
func topicToTable(topic string) string {
	return strings.ReplaceAll(topic, "-", "_")
}

// buildInsertComponents flattens the event map into a deterministic
// column list, value slice and placeholder string.
func buildInsertComponents(event map[string]interface{}) (string, []interface{}, string) {
	keys := make([]string, 0, len(event))
	for k := range event {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cols := make([]string, 0, len(keys))
	vals := make([]interface{}, 0, len(keys))
	placeholders := make([]string, 0, len(keys))

	for i, k := range keys {
		cols = append(cols, toSnakeCase(k))
		vals = append(vals, event[k])
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
	}

	return strings.Join(cols, ", "), vals, strings.Join(placeholders, ", ")
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

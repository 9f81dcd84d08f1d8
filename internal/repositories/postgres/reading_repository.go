package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samistat08/ro-process-dashboard/internal/models"
	"github.com/samistat08/ro-process-dashboard/internal/store"
)

type ReadingRepository struct {
	pool *pgxpool.Pool
}

func NewReadingRepository(pool *pgxpool.Pool) *ReadingRepository {
	return &ReadingRepository{pool: pool}
}

const readingColumns = `
    site_id, site_name, ts, latitude, longitude,
    pressure, flow_rate, conductivity, temperature, ph,
    recovery_rate, salt_rejection`

func (r *ReadingRepository) BulkCreate(ctx context.Context, readings []models.Reading) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	stmt := `
        INSERT INTO readings (` + readingColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	for i := range readings {
		reading := &readings[i]
		_, err = tx.Exec(ctx, stmt,
			reading.SiteID,
			reading.SiteName,
			reading.Timestamp,
			reading.Latitude,
			reading.Longitude,
			reading.Pressure,
			reading.FlowRate,
			reading.Conductivity,
			reading.Temperature,
			reading.PH,
			reading.RecoveryRate,
			reading.SaltRejection,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetByFilter applies the same inclusive site/date-range semantics as the
// in-memory store.
func (r *ReadingRepository) GetByFilter(ctx context.Context, siteIDs []string, start, end time.Time) ([]models.Reading, error) {
	query := `
        SELECT ` + readingColumns + `
        FROM readings
        WHERE ($1::text[] IS NULL OR site_id = ANY($1))
          AND ($2::timestamptz IS NULL OR ts >= $2)
          AND ($3::timestamptz IS NULL OR ts <= $3)
        ORDER BY ts`

	var sitesArg interface{}
	if len(siteIDs) > 0 {
		sitesArg = siteIDs
	}
	var startArg, endArg interface{}
	if !start.IsZero() {
		startArg = start
	}
	if !end.IsZero() {
		endArg = end
	}

	rows, err := r.pool.Query(ctx, query, sitesArg, startArg, endArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReadings(rows)
}

func (r *ReadingRepository) GetLatest(ctx context.Context, siteID string) (*models.Reading, error) {
	query := `
        SELECT ` + readingColumns + `
        FROM readings
        WHERE site_id = $1
        ORDER BY ts DESC
        LIMIT 1`

	rows, err := r.pool.Query(ctx, query, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readings, err := scanReadings(rows)
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, store.ErrSiteNotFound
	}
	return &readings[0], nil
}

func (r *ReadingRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM readings").Scan(&count)
	return count, err
}

func (r *ReadingRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM readings")
	return err
}

func scanReadings(rows pgx.Rows) ([]models.Reading, error) {
	var readings []models.Reading
	for rows.Next() {
		var reading models.Reading
		if err := rows.Scan(
			&reading.SiteID,
			&reading.SiteName,
			&reading.Timestamp,
			&reading.Latitude,
			&reading.Longitude,
			&reading.Pressure,
			&reading.FlowRate,
			&reading.Conductivity,
			&reading.Temperature,
			&reading.PH,
			&reading.RecoveryRate,
			&reading.SaltRejection,
		); err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}
	if errors.Is(rows.Err(), pgx.ErrNoRows) {
		return readings, nil
	}
	return readings, rows.Err()
}

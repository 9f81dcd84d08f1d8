package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samistat08/ro-process-dashboard/internal/models"
)

type SiteRepository struct {
	pool *pgxpool.Pool
}

func NewSiteRepository(pool *pgxpool.Pool) *SiteRepository {
	return &SiteRepository{pool: pool}
}

func (r *SiteRepository) BulkCreate(ctx context.Context, sites []*models.Site) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	stmt := `
        INSERT INTO sites (
            id, name, location, status, capacity_m3_per_day, commissioned_at
        ) VALUES (
            $1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326), $5, $6, $7
        )`

	for _, site := range sites {
		_, err = tx.Exec(ctx, stmt,
			site.ID,
			site.Name,
			site.Location.Lon,
			site.Location.Lat,
			site.Status,
			site.CapacityM3PerDay,
			site.CommissionedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *SiteRepository) Create(ctx context.Context, site *models.Site) error {
	query := `
        INSERT INTO sites (
            id, name, location, status, capacity_m3_per_day, commissioned_at
        ) VALUES (
            $1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326), $5, $6, $7
        )`
	_, err := r.pool.Exec(ctx, query,
		site.ID,
		site.Name,
		site.Location.Lon,
		site.Location.Lat,
		site.Status,
		site.CapacityM3PerDay,
		site.CommissionedAt,
	)
	return err
}

func (r *SiteRepository) GetAll(ctx context.Context) ([]*models.Site, error) {
	query := `
        SELECT id, name, ST_AsText(location), status, capacity_m3_per_day, commissioned_at
        FROM sites
        ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []*models.Site
	for rows.Next() {
		var site models.Site
		if err := rows.Scan(
			&site.ID,
			&site.Name,
			&site.Location,
			&site.Status,
			&site.CapacityM3PerDay,
			&site.CommissionedAt,
		); err != nil {
			return nil, err
		}
		sites = append(sites, &site)
	}

	return sites, rows.Err()
}

func (r *SiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM sites").Scan(&count)
	return count, err
}

func (r *SiteRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM sites")
	return err
}

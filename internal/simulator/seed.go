package simulator

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/samistat08/ro-process-dashboard/internal/repositories/postgres"
)

// seedSites replaces the sites table with the current simulation roster so
// that downstream consumers can join readings against site metadata.
func (s *Simulator) seedSites(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, s.Config.Database.ConnString())
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer pool.Close()

	repo := postgres.NewSiteRepository(pool)
	if err := repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clearing sites: %w", err)
	}
	if err := repo.BulkCreate(ctx, s.Sites); err != nil {
		return fmt.Errorf("seeding sites: %w", err)
	}

	s.logger.Info("seeded sites", zap.Int("count", len(s.Sites)))
	return nil
}

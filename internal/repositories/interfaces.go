package repositories

import (
	"context"
	"time"

	"github.com/samistat08/ro-process-dashboard/internal/models"
)

type SiteRepository interface {
	BulkCreate(ctx context.Context, sites []*models.Site) error
	Create(ctx context.Context, site *models.Site) error
	GetAll(ctx context.Context) ([]*models.Site, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type ReadingRepository interface {
	BulkCreate(ctx context.Context, readings []models.Reading) error
	GetByFilter(ctx context.Context, siteIDs []string, start, end time.Time) ([]models.Reading, error)
	GetLatest(ctx context.Context, siteID string) (*models.Reading, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

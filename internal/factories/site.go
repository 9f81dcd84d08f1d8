package factories

import (
	"fmt"
	"math"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"

	"github.com/samistat08/ro-process-dashboard/internal/models"
)

var fake = faker.New()

type SiteFactory struct{}

// CreateSite synthesizes an RO plant site inside the configured region.
func (sf *SiteFactory) CreateSite(config *models.Config) *models.Site {
	// Region bounds, km converted to degrees
	latRange := config.RegionRadius / 111.0
	lonRange := latRange / math.Cos(config.RegionLat*math.Pi/180.0)

	lat := fake.Float64(6, int(config.RegionLat-latRange), int(config.RegionLat+latRange))
	lon := fake.Float64(6, int(config.RegionLon-lonRange), int(config.RegionLon+lonRange))

	return &models.Site{
		ID:   cuid.New(),
		Name: fmt.Sprintf("%s Desalination Plant", fake.Address().City()),
		Location: models.Location{
			Lat: lat,
			Lon: lon,
		},
		Status:           models.SiteStatusOnline,
		CapacityM3PerDay: fake.Float64(0, 5000, 50000),
		CommissionedAt:   fake.Time().TimeBetween(config.StartDate.AddDate(-10, 0, 0), config.StartDate),
	}
}

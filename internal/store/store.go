package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/samistat08/ro-process-dashboard/internal/metrics"
	"github.com/samistat08/ro-process-dashboard/internal/models"
)

// ErrSiteNotFound is returned when a site has no readings in the store.
var ErrSiteNotFound = errors.New("site not found")

// FilterOptions narrows a query to a set of sites and a time window.
// An empty SiteIDs slice matches all sites; zero times are unbounded.
// Both ends of the range are inclusive.
type FilterOptions struct {
	SiteIDs []string
	Start   time.Time
	End     time.Time
}

// ReadingStore is an append-only in-memory table of telemetry readings.
type ReadingStore struct {
	mu       sync.RWMutex
	readings []models.Reading
	latest   map[string]models.Reading
	sites    map[string]models.Site
}

func NewReadingStore() *ReadingStore {
	return &ReadingStore{
		latest: make(map[string]models.Reading),
		sites:  make(map[string]models.Site),
	}
}

// Add appends one reading and updates the site's latest sample.
func (s *ReadingStore) Add(r models.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(r)
}

// AddBatch appends many readings under a single lock.
func (s *ReadingStore) AddBatch(readings []models.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range readings {
		s.add(r)
	}
}

func (s *ReadingStore) add(r models.Reading) {
	s.readings = append(s.readings, r)

	if current, ok := s.latest[r.SiteID]; !ok || r.Timestamp.After(current.Timestamp) {
		s.latest[r.SiteID] = r
	}
	if _, ok := s.sites[r.SiteID]; !ok {
		s.sites[r.SiteID] = models.Site{
			ID:       r.SiteID,
			Name:     r.SiteName,
			Location: models.Location{Lat: r.Latitude, Lon: r.Longitude},
			Status:   models.SiteStatusOnline,
		}
	}
	metrics.StoreReadings.Set(float64(len(s.readings)))
}

// Filter returns the readings matching the site and date-range masks,
// ordered by timestamp.
func (s *ReadingStore) Filter(opts FilterOptions) []models.Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var siteSet map[string]struct{}
	if len(opts.SiteIDs) > 0 {
		siteSet = make(map[string]struct{}, len(opts.SiteIDs))
		for _, id := range opts.SiteIDs {
			siteSet[id] = struct{}{}
		}
	}

	var out []models.Reading
	for _, r := range s.readings {
		if siteSet != nil {
			if _, ok := siteSet[r.SiteID]; !ok {
				continue
			}
		}
		if !opts.Start.IsZero() && r.Timestamp.Before(opts.Start) {
			continue
		}
		if !opts.End.IsZero() && r.Timestamp.After(opts.End) {
			continue
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// Sites returns the known sites sorted by name.
func (s *ReadingStore) Sites() []models.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Site, 0, len(s.sites))
	for _, site := range s.sites {
		out = append(out, site)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Latest returns the most recent reading for a site.
func (s *ReadingStore) Latest(siteID string) (models.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.latest[siteID]
	if !ok {
		return models.Reading{}, ErrSiteNotFound
	}
	return r, nil
}

// Len reports the number of stored readings.
func (s *ReadingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.readings)
}

package simulator

import (
	"math"

	"github.com/samistat08/ro-process-dashboard/internal/models"
)

// sampleNormal draws from N(mean, std) using the Box-Muller transform
// and clamps the result to [min, max].
func (s *Simulator) sampleNormal(mean, std, min, max float64) float64 {
	u1 := s.Rng.Float64()
	u2 := s.Rng.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

	value := mean + z*std

	return math.Max(min, math.Min(max, value))
}

// sampleMetric draws a value for the named metric from its configured range.
func (s *Simulator) sampleMetric(name string) float64 {
	r, ok := s.Config.Metrics[name]
	if !ok {
		r = models.DefaultMetricRanges[name]
	}
	return s.sampleNormal(r.Mean, r.Std, r.Min, r.Max)
}

// clampMetric bounds an adjusted value back inside the metric's range.
func (s *Simulator) clampMetric(name string, value float64) float64 {
	r, ok := s.Config.Metrics[name]
	if !ok {
		r = models.DefaultMetricRanges[name]
	}
	return math.Max(r.Min, math.Min(r.Max, value))
}

const earthRadiusKm = 6371.0

// calculateDistance returns the great-circle distance between two
// locations in kilometers.
func calculateDistance(a, b models.Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

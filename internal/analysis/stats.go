package analysis

import (
	"fmt"
	"math"

	"github.com/samistat08/ro-process-dashboard/internal/models"
)

// Summary holds descriptive statistics for one metric.
type Summary struct {
	Metric string  `json:"metric"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// CorrelationMatrix pairs metric names with their Pearson coefficients.
type CorrelationMatrix struct {
	Metrics []string    `json:"metrics"`
	Values  [][]float64 `json:"values"`
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// metricValues extracts one metric's series from a set of readings.
func metricValues(readings []models.Reading, metric string) ([]float64, error) {
	values := make([]float64, 0, len(readings))
	for i := range readings {
		v, ok := readings[i].Metric(metric)
		if !ok {
			return nil, fmt.Errorf("unknown metric: %s", metric)
		}
		values = append(values, v)
	}
	return values, nil
}

// Summarize computes descriptive statistics for the named metric.
func Summarize(readings []models.Reading, metric string) (Summary, error) {
	values, err := metricValues(readings, metric)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{Metric: metric, Count: len(values)}
	if len(values) == 0 {
		return s, nil
	}

	s.Mean = mean(values)
	s.StdDev = stdDev(values)
	s.Min = values[0]
	s.Max = values[0]
	for _, v := range values[1:] {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	return s, nil
}

// pearson computes the Pearson correlation coefficient of two equal-length
// series. Returns 0 when either series has zero variance.
func pearson(a, b []float64) float64 {
	n := len(a)
	if n != len(b) || n < 2 {
		return 0
	}

	meanA, meanB := mean(a), mean(b)
	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}

// Correlate builds the correlation matrix of the selected metrics over the
// given readings. Requires at least two metrics and two samples.
func Correlate(readings []models.Reading, metrics []string) (CorrelationMatrix, error) {
	if len(metrics) < 2 {
		return CorrelationMatrix{}, fmt.Errorf("correlation requires at least two metrics")
	}
	if len(readings) < 2 {
		return CorrelationMatrix{}, fmt.Errorf("correlation requires at least two samples")
	}

	series := make([][]float64, len(metrics))
	for i, metric := range metrics {
		values, err := metricValues(readings, metric)
		if err != nil {
			return CorrelationMatrix{}, err
		}
		series[i] = values
	}

	matrix := CorrelationMatrix{
		Metrics: metrics,
		Values:  make([][]float64, len(metrics)),
	}
	for i := range metrics {
		matrix.Values[i] = make([]float64, len(metrics))
		for j := range metrics {
			if i == j {
				matrix.Values[i][j] = 1
				continue
			}
			matrix.Values[i][j] = pearson(series[i], series[j])
		}
	}
	return matrix, nil
}

package simulator

import (
	"time"
)

// DemandPattern describes how water demand varies over a day.
type DemandPattern struct {
	Name            string
	HourMultipliers map[int]float64
	WeekendFactor   float64
}

var DefaultDemandPattern = DemandPattern{
	Name: "municipal",
	HourMultipliers: map[int]float64{
		5:  1.1,
		6:  1.25,
		7:  1.35,
		8:  1.3,
		9:  1.15,
		12: 1.1,
		17: 1.15,
		18: 1.25,
		19: 1.3,
		20: 1.2,
		21: 1.1,
		0:  0.85,
		1:  0.8,
		2:  0.75,
		3:  0.75,
		4:  0.85,
	},
	WeekendFactor: 0.9,
}

// seasonalTempOffset approximates feed water temperature drift over the
// year, in °C, for northern-hemisphere coastal intakes.
var seasonalTempOffset = map[time.Month]float64{
	time.January:   -2.5,
	time.February:  -2.5,
	time.March:     -1.5,
	time.April:     -0.5,
	time.May:       0.5,
	time.June:      1.5,
	time.July:      2.5,
	time.August:    2.5,
	time.September: 1.5,
	time.October:   0.5,
	time.November:  -0.5,
	time.December:  -1.5,
}

// demandFactor returns the load multiplier for the given time.
func (s *Simulator) demandFactor(t time.Time) float64 {
	factor := 1.0
	if m, ok := DefaultDemandPattern.HourMultipliers[t.Hour()]; ok {
		factor = m
	}

	weekday := t.Weekday()
	if weekday == time.Saturday || weekday == time.Sunday {
		wf := s.Config.WeekendFactor
		if wf == 0 {
			wf = DefaultDemandPattern.WeekendFactor
		}
		factor *= wf
	}

	return factor
}

// temperatureOffset returns the seasonal feed temperature adjustment.
func (s *Simulator) temperatureOffset(t time.Time) float64 {
	return seasonalTempOffset[t.Month()]
}

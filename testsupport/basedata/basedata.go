// Package basedata provides canned race snapshots shared by tests.
package basedata

import (
	"math"

	"github.com/pitwall/strategy-engine-go/pkg/model"
)

// SampleSession builds a deterministic 57 lap race with two drivers.
// VER runs MEDIUM 28 / HARD 29 with one pit stop of 22s on lap 28,
// HAM runs MEDIUM 20 / HARD 37 with one pit stop of 24s on lap 20.
// Lap times follow the linear models used across the strategy tests:
// MEDIUM 92.0 + 0.04*age, HARD 93.0 + 0.02*age.
func SampleSession() *model.RaceSession {
	laps := make([]model.LapRecord, 0, 2*57)
	laps = append(laps, driverLaps("VER", 28, 22.0)...)
	laps = append(laps, driverLaps("HAM", 20, 24.0)...)
	return &model.RaceSession{
		Year:      2024,
		Race:      "Testland Grand Prix",
		TotalLaps: 57,
		Laps:      laps,
		Weather: &model.WeatherSummary{
			AirTemp:   24.5,
			TrackTemp: 38.0,
			Rainfall:  false,
		},
	}
}

func driverLaps(driver string, pitLap int, pitDuration float64) []model.LapRecord {
	laps := make([]model.LapRecord, 0, 57)
	for lap := 1; lap <= 57; lap++ {
		compound := model.CompoundMedium
		age := lap
		stint := 1
		if lap > pitLap {
			compound = model.CompoundHard
			age = lap - pitLap
			stint = 2
		}
		rec := model.LapRecord{
			Driver:    driver,
			LapNumber: lap,
			LapTime:   ModelLapTime(compound, age),
			Compound:  compound,
			TyreAge:   age,
			StintID:   stint,
			IsPitLap:  lap == pitLap,
		}
		if lap == pitLap {
			d := pitDuration
			rec.PitDuration = &d
		}
		laps = append(laps, rec)
	}
	return laps
}

// ModelLapTime evaluates the canned linear models.
func ModelLapTime(compound string, age int) float64 {
	switch compound {
	case model.CompoundMedium:
		return round3(92.0 + 0.04*float64(age))
	case model.CompoundHard:
		return round3(93.0 + 0.02*float64(age))
	default:
		return 95.0
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

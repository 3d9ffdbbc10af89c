// Package fuel estimates the race-wide lap-time trend caused by fuel
// burn-off. The slope is fitted over all clean laps regardless of compound
// and reported separately from the per-compound degradation models; it is
// deliberately not netted out of them (see DESIGN.md).
package fuel

import (
	"github.com/samber/lo"

	"github.com/pitwall/strategy-engine-go/pkg/model"
	"github.com/pitwall/strategy-engine-go/pkg/strategy/linfit"
)

// Estimate fits lap_time = a + b*lap_number across all clean laps and
// reports the per-lap slope plus the cumulative effect over the race
// distance. Returns nil when fewer than two distinct lap numbers carry
// clean laps.
func Estimate(laps []model.LapRecord, totalLaps int) *model.FuelEffect {
	clean := lo.Filter(laps, func(l model.LapRecord, _ int) bool { return l.Clean() })
	if len(clean) < 2 {
		return nil
	}
	xs := lo.Map(clean, func(l model.LapRecord, _ int) float64 { return float64(l.LapNumber) })
	ys := lo.Map(clean, func(l model.LapRecord, _ int) float64 { return l.LapTime })
	_, slope, ok := linfit.Fit(xs, ys)
	if !ok {
		return nil
	}
	return &model.FuelEffect{
		PerLap: slope,
		Total:  slope * float64(totalLaps),
	}
}

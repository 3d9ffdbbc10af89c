// Package compare aligns a simulated race with a driver's actual race and
// explains the per-stint differences.
package compare

import (
	"math"

	"github.com/pitwall/strategy-engine-go/pkg/model"
)

// Thresholds steer the explanation template selection (seconds). The
// selection is a tunable heuristic, not a statistical inference; identical
// deltas always select the same template.
type Thresholds struct {
	Even  float64 // |delta| below this counts as "about even"
	Major float64 // |delta| above this counts as a big swing
}

func DefaultThresholds() Thresholds {
	return Thresholds{Even: 1.0, Major: 5.0}
}

// CumulativeGap computes the running sum of simulated minus actual lap
// time over the laps both series share. The comparison truncates at the
// shorter series; gaps are rounded to milliseconds.
func CumulativeGap(sim []model.SimulatedLap, act []model.LapTime) []model.GapPoint {
	actByLap := make(map[int]float64, len(act))
	for i := range act {
		actByLap[act[i].Lap] = act[i].TimeSec
	}
	ret := make([]model.GapPoint, 0, len(sim))
	running := 0.0
	for i := range sim {
		actTime, ok := actByLap[sim[i].Lap]
		if !ok {
			continue
		}
		running += sim[i].TimeSec - actTime
		ret = append(ret, model.GapPoint{Lap: sim[i].Lap, Gap: roundMilli(running)})
	}
	return ret
}

// AnalyzeStints computes, per planned stint, the time delta between the
// simulated and the actual laps over the overlapping lap window and
// attaches a short explanation.
//
//nolint:whitespace // editor/linter issue
func AnalyzeStints(
	plan model.StintPlan,
	sim []model.SimulatedLap,
	act *model.ActualStrategy,
	th Thresholds,
) []model.StintAnalysis {
	if act == nil {
		return nil
	}
	actByLap := make(map[int]float64, len(act.LapTimes))
	for i := range act.LapTimes {
		actByLap[act.LapTimes[i].Lap] = act.LapTimes[i].TimeSec
	}
	simByLap := make(map[int]model.SimulatedLap, len(sim))
	for i := range sim {
		simByLap[sim[i].Lap] = sim[i]
	}

	ret := make([]model.StintAnalysis, 0, len(plan))
	startLap := 1
	for stintIdx := range plan {
		endLap := startLap + plan[stintIdx].Laps - 1
		var delta float64
		overlap := 0
		hadPit := false
		for lap := startLap; lap <= endLap; lap++ {
			s, okSim := simByLap[lap]
			a, okAct := actByLap[lap]
			if !okSim || !okAct {
				continue
			}
			delta += s.TimeSec - a
			overlap++
			hadPit = hadPit || s.IsPitLap
		}
		analysis := model.StintAnalysis{
			Stint:    stintIdx + 1,
			Compound: plan[stintIdx].Compound,
			Laps:     plan[stintIdx].Laps,
			Delta:    roundMilli(delta),
		}
		if overlap == 0 {
			analysis.Explanation = "no overlapping laps to compare"
		} else {
			analysis.Explanation = explain(analysis.Delta, hadPit, th)
		}
		ret = append(ret, analysis)
		startLap = endLap + 1
	}
	return ret
}

// explain selects a fixed template keyed by sign and magnitude.
func explain(delta float64, hadPit bool, th Thresholds) string {
	switch {
	case delta <= -th.Major:
		return "fresher tires gained significant time"
	case delta < -th.Even:
		return "fresher tires gained time"
	case delta <= th.Even:
		return "about even with the actual stint"
	case delta < th.Major:
		if hadPit {
			return "extra pit loss cost time"
		}
		return "tire wear cost time"
	default:
		if hadPit {
			return "extra pit loss cost significant time"
		}
		return "tire wear cost significant time"
	}
}

func roundMilli(v float64) float64 {
	return math.Round(v*1000) / 1000
}

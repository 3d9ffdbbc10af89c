package simulate

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/pitwall/strategy-engine-go/pkg/model"
)

const (
	// DefaultMinLapTime floors predicted lap times at a plausible value
	// so a pathological fit can never produce negative laps.
	DefaultMinLapTime = 30.0
	DefaultMinStint   = 3
)

var (
	// ErrInvalidPlan wraps all plan validation failures; messages are
	// surfaced verbatim to the caller.
	ErrInvalidPlan = errors.New("invalid stint plan")
	ErrNoModels    = errors.New("no degradation model available for any compound")
)

// Params carries everything a simulation run depends on. Runs are pure:
// identical params and plan always produce identical output.
type Params struct {
	Models map[string]model.DegradationModel
	// ModelWeights weighs the substitute model for compounds without a
	// fit (clean-lap sample count per compound). Compounds missing here
	// weigh 1.
	ModelWeights map[string]float64
	PitLoss      float64
	TotalLaps    int
	MinStintLaps int
	MinLapTime   float64
}

// Outcome is the raw simulator output before comparison enrichment.
type Outcome struct {
	Laps      []model.SimulatedLap
	TotalTime float64
	// Degraded is set when a planned compound had no fitted model and
	// the count-weighted substitute was used.
	Degraded bool
}

// ValidatePlan checks the plan invariants: lap counts sum to the race
// distance, at least two distinct compounds, every stint at least
// minStintLaps long.
func ValidatePlan(plan model.StintPlan, totalLaps, minStintLaps int) error {
	if len(plan) == 0 {
		return fmt.Errorf("%w: plan has no stints", ErrInvalidPlan)
	}
	if got := plan.TotalLaps(); got != totalLaps {
		return fmt.Errorf(
			"%w: total planned laps (%d) must equal race distance (%d)",
			ErrInvalidPlan, got, totalLaps)
	}
	if len(lo.UniqBy(plan, func(s model.Stint) string { return s.Compound })) < 2 {
		return fmt.Errorf(
			"%w: must use at least 2 different tire compounds", ErrInvalidPlan)
	}
	for i := range plan {
		if plan[i].Laps < minStintLaps {
			return fmt.Errorf(
				"%w: stint %d covers %d laps, minimum is %d",
				ErrInvalidPlan, i+1, plan[i].Laps, minStintLaps)
		}
	}
	return nil
}

// Run simulates the plan lap by lap. Tyre age starts at 1 on the first lap
// of each stint; on the last lap of every stint except the final one the
// pit loss is added and the lap is marked as pit lap.
func Run(params *Params, plan model.StintPlan) (*Outcome, error) {
	minStint := params.MinStintLaps
	if minStint <= 0 {
		minStint = DefaultMinStint
	}
	if err := ValidatePlan(plan, params.TotalLaps, minStint); err != nil {
		return nil, err
	}
	minLapTime := params.MinLapTime
	if minLapTime <= 0 {
		minLapTime = DefaultMinLapTime
	}
	fallback, haveFallback := substituteModel(params.Models, params.ModelWeights)

	ret := &Outcome{Laps: make([]model.SimulatedLap, 0, params.TotalLaps)}
	lapNo := 1
	for stintIdx := range plan {
		stint := &plan[stintIdx]
		m, ok := params.Models[stint.Compound]
		if !ok {
			if !haveFallback {
				return nil, ErrNoModels
			}
			m = fallback
			ret.Degraded = true
		}
		for lapInStint := 1; lapInStint <= stint.Laps; lapInStint++ {
			predicted := m.BaseTime + m.DegRate*float64(lapInStint)
			if predicted < minLapTime {
				predicted = minLapTime
			}
			isPitLap := lapInStint == stint.Laps && stintIdx < len(plan)-1
			if isPitLap {
				predicted += params.PitLoss
			}
			ret.Laps = append(ret.Laps, model.SimulatedLap{
				Lap:      lapNo,
				TimeSec:  predicted,
				Compound: stint.Compound,
				TyreAge:  lapInStint,
				IsPitLap: isPitLap,
			})
			ret.TotalTime += predicted
			lapNo++
		}
	}
	return ret, nil
}

// substituteModel builds the count-weighted average of all fitted models,
// used for planned compounds that lack one.
//
//nolint:whitespace // editor/linter issue
func substituteModel(
	models map[string]model.DegradationModel, weights map[string]float64,
) (model.DegradationModel, bool) {
	if len(models) == 0 {
		return model.DegradationModel{}, false
	}
	var sumW, base, rate float64
	for compound, m := range models {
		w := 1.0
		if weights != nil && weights[compound] > 0 {
			w = weights[compound]
		}
		base += w * m.BaseTime
		rate += w * m.DegRate
		sumW += w
	}
	return model.DegradationModel{BaseTime: base / sumW, DegRate: rate / sumW}, true
}

// Boundaries converts a plan into the lap numbers on which the car pits
// (the last lap of every stint except the final one).
func Boundaries(plan model.StintPlan) []int {
	ret := make([]int, 0, len(plan)-1)
	lap := 0
	for i := 0; i < len(plan)-1; i++ {
		lap += plan[i].Laps
		ret = append(ret, lap)
	}
	return ret
}

// PlanFromBoundaries is the inverse of Boundaries: given ascending pit
// laps, the compound per stint and the race distance it rebuilds the plan.
//
//nolint:whitespace // editor/linter issue
func PlanFromBoundaries(
	boundaries []int, compounds []string, totalLaps int,
) (model.StintPlan, error) {
	if len(compounds) != len(boundaries)+1 {
		return nil, fmt.Errorf("%w: %d boundaries need %d compounds",
			ErrInvalidPlan, len(boundaries), len(boundaries)+1)
	}
	plan := make(model.StintPlan, 0, len(compounds))
	prev := 0
	for i, b := range boundaries {
		if b <= prev || b >= totalLaps {
			return nil, fmt.Errorf("%w: pit lap %d out of range", ErrInvalidPlan, b)
		}
		plan = append(plan, model.Stint{Compound: compounds[i], Laps: b - prev})
		prev = b
	}
	plan = append(plan, model.Stint{
		Compound: compounds[len(compounds)-1],
		Laps:     totalLaps - prev,
	})
	return plan, nil
}

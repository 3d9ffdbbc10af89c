//nolint:funlen // test tables
package pitloss

import (
	"math"
	"testing"

	"github.com/pitwall/strategy-engine-go/pkg/model"
)

func ptr(v float64) *float64 { return &v }

func TestEstimateExplicit(t *testing.T) {
	laps := []model.LapRecord{
		{Driver: "VER", LapNumber: 20, LapTime: 115, Compound: model.CompoundMedium,
			TyreAge: 20, StintID: 1, IsPitLap: true, PitDuration: ptr(22.0)},
		{Driver: "HAM", LapNumber: 25, LapTime: 117, Compound: model.CompoundMedium,
			TyreAge: 25, StintID: 1, IsPitLap: true, PitDuration: ptr(24.0)},
		// outside the plausibility window: drive-through and red flag stop
		{Driver: "PER", LapNumber: 22, LapTime: 100, Compound: model.CompoundMedium,
			TyreAge: 22, StintID: 1, IsPitLap: true, PitDuration: ptr(8.0)},
		{Driver: "SAI", LapNumber: 23, LapTime: 300, Compound: model.CompoundMedium,
			TyreAge: 23, StintID: 1, IsPitLap: true, PitDuration: ptr(185.0)},
	}
	got := NewEstimator().Estimate(laps)
	if got == nil {
		t.Fatal("Estimate() = nil, want stats")
	}
	want := model.PitLossStats{Avg: 23.0, Min: 22.0, Max: 24.0, Count: 2}
	if math.Abs(got.Avg-want.Avg) > 1e-9 || got.Min != want.Min ||
		got.Max != want.Max || got.Count != want.Count {
		t.Errorf("Estimate() = %+v, want %+v", got, want)
	}
}

func TestEstimateDerived(t *testing.T) {
	// no usable explicit durations: cost comes from the out-lap versus
	// the median clean lap on the previous compound
	laps := []model.LapRecord{
		{Driver: "VER", LapNumber: 1, LapTime: 90, Compound: model.CompoundMedium,
			TyreAge: 1, StintID: 1},
		{Driver: "VER", LapNumber: 2, LapTime: 92, Compound: model.CompoundMedium,
			TyreAge: 2, StintID: 1},
		{Driver: "VER", LapNumber: 3, LapTime: 91, Compound: model.CompoundMedium,
			TyreAge: 3, StintID: 1},
		// out-lap on fresh hards, 20s over the 91s median
		{Driver: "VER", LapNumber: 4, LapTime: 111, Compound: model.CompoundHard,
			TyreAge: 1, StintID: 2},
		{Driver: "VER", LapNumber: 5, LapTime: 90.5, Compound: model.CompoundHard,
			TyreAge: 2, StintID: 2},
	}
	got := NewEstimator().Estimate(laps)
	if got == nil {
		t.Fatal("Estimate() = nil, want stats")
	}
	if got.Count != 1 || math.Abs(got.Avg-20.0) > 1e-9 {
		t.Errorf("Estimate() = %+v, want one derived cost of 20s", got)
	}
}

func TestEstimateDerivedOutOfWindow(t *testing.T) {
	// transition exists but the implied cost is implausible
	laps := []model.LapRecord{
		{Driver: "VER", LapNumber: 1, LapTime: 90, Compound: model.CompoundMedium,
			TyreAge: 1, StintID: 1},
		{Driver: "VER", LapNumber: 2, LapTime: 90, Compound: model.CompoundMedium,
			TyreAge: 2, StintID: 1},
		{Driver: "VER", LapNumber: 3, LapTime: 92, Compound: model.CompoundHard,
			TyreAge: 1, StintID: 2},
	}
	if got := NewEstimator().Estimate(laps); got != nil {
		t.Errorf("Estimate() = %+v, want nil", got)
	}
}

func TestEstimateNoPitEvents(t *testing.T) {
	laps := []model.LapRecord{
		{Driver: "VER", LapNumber: 1, LapTime: 90, Compound: model.CompoundMedium,
			TyreAge: 1, StintID: 1},
		{Driver: "VER", LapNumber: 2, LapTime: 90, Compound: model.CompoundMedium,
			TyreAge: 2, StintID: 1},
	}
	if got := NewEstimator().Estimate(laps); got != nil {
		t.Errorf("Estimate() = %+v, want nil for a race without stops", got)
	}
	if got := NewEstimator().Estimate(nil); got != nil {
		t.Errorf("Estimate(nil) = %+v, want nil", got)
	}
}

func TestMedianCleanBefore(t *testing.T) {
	laps := []model.LapRecord{
		{Driver: "VER", LapNumber: 1, LapTime: 90, Compound: model.CompoundMedium, StintID: 1},
		{Driver: "VER", LapNumber: 2, LapTime: 94, Compound: model.CompoundMedium, StintID: 1},
		{Driver: "VER", LapNumber: 3, LapTime: 92, Compound: model.CompoundMedium, StintID: 1},
		{Driver: "VER", LapNumber: 4, LapTime: 96, Compound: model.CompoundMedium, StintID: 1},
	}
	got, ok := medianCleanBefore(laps, model.CompoundMedium, 4)
	if !ok || got != 92.0 {
		t.Errorf("medianCleanBefore() = (%v, %v), want (92, true)", got, ok)
	}
	got, ok = medianCleanBefore(laps, model.CompoundMedium, 3)
	if !ok || got != 92.0 {
		t.Errorf("medianCleanBefore() even count = (%v, %v), want (92, true)", got, ok)
	}
	if _, ok = medianCleanBefore(laps, model.CompoundHard, 4); ok {
		t.Error("medianCleanBefore() found laps for unused compound")
	}
}

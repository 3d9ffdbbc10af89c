//nolint:funlen // test tables
package degradation

import (
	"math"
	"testing"

	"github.com/pitwall/strategy-engine-go/pkg/model"
)

func lapsOnLine(driver, compound string, base, rate float64, ages ...int) []model.LapRecord {
	ret := make([]model.LapRecord, 0, len(ages))
	for i, age := range ages {
		ret = append(ret, model.LapRecord{
			Driver:    driver,
			LapNumber: i + 1,
			LapTime:   base + rate*float64(age),
			Compound:  compound,
			TyreAge:   age,
			StintID:   1,
		})
	}
	return ret
}

func TestBuildRecoversLinearModel(t *testing.T) {
	// two laps per tyre age so every bucket qualifies
	laps := append(
		lapsOnLine("VER", model.CompoundMedium, 92.0, 0.04, 1, 2, 3, 4, 5, 6, 7, 8),
		lapsOnLine("HAM", model.CompoundMedium, 92.0, 0.04, 1, 2, 3, 4, 5, 6, 7, 8)...)

	curves, models := NewBuilder().Build(laps)

	curve, ok := curves[model.CompoundMedium]
	if !ok {
		t.Fatal("Build() missing MEDIUM curve")
	}
	if len(curve.TyreLife) != 8 {
		t.Fatalf("Build() buckets = %d, want 8", len(curve.TyreLife))
	}
	for i, count := range curve.Count {
		if count != 2 {
			t.Errorf("bucket %d count = %d, want 2", curve.TyreLife[i], count)
		}
		if curve.StdLapTime[i] != 0 {
			t.Errorf("bucket %d std = %v, want 0", curve.TyreLife[i], curve.StdLapTime[i])
		}
	}
	m, ok := models[model.CompoundMedium]
	if !ok {
		t.Fatal("Build() missing MEDIUM model")
	}
	if math.Abs(m.BaseTime-92.0) > 1e-9 || math.Abs(m.DegRate-0.04) > 1e-9 {
		t.Errorf("Build() model = %+v, want base 92 rate 0.04", m)
	}
}

func TestBuildRegressionSanity(t *testing.T) {
	laps := append(
		lapsOnLine("VER", model.CompoundHard, 2.0, 0.05, 1, 2, 3, 4, 5),
		lapsOnLine("HAM", model.CompoundHard, 2.0, 0.05, 1, 2, 3, 4, 5)...)
	_, models := NewBuilder().Build(laps)
	m := models[model.CompoundHard]
	if math.Abs(m.BaseTime-2.0) > 1e-9 || math.Abs(m.DegRate-0.05) > 1e-9 {
		t.Errorf("Build() model = %+v, want base 2 rate 0.05", m)
	}
}

func TestBuildDiscardsOutliers(t *testing.T) {
	laps := lapsOnLine("VER", model.CompoundHard, 90.0, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	laps = append(laps, model.LapRecord{
		Driver:    "VER",
		LapNumber: 11,
		LapTime:   150.0, // spun and recovered
		Compound:  model.CompoundHard,
		TyreAge:   5,
		StintID:   1,
	})

	curves := NewBuilder().Curves(laps)
	curve, ok := curves[model.CompoundHard]
	if !ok {
		t.Fatal("Curves() missing HARD curve")
	}
	// outlier removed, single-lap buckets fall back to "use all"
	if len(curve.TyreLife) != 10 {
		t.Fatalf("Curves() buckets = %d, want 10", len(curve.TyreLife))
	}
	for i := range curve.AvgLapTime {
		if math.Abs(curve.AvgLapTime[i]-90.0) > 1e-9 {
			t.Errorf("bucket %d avg = %v, want 90 (outlier not discarded?)",
				curve.TyreLife[i], curve.AvgLapTime[i])
		}
	}
}

func TestBuildBucketQualification(t *testing.T) {
	// ages 1..3 have two laps each, age 9 only one: the sparse bucket
	// must be dropped because qualified buckets exist
	laps := append(
		lapsOnLine("VER", model.CompoundSoft, 91.0, 0, 1, 2, 3),
		lapsOnLine("HAM", model.CompoundSoft, 91.0, 0, 1, 2, 3)...)
	laps = append(laps, lapsOnLine("PER", model.CompoundSoft, 91.0, 0, 9)...)

	curves := NewBuilder().Curves(laps)
	curve := curves[model.CompoundSoft]
	if len(curve.TyreLife) != 3 {
		t.Fatalf("Curves() buckets = %v, want ages 1..3 only", curve.TyreLife)
	}
	for _, age := range curve.TyreLife {
		if age > 3 {
			t.Errorf("unqualified bucket age %d survived", age)
		}
	}
}

func TestBuildSkipsDirtyLaps(t *testing.T) {
	laps := []model.LapRecord{
		{Driver: "VER", LapNumber: 1, LapTime: 92.0,
			Compound: model.CompoundMedium, TyreAge: 1, IsPitLap: true},
		{Driver: "VER", LapNumber: 2, LapTime: 92.0,
			Compound: model.CompoundMedium, TyreAge: 2, Inaccurate: true},
		{Driver: "VER", LapNumber: 3, LapTime: 0,
			Compound: model.CompoundMedium, TyreAge: 3},
	}
	curves, models := NewBuilder().Build(laps)
	if len(curves) != 0 {
		t.Errorf("Build() curves = %v, want empty", curves)
	}
	if len(models) != 0 {
		t.Errorf("Build() models = %v, want empty", models)
	}
}

func TestModelsAbsentOnSingleBucket(t *testing.T) {
	// all laps at the same tyre age: curve exists, model does not
	laps := append(
		lapsOnLine("VER", model.CompoundWet, 105.0, 0, 4),
		lapsOnLine("HAM", model.CompoundWet, 105.0, 0, 4)...)

	curves, models := NewBuilder().Build(laps)
	if _, ok := curves[model.CompoundWet]; !ok {
		t.Error("Build() missing WET curve")
	}
	if _, ok := models[model.CompoundWet]; ok {
		t.Error("Build() fitted WET model from a single bucket")
	}
}

func TestSampleWeights(t *testing.T) {
	curves := map[string]model.CompoundDegradation{
		model.CompoundMedium: {Count: []int{2, 2, 1}},
		model.CompoundHard:   {Count: []int{3}},
	}
	weights := SampleWeights(curves)
	if weights[model.CompoundMedium] != 5 {
		t.Errorf("SampleWeights() MEDIUM = %v, want 5", weights[model.CompoundMedium])
	}
	if weights[model.CompoundHard] != 3 {
		t.Errorf("SampleWeights() HARD = %v, want 3", weights[model.CompoundHard])
	}
}

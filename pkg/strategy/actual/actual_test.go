package actual

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pitwall/strategy-engine-go/pkg/model"
	"github.com/pitwall/strategy-engine-go/testsupport/basedata"
)

func TestExtract(t *testing.T) {
	session := basedata.SampleSession()
	got, err := Extract(session, "VER")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	wantStints := []model.StintInfo{
		{Stint: 1, Compound: model.CompoundMedium, StartLap: 1, EndLap: 28, Laps: 28},
		{Stint: 2, Compound: model.CompoundHard, StartLap: 29, EndLap: 57, Laps: 29},
	}
	if diff := cmp.Diff(wantStints, got.Stints); diff != "" {
		t.Errorf("Extract() stints mismatch (-want +got):\n%s", diff)
	}

	wantPits := []model.PitLap{
		{Lap: 28, FromCompound: model.CompoundMedium, ToCompound: model.CompoundHard},
	}
	if diff := cmp.Diff(wantPits, got.PitLaps); diff != "" {
		t.Errorf("Extract() pit laps mismatch (-want +got):\n%s", diff)
	}

	if got.TotalLaps != 57 {
		t.Errorf("Extract() total laps = %d, want 57", got.TotalLaps)
	}
	if len(got.LapTimes) != 57 {
		t.Fatalf("Extract() lap times = %d, want 57", len(got.LapTimes))
	}
	// sum of 92+0.04*a over a=1..28 plus 93+0.02*a over a=1..29
	wantTotal := 2592.24 + 2705.7
	if math.Abs(got.TotalTime-wantTotal) > 1e-6 {
		t.Errorf("Extract() total time = %v, want %v", got.TotalTime, wantTotal)
	}

	first := got.LapTimes[0]
	if first.Lap != 1 || first.Compound != model.CompoundMedium || first.TyreAge != 1 {
		t.Errorf("Extract() first lap = %+v", first)
	}
	outLap := got.LapTimes[28]
	if outLap.Lap != 29 || outLap.Compound != model.CompoundHard || outLap.TyreAge != 1 {
		t.Errorf("Extract() out lap = %+v", outLap)
	}
}

func TestExtractStintIDChangeSameCompound(t *testing.T) {
	// medium to medium stop must still split the stints
	laps := []model.LapRecord{
		{Driver: "NOR", LapNumber: 1, LapTime: 91, Compound: model.CompoundMedium,
			TyreAge: 1, StintID: 1},
		{Driver: "NOR", LapNumber: 2, LapTime: 91, Compound: model.CompoundMedium,
			TyreAge: 2, StintID: 1},
		{Driver: "NOR", LapNumber: 3, LapTime: 91, Compound: model.CompoundMedium,
			TyreAge: 1, StintID: 2},
	}
	got, err := Extract(&model.RaceSession{TotalLaps: 3, Laps: laps}, "NOR")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got.Stints) != 2 {
		t.Fatalf("Extract() stints = %+v, want 2 stints", got.Stints)
	}
	wantPits := []model.PitLap{
		{Lap: 2, FromCompound: model.CompoundMedium, ToCompound: model.CompoundMedium},
	}
	if !reflect.DeepEqual(got.PitLaps, wantPits) {
		t.Errorf("Extract() pit laps = %+v, want %+v", got.PitLaps, wantPits)
	}
}

func TestExtractUnorderedLaps(t *testing.T) {
	laps := []model.LapRecord{
		{Driver: "ALO", LapNumber: 3, LapTime: 90, Compound: model.CompoundHard,
			TyreAge: 1, StintID: 2},
		{Driver: "ALO", LapNumber: 1, LapTime: 92, Compound: model.CompoundSoft,
			TyreAge: 1, StintID: 1},
		{Driver: "ALO", LapNumber: 2, LapTime: 93, Compound: model.CompoundSoft,
			TyreAge: 2, StintID: 1},
	}
	got, err := Extract(&model.RaceSession{TotalLaps: 3, Laps: laps}, "ALO")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got.Stints) != 2 || got.Stints[0].Compound != model.CompoundSoft {
		t.Errorf("Extract() stints = %+v, want SOFT stint first", got.Stints)
	}
	if got.LapTimes[0].Lap != 1 || got.LapTimes[2].Lap != 3 {
		t.Errorf("Extract() lap times not sorted: %+v", got.LapTimes)
	}
}

func TestExtractZeroLapTimesExcluded(t *testing.T) {
	laps := []model.LapRecord{
		{Driver: "LEC", LapNumber: 1, LapTime: 90, Compound: model.CompoundSoft,
			TyreAge: 1, StintID: 1},
		{Driver: "LEC", LapNumber: 2, LapTime: 0, Compound: model.CompoundSoft,
			TyreAge: 2, StintID: 1},
	}
	got, err := Extract(&model.RaceSession{TotalLaps: 2, Laps: laps}, "LEC")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got.LapTimes) != 1 || got.TotalTime != 90 {
		t.Errorf("Extract() = %d lap times, total %v; want 1 and 90",
			len(got.LapTimes), got.TotalTime)
	}
	// the lap still counts for the stint length
	if got.Stints[0].Laps != 2 {
		t.Errorf("Extract() stint laps = %d, want 2", got.Stints[0].Laps)
	}
}

func TestExtractUnknownDriver(t *testing.T) {
	session := basedata.SampleSession()
	_, err := Extract(session, "XXX")
	if !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("Extract() error = %v, want ErrUnknownDriver", err)
	}
}

// Package actual reconstructs what a driver really did in the race:
// stints, lap times, pit laps and total elapsed time.
package actual

import (
	"errors"
	"slices"

	"github.com/samber/lo"

	"github.com/pitwall/strategy-engine-go/pkg/model"
)

var ErrUnknownDriver = errors.New("no lap data found for driver")

// Extract partitions the driver's laps into contiguous stints at every
// compound (or stint id) change. Callers receiving ErrUnknownDriver may
// still proceed with a simulation using actual = nil.
func Extract(session *model.RaceSession, driver string) (*model.ActualStrategy, error) {
	driverLaps := lo.Filter(session.Laps, func(l model.LapRecord, _ int) bool {
		return l.Driver == driver
	})
	if len(driverLaps) == 0 {
		return nil, ErrUnknownDriver
	}
	driverLaps = sortedByLap(driverLaps)

	ret := &model.ActualStrategy{
		Stints:   make([]model.StintInfo, 0),
		LapTimes: make([]model.LapTime, 0, len(driverLaps)),
		PitLaps:  make([]model.PitLap, 0),
	}

	var current *model.StintInfo
	for i := range driverLaps {
		lap := &driverLaps[i]
		if current == nil || current.Compound != lap.Compound ||
			stintChanged(driverLaps, i) {
			if current != nil {
				ret.Stints = append(ret.Stints, *current)
			}
			current = &model.StintInfo{
				Stint:    len(ret.Stints) + 1,
				Compound: lap.Compound,
				StartLap: lap.LapNumber,
				EndLap:   lap.LapNumber,
				Laps:     1,
			}
		} else {
			current.EndLap = lap.LapNumber
			current.Laps++
		}
		if lap.LapTime > 0 {
			ret.LapTimes = append(ret.LapTimes, model.LapTime{
				Lap:      lap.LapNumber,
				TimeSec:  lap.LapTime,
				Compound: lap.Compound,
				TyreAge:  lap.TyreAge,
			})
			ret.TotalTime += lap.LapTime
		}
		if lap.LapNumber > ret.TotalLaps {
			ret.TotalLaps = lap.LapNumber
		}
	}
	if current != nil {
		ret.Stints = append(ret.Stints, *current)
	}

	for i := 0; i < len(ret.Stints)-1; i++ {
		ret.PitLaps = append(ret.PitLaps, model.PitLap{
			Lap:          ret.Stints[i].EndLap,
			FromCompound: ret.Stints[i].Compound,
			ToCompound:   ret.Stints[i+1].Compound,
		})
	}
	return ret, nil
}

func stintChanged(laps []model.LapRecord, i int) bool {
	return i > 0 && laps[i].StintID != laps[i-1].StintID
}

func sortedByLap(laps []model.LapRecord) []model.LapRecord {
	ret := slices.Clone(laps)
	slices.SortFunc(ret, func(a, b model.LapRecord) int { return a.LapNumber - b.LapNumber })
	return ret
}

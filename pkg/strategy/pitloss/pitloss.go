package pitloss

import (
	"slices"
	"sort"

	"github.com/samber/lo"

	"github.com/pitwall/strategy-engine-go/log"
	"github.com/pitwall/strategy-engine-go/pkg/model"
)

// plausibility windows for observed pit costs (seconds)
const (
	explicitMin = 15.0
	explicitMax = 60.0
	derivedMin  = 15.0
	derivedMax  = 40.0
)

type Estimator struct {
	l *log.Logger
}

func NewEstimator() *Estimator {
	return &Estimator{l: log.Default().Named("strategy.pitloss")}
}

// Estimate aggregates pit-stop time costs over all drivers. Explicitly
// recorded pit durations are preferred; when none pass the plausibility
// window, the cost is derived from compound transitions as out-lap time
// minus the median clean lap time of that driver on the compound before
// the stop. Returns nil when no pit events are observed; callers must
// treat that as "no data", not an error.
func (e *Estimator) Estimate(laps []model.LapRecord) *model.PitLossStats {
	costs := explicitCosts(laps)
	if len(costs) == 0 {
		costs = e.derivedCosts(laps)
	}
	if len(costs) == 0 {
		e.l.Debug("no pit events observed")
		return nil
	}
	return &model.PitLossStats{
		Avg:   lo.Sum(costs) / float64(len(costs)),
		Min:   slices.Min(costs),
		Max:   slices.Max(costs),
		Count: len(costs),
	}
}

func explicitCosts(laps []model.LapRecord) []float64 {
	costs := make([]float64, 0)
	for i := range laps {
		d := laps[i].PitDuration
		if d != nil && *d > explicitMin && *d < explicitMax {
			costs = append(costs, *d)
		}
	}
	return costs
}

func (e *Estimator) derivedCosts(laps []model.LapRecord) []float64 {
	byDriver := lo.GroupBy(laps, func(l model.LapRecord) string { return l.Driver })
	drivers := lo.Keys(byDriver)
	slices.Sort(drivers)

	costs := make([]float64, 0)
	for _, driver := range drivers {
		driverLaps := sortedByLap(byDriver[driver])
		for i := 1; i < len(driverLaps); i++ {
			prev, cur := &driverLaps[i-1], &driverLaps[i]
			if cur.StintID == prev.StintID && cur.Compound == prev.Compound {
				continue
			}
			if cur.LapTime <= 0 {
				continue
			}
			base, ok := medianCleanBefore(driverLaps, prev.Compound, cur.LapNumber)
			if !ok {
				continue
			}
			cost := cur.LapTime - base
			if cost > derivedMin && cost < derivedMax {
				e.l.Debug("derived pit cost",
					log.String("driver", driver),
					log.Int("lap", cur.LapNumber),
					log.Float64("cost", cost))
				costs = append(costs, cost)
			}
		}
	}
	return costs
}

// medianCleanBefore computes the median clean lap time of the given
// compound over laps preceding lapNumber.
//
//nolint:whitespace // editor/linter issue
func medianCleanBefore(laps []model.LapRecord, compound string, lapNumber int) (
	float64, bool,
) {
	times := make([]float64, 0)
	for i := range laps {
		l := &laps[i]
		if l.LapNumber < lapNumber && l.Compound == compound && l.Clean() {
			times = append(times, l.LapTime)
		}
	}
	if len(times) == 0 {
		return 0, false
	}
	sort.Float64s(times)
	mid := len(times) / 2
	if len(times)%2 == 1 {
		return times[mid], true
	}
	return (times[mid-1] + times[mid]) / 2, true
}

func sortedByLap(laps []model.LapRecord) []model.LapRecord {
	ret := slices.Clone(laps)
	slices.SortFunc(ret, func(a, b model.LapRecord) int { return a.LapNumber - b.LapNumber })
	return ret
}

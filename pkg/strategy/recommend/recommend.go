// Package recommend searches a bounded space of alternative stint plans
// and ranks them by predicted total race time.
package recommend

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/pitwall/strategy-engine-go/log"
	"github.com/pitwall/strategy-engine-go/pkg/model"
	"github.com/pitwall/strategy-engine-go/pkg/strategy/simulate"
)

const (
	DefaultGridStep = 5
	DefaultTopK     = 3
	// plans with 1..MaxStops pit stops are considered
	MaxStops = 4
)

type Recommender struct {
	gridStep int
	topK     int
	l        *log.Logger
}

type Option func(*Recommender)

func WithGridStep(step int) Option {
	return func(r *Recommender) { r.gridStep = step }
}

func WithTopK(k int) Option {
	return func(r *Recommender) { r.topK = k }
}

func New(opts ...Option) *Recommender {
	r := &Recommender{
		gridStep: DefaultGridStep,
		topK:     DefaultTopK,
		l:        log.Default().Named("strategy.recommend"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.gridStep <= 0 {
		r.gridStep = DefaultGridStep
	}
	if r.topK <= 0 {
		r.topK = DefaultTopK
	}
	return r
}

type candidate struct {
	plan  model.StintPlan
	total float64
	stops int
	shape string
}

// Suggest enumerates candidate plans over 1..MaxStops pit stops with
// boundaries on a coarse lap grid, simulates each valid candidate and
// returns the top-K distinct compound shapes ranked by total time.
// baseline is the reference total (the driver's actual total time, or the
// user plan's total when no actual data exists).
//
//nolint:whitespace // editor/linter issue
func (r *Recommender) Suggest(
	params *simulate.Params, baseline float64,
) []model.SuggestedStrategy {
	compounds := lo.Keys(params.Models)
	slices.Sort(compounds)
	if len(compounds) < 2 {
		r.l.Debug("not enough modeled compounds to recommend",
			log.Int("compounds", len(compounds)))
		return nil
	}
	minStint := params.MinStintLaps
	if minStint <= 0 {
		minStint = simulate.DefaultMinStint
	}

	candidates := make([]candidate, 0)
	for stops := 1; stops <= MaxStops; stops++ {
		for _, boundaries := range r.boundarySets(stops, params.TotalLaps, minStint) {
			for _, seq := range compoundSequences(compounds, stops+1) {
				if len(lo.Uniq(seq)) < 2 {
					continue
				}
				plan, err := simulate.PlanFromBoundaries(boundaries, seq, params.TotalLaps)
				if err != nil {
					continue
				}
				outcome, err := simulate.Run(params, plan)
				if err != nil {
					continue
				}
				candidates = append(candidates, candidate{
					plan:  plan,
					total: outcome.TotalTime,
					stops: stops,
					shape: strings.Join(seq, ">"),
				})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].total != candidates[j].total {
			return candidates[i].total < candidates[j].total
		}
		return candidates[i].shape < candidates[j].shape
	})

	seen := make(map[string]bool)
	bestPerStops := make(map[int]bool)
	ret := make([]model.SuggestedStrategy, 0, r.topK)
	for i := range candidates {
		c := &candidates[i]
		if seen[c.shape] {
			continue
		}
		seen[c.shape] = true
		label := fmt.Sprintf("%d-stop alternative", c.stops)
		if !bestPerStops[c.stops] {
			bestPerStops[c.stops] = true
			label = fmt.Sprintf("Best %d-stop", c.stops)
		}
		ret = append(ret, model.SuggestedStrategy{
			Label:         label,
			Stints:        c.plan,
			TotalTime:     roundMilli(c.total),
			DeltaVsActual: roundMilli(c.total - baseline),
		})
		if len(ret) == r.topK {
			break
		}
	}
	return ret
}

// boundarySets enumerates ascending pit-lap tuples on the grid such that
// every resulting stint covers at least minStint laps.
func (r *Recommender) boundarySets(stops, totalLaps, minStint int) [][]int {
	gridLaps := make([]int, 0)
	for lap := r.gridStep; lap <= totalLaps-minStint; lap += r.gridStep {
		if lap >= minStint {
			gridLaps = append(gridLaps, lap)
		}
	}
	ret := make([][]int, 0)
	var build func(start int, current []int)
	build = func(start int, current []int) {
		if len(current) == stops {
			ret = append(ret, slices.Clone(current))
			return
		}
		for i := start; i < len(gridLaps); i++ {
			if len(current) > 0 && gridLaps[i]-current[len(current)-1] < minStint {
				continue
			}
			build(i+1, append(current, gridLaps[i]))
		}
	}
	build(0, make([]int, 0, stops))
	return ret
}

// compoundSequences enumerates all compound assignments of the given
// length (cartesian product, input order preserved for determinism).
func compoundSequences(compounds []string, length int) [][]string {
	ret := [][]string{{}}
	for range length {
		next := make([][]string, 0, len(ret)*len(compounds))
		for _, prefix := range ret {
			for _, c := range compounds {
				seq := make([]string, len(prefix), len(prefix)+1)
				copy(seq, prefix)
				next = append(next, append(seq, c))
			}
		}
		ret = next
	}
	return ret
}

func roundMilli(v float64) float64 {
	return math.Round(v*1000) / 1000
}

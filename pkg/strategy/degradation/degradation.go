package degradation

import (
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/pitwall/strategy-engine-go/log"
	"github.com/pitwall/strategy-engine-go/pkg/model"
	"github.com/pitwall/strategy-engine-go/pkg/strategy/linfit"
)

const (
	// laps outside mean +/- OutlierSigma*std are discarded before bucketing
	OutlierSigma = 2.0
	// buckets need this many laps to count; if no bucket qualifies,
	// all buckets are used as a fallback
	MinBucketCount = 2
)

type Builder struct {
	outlierSigma   float64
	minBucketCount int
	l              *log.Logger
}

type Option func(*Builder)

func WithOutlierSigma(sigma float64) Option {
	return func(b *Builder) { b.outlierSigma = sigma }
}

func WithMinBucketCount(count int) Option {
	return func(b *Builder) { b.minBucketCount = count }
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		outlierSigma:   OutlierSigma,
		minBucketCount: MinBucketCount,
		l:              log.Default().Named("strategy.degradation"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Curves buckets the clean laps of each compound by integer tyre age and
// returns mean/std/count per bucket. Compounds without any clean laps are
// absent from the result.
func (b *Builder) Curves(laps []model.LapRecord) map[string]model.CompoundDegradation {
	clean := lo.Filter(laps, func(l model.LapRecord, _ int) bool { return l.Clean() })
	byCompound := lo.GroupBy(clean, func(l model.LapRecord) string { return l.Compound })

	ret := make(map[string]model.CompoundDegradation)
	for compound, compoundLaps := range byCompound {
		curve, ok := b.buildCurve(compoundLaps)
		if !ok {
			b.l.Debug("no usable laps for compound", log.String("compound", compound))
			continue
		}
		ret[compound] = curve
	}
	return ret
}

// Models fits lap_time = base_time + deg_rate*tyre_age per compound by
// ordinary least squares over the bucket means. Compounds with fewer than
// two distinct tyre-age buckets are absent from the result; that is
// "insufficient data", not an error.
func (b *Builder) Models(
	curves map[string]model.CompoundDegradation,
) map[string]model.DegradationModel {
	ret := make(map[string]model.DegradationModel)
	for compound, curve := range curves {
		xs := lo.Map(curve.TyreLife, func(age, _ int) float64 { return float64(age) })
		base, rate, ok := linfit.Fit(xs, curve.AvgLapTime)
		if !ok {
			b.l.Debug("insufficient buckets to fit compound",
				log.String("compound", compound),
				log.Int("buckets", len(curve.TyreLife)))
			continue
		}
		ret[compound] = model.DegradationModel{BaseTime: base, DegRate: rate}
	}
	return ret
}

// Build is a convenience combining Curves and Models.
//
//nolint:whitespace // editor/linter issue
func (b *Builder) Build(laps []model.LapRecord) (
	map[string]model.CompoundDegradation, map[string]model.DegradationModel,
) {
	curves := b.Curves(laps)
	return curves, b.Models(curves)
}

// SampleWeights returns the total clean-lap count per compound, used as
// weights when substituting a missing compound model.
func SampleWeights(curves map[string]model.CompoundDegradation) map[string]float64 {
	ret := make(map[string]float64, len(curves))
	for compound, curve := range curves {
		ret[compound] = float64(lo.Sum(curve.Count))
	}
	return ret
}

func (b *Builder) buildCurve(laps []model.LapRecord) (model.CompoundDegradation, bool) {
	times := lo.Map(laps, func(l model.LapRecord, _ int) float64 { return l.LapTime })
	mean, std := meanStd(times)
	if std > 0 {
		laps = lo.Filter(laps, func(l model.LapRecord, _ int) bool {
			return l.LapTime >= mean-b.outlierSigma*std &&
				l.LapTime <= mean+b.outlierSigma*std
		})
	}
	if len(laps) == 0 {
		return model.CompoundDegradation{}, false
	}

	buckets := lo.GroupBy(laps, func(l model.LapRecord) int { return l.TyreAge })
	ages := lo.Keys(buckets)
	slices.Sort(ages)

	qualified := lo.Filter(ages, func(age, _ int) bool {
		return len(buckets[age]) >= b.minBucketCount
	})
	if len(qualified) > 0 {
		ages = qualified
	}

	curve := model.CompoundDegradation{
		TyreLife:   make([]int, 0, len(ages)),
		AvgLapTime: make([]float64, 0, len(ages)),
		StdLapTime: make([]float64, 0, len(ages)),
		Count:      make([]int, 0, len(ages)),
	}
	for _, age := range ages {
		bucketTimes := lo.Map(buckets[age],
			func(l model.LapRecord, _ int) float64 { return l.LapTime })
		bMean, bStd := meanStd(bucketTimes)
		curve.TyreLife = append(curve.TyreLife, age)
		curve.AvgLapTime = append(curve.AvgLapTime, bMean)
		curve.StdLapTime = append(curve.StdLapTime, bStd)
		curve.Count = append(curve.Count, len(bucketTimes))
	}
	return curve, true
}

// meanStd returns mean and sample standard deviation (0 for n < 2).
func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if len(values) < 2 {
		return mean, 0
	}
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(len(values)-1))
}

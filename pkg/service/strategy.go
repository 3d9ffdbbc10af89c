package service

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/pitwall/strategy-engine-go/log"
	"github.com/pitwall/strategy-engine-go/pkg/model"
	"github.com/pitwall/strategy-engine-go/pkg/strategy/actual"
	"github.com/pitwall/strategy-engine-go/pkg/strategy/compare"
	"github.com/pitwall/strategy-engine-go/pkg/strategy/degradation"
	"github.com/pitwall/strategy-engine-go/pkg/strategy/fuel"
	"github.com/pitwall/strategy-engine-go/pkg/strategy/pitloss"
	"github.com/pitwall/strategy-engine-go/pkg/strategy/recommend"
	"github.com/pitwall/strategy-engine-go/pkg/strategy/simulate"
)

// StrategyService orchestrates the strategy computations over one
// immutable race snapshot. Failures are isolated per sub-computation:
// missing models, missing pit stats or an unknown driver never abort the
// sibling computations.
type StrategyService struct {
	minStintLaps    int
	minLapTime      float64
	pitLossOverride float64
	thresholds      compare.Thresholds
	recommender     *recommend.Recommender
	log             *log.Logger
	tracer          trace.Tracer
}

type Option func(*StrategyService)

func WithMinStintLaps(laps int) Option {
	return func(s *StrategyService) { s.minStintLaps = laps }
}

func WithMinLapTime(seconds float64) Option {
	return func(s *StrategyService) { s.minLapTime = seconds }
}

// WithPitLossOverride sets the pit loss to assume when the session shows
// no pit events. Zero means "no override".
func WithPitLossOverride(seconds float64) Option {
	return func(s *StrategyService) { s.pitLossOverride = seconds }
}

func WithThresholds(th compare.Thresholds) Option {
	return func(s *StrategyService) { s.thresholds = th }
}

func WithRecommender(r *recommend.Recommender) Option {
	return func(s *StrategyService) { s.recommender = r }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *StrategyService) { s.tracer = tracer }
}

func NewStrategyService(opts ...Option) *StrategyService {
	ret := &StrategyService{
		minStintLaps: simulate.DefaultMinStint,
		minLapTime:   simulate.DefaultMinLapTime,
		thresholds:   compare.DefaultThresholds(),
		log:          log.Default().Named("service.strategy"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.minStintLaps <= 0 {
		ret.minStintLaps = simulate.DefaultMinStint
	}
	if ret.minLapTime <= 0 {
		ret.minLapTime = simulate.DefaultMinLapTime
	}
	if ret.recommender == nil {
		ret.recommender = recommend.New()
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("pse")
	}
	return ret
}

// Degradation computes the per-compound curves and models plus the
// race-wide fuel effect. Compounds with insufficient data are simply
// absent from the result.
//
//nolint:whitespace // editor/linter issue
func (s *StrategyService) Degradation(
	ctx context.Context, session *model.RaceSession,
) *model.DegradationResponse {
	ctx, span := s.tracer.Start(ctx, "strategy.degradation")
	defer span.End()
	_ = ctx

	curves, models := degradation.NewBuilder().Build(session.Laps)
	return &model.DegradationResponse{
		Compounds:  curves,
		Models:     models,
		FuelEffect: fuel.Estimate(session.Laps, session.TotalLaps),
		Weather:    session.Weather,
		TotalLaps:  session.TotalLaps,
	}
}

// PitStats aggregates observed pit costs; nil means no pit events.
//
//nolint:whitespace // editor/linter issue
func (s *StrategyService) PitStats(
	ctx context.Context, session *model.RaceSession,
) *model.PitLossStats {
	_, span := s.tracer.Start(ctx, "strategy.pitstats")
	defer span.End()

	return pitloss.NewEstimator().Estimate(session.Laps)
}

// ActualStrategy reconstructs one driver's real race.
//
//nolint:whitespace // editor/linter issue
func (s *StrategyService) ActualStrategy(
	ctx context.Context, session *model.RaceSession, driver string,
) (*model.ActualStrategy, error) {
	_, span := s.tracer.Start(ctx, "strategy.actual")
	defer span.End()

	return actual.Extract(session, driver)
}

// Simulate validates the plan, runs the lap-by-lap simulation and
// enriches the result with comparison data and suggested alternatives.
// An unknown driver is not an error: the simulation proceeds with
// actual = nil and the comparison fields stay empty.
//
//nolint:funlen // orchestration reads best as one flow
func (s *StrategyService) Simulate(
	ctx context.Context,
	session *model.RaceSession,
	driver string,
	plan model.StintPlan,
) (*model.SimulationResult, error) {
	ctx, span := s.tracer.Start(ctx, "strategy.simulate")
	defer span.End()

	reqLog := s.log.Named("simulate")
	reqID := uuid.NewString()

	if err := simulate.ValidatePlan(plan, session.TotalLaps, s.minStintLaps); err != nil {
		return nil, err
	}

	curves, models := degradation.NewBuilder().Build(session.Laps)
	pitStats := s.PitStats(ctx, session)

	pitLoss := s.pitLossOverride
	degradedPitLoss := false
	if pitStats != nil {
		pitLoss = pitStats.Avg
	} else if s.pitLossOverride <= 0 {
		// no observed pit events and no override: simulate without a
		// pit cost but mark the result accordingly
		degradedPitLoss = true
	}

	params := &simulate.Params{
		Models:       models,
		ModelWeights: degradation.SampleWeights(curves),
		PitLoss:      pitLoss,
		TotalLaps:    session.TotalLaps,
		MinStintLaps: s.minStintLaps,
		MinLapTime:   s.minLapTime,
	}
	outcome, err := simulate.Run(params, plan)
	if err != nil {
		return nil, err
	}

	var act *model.ActualStrategy
	act, err = actual.Extract(session, driver)
	if err != nil {
		if !errors.Is(err, actual.ErrUnknownDriver) {
			return nil, err
		}
		reqLog.Warn("driver not found, comparison skipped",
			log.String("reqId", reqID),
			log.String("driver", driver))
		act = nil
	}

	ret := &model.SimulationResult{
		SimulatedLaps:      outcome.Laps,
		UserTotalTime:      outcome.TotalTime,
		Actual:             act,
		DegradedConfidence: outcome.Degraded || degradedPitLoss,
	}
	baseline := outcome.TotalTime
	if act != nil {
		ret.CumulativeGap = compare.CumulativeGap(outcome.Laps, act.LapTimes)
		ret.StintAnalysis = compare.AnalyzeStints(plan, outcome.Laps, act, s.thresholds)
		baseline = act.TotalTime
	}
	ret.SuggestedStrategies = s.recommender.Suggest(params, baseline)

	reqLog.Debug("simulation done",
		log.String("reqId", reqID),
		log.String("driver", driver),
		log.Int("laps", len(ret.SimulatedLaps)),
		log.Float64("total", ret.UserTotalTime),
		log.Bool("degraded", ret.DegradedConfidence))
	return ret, nil
}

// Recommend searches the plan space without a user plan. The baseline is
// the driver's actual race time when the driver is known, otherwise the
// best plan found sets its own baseline.
//
//nolint:whitespace // editor/linter issue
func (s *StrategyService) Recommend(
	ctx context.Context, session *model.RaceSession, driver string,
) ([]model.SuggestedStrategy, error) {
	ctx, span := s.tracer.Start(ctx, "strategy.recommend")
	defer span.End()

	curves, models := degradation.NewBuilder().Build(session.Laps)
	pitStats := s.PitStats(ctx, session)
	pitLoss := s.pitLossOverride
	if pitStats != nil {
		pitLoss = pitStats.Avg
	}
	params := &simulate.Params{
		Models:       models,
		ModelWeights: degradation.SampleWeights(curves),
		PitLoss:      pitLoss,
		TotalLaps:    session.TotalLaps,
		MinStintLaps: s.minStintLaps,
		MinLapTime:   s.minLapTime,
	}

	baseline := 0.0
	act, err := actual.Extract(session, driver)
	switch {
	case err == nil:
		baseline = act.TotalTime
	case !errors.Is(err, actual.ErrUnknownDriver):
		return nil, err
	}
	suggestions := s.recommender.Suggest(params, baseline)
	if baseline == 0 && len(suggestions) > 0 {
		best := suggestions[0].TotalTime
		for i := range suggestions {
			suggestions[i].DeltaVsActual = roundDelta(suggestions[i].TotalTime - best)
		}
	}
	return suggestions, nil
}

func roundDelta(v float64) float64 {
	return math.Round(v*1000) / 1000
}

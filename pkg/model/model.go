package model

// Compound names as delivered by the timing provider.
const (
	CompoundSoft         = "SOFT"
	CompoundMedium       = "MEDIUM"
	CompoundHard         = "HARD"
	CompoundIntermediate = "INTERMEDIATE"
	CompoundWet          = "WET"
)

// LapRecord is one cleaned per-lap record of a race session. Records are
// owned by the ingest collaborator and treated as immutable here.
type LapRecord struct {
	Driver      string   `json:"driver"`
	LapNumber   int      `json:"lap_number"`
	LapTime     float64  `json:"lap_time_seconds"`
	Compound    string   `json:"compound"`
	TyreAge     int      `json:"tyre_age"`
	StintID     int      `json:"stint_id"`
	IsPitLap    bool     `json:"is_pit_lap"`
	PitDuration *float64 `json:"pit_duration,omitempty"`
	Inaccurate  bool     `json:"inaccurate,omitempty"`
}

// Clean reports whether the lap may be used for model fitting.
func (l *LapRecord) Clean() bool {
	return !l.IsPitLap && !l.Inaccurate && l.LapTime > 0
}

type WeatherSummary struct {
	AirTemp   float64 `json:"air_temp"`
	TrackTemp float64 `json:"track_temp"`
	Rainfall  bool    `json:"rainfall"`
}

// RaceSession is the immutable lap snapshot for one race. All derived data
// is recomputed fresh from it on every request.
type RaceSession struct {
	Year      int             `json:"year"`
	Race      string          `json:"race"`
	TotalLaps int             `json:"total_laps"`
	Weather   *WeatherSummary `json:"weather,omitempty"`
	Laps      []LapRecord     `json:"laps"`
}

// SessionKey identifies a stored race snapshot.
type SessionKey struct {
	Year int    `json:"year"`
	Race string `json:"race"`
}

// CompoundDegradation holds the observed curve for one compound as parallel
// sequences indexed by tyre-age bucket.
type CompoundDegradation struct {
	TyreLife   []int     `json:"tyre_life"`
	AvgLapTime []float64 `json:"avg_lap_time"`
	StdLapTime []float64 `json:"std_lap_time"`
	Count      []int     `json:"count"`
}

// DegradationModel is the fitted linear model
// lap_time = BaseTime + DegRate*tyre_age.
// DegRate may be negative (track rubbering-in) and is never clamped.
type DegradationModel struct {
	BaseTime float64 `json:"base_time"`
	DegRate  float64 `json:"deg_rate"`
}

// FuelEffect is the race-wide lap-time trend attributed to fuel burn-off.
// It is reported independently of the per-compound degradation models.
type FuelEffect struct {
	PerLap float64 `json:"per_lap"`
	Total  float64 `json:"total"`
}

// DegradationResponse bundles curves, models and the fuel effect.
// A compound missing from Models lacked enough tyre-age buckets to fit.
type DegradationResponse struct {
	Compounds  map[string]CompoundDegradation `json:"compounds"`
	Models     map[string]DegradationModel    `json:"models"`
	FuelEffect *FuelEffect                    `json:"fuel_effect,omitempty"`
	Weather    *WeatherSummary                `json:"weather,omitempty"`
	TotalLaps  int                            `json:"total_laps"`
}

// PitLossStats aggregates observed pit-stop time costs. A nil value means
// no pit events were observed ("no data", not an error).
type PitLossStats struct {
	Avg   float64 `json:"avg_pit_time"`
	Min   float64 `json:"min_pit_time"`
	Max   float64 `json:"max_pit_time"`
	Count int     `json:"num_stops"`
}

// Stint is one entry of a proposed plan.
type Stint struct {
	Compound string `json:"compound"`
	Laps     int    `json:"laps"`
}

// StintPlan is an ordered sequence of stints covering the race distance.
type StintPlan []Stint

// TotalLaps returns the lap count covered by the plan.
func (p StintPlan) TotalLaps() int {
	sum := 0
	for i := range p {
		sum += p[i].Laps
	}
	return sum
}

// StintInfo describes one reconstructed stint of a driver's actual race.
type StintInfo struct {
	Stint    int    `json:"stint"`
	Compound string `json:"compound"`
	StartLap int    `json:"start_lap"`
	EndLap   int    `json:"end_lap"`
	Laps     int    `json:"laps"`
}

type LapTime struct {
	Lap      int     `json:"lap"`
	TimeSec  float64 `json:"time_sec"`
	Compound string  `json:"compound"`
	TyreAge  int     `json:"tyre_life"`
}

type PitLap struct {
	Lap          int    `json:"lap"`
	FromCompound string `json:"from_compound"`
	ToCompound   string `json:"to_compound"`
}

// ActualStrategy is one driver's reconstructed race.
type ActualStrategy struct {
	Stints    []StintInfo `json:"stints"`
	LapTimes  []LapTime   `json:"lap_times"`
	TotalTime float64     `json:"total_time"`
	PitLaps   []PitLap    `json:"pit_laps"`
	TotalLaps int         `json:"total_laps"`
}

type SimulatedLap struct {
	Lap      int     `json:"lap"`
	TimeSec  float64 `json:"time_sec"`
	Compound string  `json:"compound"`
	TyreAge  int     `json:"tyre_life"`
	IsPitLap bool    `json:"is_pit_lap"`
}

type GapPoint struct {
	Lap int     `json:"lap"`
	Gap float64 `json:"gap"`
}

type StintAnalysis struct {
	Stint       int     `json:"stint"`
	Compound    string  `json:"compound"`
	Laps        int     `json:"laps"`
	Delta       float64 `json:"delta"`
	Explanation string  `json:"explanation"`
}

type SuggestedStrategy struct {
	Label         string  `json:"label"`
	Stints        []Stint `json:"stints"`
	TotalTime     float64 `json:"total_time"`
	DeltaVsActual float64 `json:"delta_vs_actual"`
}

// SimulationResult is the full response for one simulated plan.
// Fields depending on the actual strategy are omitted when Actual is nil.
type SimulationResult struct {
	SimulatedLaps       []SimulatedLap      `json:"simulated_laps"`
	UserTotalTime       float64             `json:"user_total_time"`
	Actual              *ActualStrategy     `json:"actual,omitempty"`
	CumulativeGap       []GapPoint          `json:"cumulative_gap,omitempty"`
	StintAnalysis       []StintAnalysis     `json:"stint_analysis,omitempty"`
	SuggestedStrategies []SuggestedStrategy `json:"suggested_strategies,omitempty"`
	DegradedConfidence  bool                `json:"degraded_confidence,omitempty"`
}

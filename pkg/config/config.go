package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readability
var (
	DB              string  // connection string for the database
	SnapshotFile    string  // path to a race snapshot file (json)
	LogLevel        string  // sets the log level (zap log level values)
	SQLLogLevel     string  // sets the log level for sql subsystem
	LogFormat       string  // text vs json
	LogFilter       string  // zapfilter rules, empty means no filtering
	WaitForServices string  // duration to wait for the database to be ready
	MinStintLaps    int     // minimum laps a stint must cover
	LapGridStep     int     // step size of the recommender lap grid
	TopSuggestions  int     // number of suggested plans to return
	MinLapTime      float64 // lower bound for predicted lap times (seconds)
	PitLossOverride float64 // pit loss to assume when no pit events observed (0 = none)
)

// Package util bundles the pieces every CLI command needs: logger setup,
// snapshot resolution and plan-string parsing.
package util

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pitwall/strategy-engine-go/log"
	"github.com/pitwall/strategy-engine-go/pkg/config"
	"github.com/pitwall/strategy-engine-go/pkg/db/postgres"
	"github.com/pitwall/strategy-engine-go/pkg/ingest"
	"github.com/pitwall/strategy-engine-go/pkg/model"
	sessionRepo "github.com/pitwall/strategy-engine-go/pkg/repository/session"
)

var ErrNoSource = errors.New("no snapshot source: provide --snapshot or --db with --year/--race")

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger configures the process-wide default logger from the
// resolved CLI config.
func SetupLogger() {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	if config.LogFilter != "" {
		filtered, err := log.WithFilterRules(logger, config.LogFilter)
		if err == nil {
			logger = filtered
		} else {
			logger.Warn("invalid log filter rules ignored",
				log.String("rules", config.LogFilter),
				log.ErrorField(err))
		}
	}
	log.ResetDefault(logger)
}

// SQLLogger builds the logger for the sql subsystem with its own level.
func SQLLogger() *log.Logger {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	return logger.Named("sql")
}

// ResolveSession loads the race snapshot, from the snapshot file when
// given, otherwise from the database by (year, race).
//
//nolint:whitespace // editor/linter issue
func ResolveSession(
	ctx context.Context, year int, race string,
) (*model.RaceSession, error) {
	if config.SnapshotFile != "" {
		return ingest.LoadFile(config.SnapshotFile)
	}
	if config.DB == "" || race == "" {
		return nil, ErrNoSource
	}
	pool, err := postgres.InitWithURL(config.DB, postgres.WithTracer(SQLLogger()))
	if err != nil {
		return nil, fmt.Errorf("connecting database: %w", err)
	}
	defer pool.Close()
	session, err := sessionRepo.LoadByKey(ctx, pool, year, race)
	if err != nil {
		return nil, err
	}
	if err := ingest.Validate(session); err != nil {
		return nil, err
	}
	return session, nil
}

// ParsePlan converts a plan string like "MEDIUM:28,HARD:29" into a
// stint plan.
func ParsePlan(arg string) (model.StintPlan, error) {
	parts := strings.Split(arg, ",")
	plan := make(model.StintPlan, 0, len(parts))
	for _, part := range parts {
		compound, lapsArg, found := strings.Cut(strings.TrimSpace(part), ":")
		if !found || compound == "" {
			return nil, fmt.Errorf("invalid stint %q, want COMPOUND:LAPS", part)
		}
		laps, err := strconv.Atoi(lapsArg)
		if err != nil || laps <= 0 {
			return nil, fmt.Errorf("invalid lap count in stint %q", part)
		}
		plan = append(plan, model.Stint{
			Compound: strings.ToUpper(compound),
			Laps:     laps,
		})
	}
	return plan, nil
}

// FormatPlan is the inverse of ParsePlan.
func FormatPlan(stints []model.Stint) string {
	parts := make([]string, 0, len(stints))
	for _, s := range stints {
		parts = append(parts, fmt.Sprintf("%s:%d", s.Compound, s.Laps))
	}
	return strings.Join(parts, ",")
}

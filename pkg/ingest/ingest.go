// Package ingest loads cleaned race snapshots. The core never fetches
// timing data itself; it consumes immutable snapshots prepared upstream
// and stored as json files or database rows.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/pitwall/strategy-engine-go/log"
	"github.com/pitwall/strategy-engine-go/pkg/model"
)

var (
	ErrEmptySnapshot = errors.New("snapshot contains no laps")
	ErrInvalidRecord = errors.New("invalid lap record")
)

// LoadFile reads and validates a race snapshot from a json file.
func LoadFile(path string) (*model.RaceSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var session model.RaceSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if err := Validate(&session); err != nil {
		return nil, err
	}
	log.Default().Named("ingest").Debug("snapshot loaded",
		log.String("file", path),
		log.Int("year", session.Year),
		log.String("race", session.Race),
		log.Int("laps", len(session.Laps)))
	return &session, nil
}

// Validate checks the snapshot invariants and derives the total lap count
// from the data when it is absent.
func Validate(session *model.RaceSession) error {
	if len(session.Laps) == 0 {
		return ErrEmptySnapshot
	}
	maxLap := 0
	for i := range session.Laps {
		l := &session.Laps[i]
		if l.Driver == "" {
			return fmt.Errorf("%w: lap %d has no driver", ErrInvalidRecord, i)
		}
		if l.LapNumber <= 0 {
			return fmt.Errorf("%w: driver %s has non-positive lap number %d",
				ErrInvalidRecord, l.Driver, l.LapNumber)
		}
		if l.LapTime < 0 {
			return fmt.Errorf("%w: driver %s lap %d has negative lap time",
				ErrInvalidRecord, l.Driver, l.LapNumber)
		}
		if l.Compound == "" {
			return fmt.Errorf("%w: driver %s lap %d has no compound",
				ErrInvalidRecord, l.Driver, l.LapNumber)
		}
		if l.LapNumber > maxLap {
			maxLap = l.LapNumber
		}
	}
	if session.TotalLaps == 0 {
		session.TotalLaps = maxLap
	}
	if session.TotalLaps < maxLap {
		return fmt.Errorf("%w: total_laps %d below observed lap %d",
			ErrInvalidRecord, session.TotalLaps, maxLap)
	}
	return nil
}

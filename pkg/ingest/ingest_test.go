package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pitwall/strategy-engine-go/pkg/model"
)

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeSnapshot(t, `{
		"year": 2024,
		"race": "Testland Grand Prix",
		"total_laps": 57,
		"laps": [
			{"driver": "VER", "lap_number": 1, "lap_time_seconds": 92.04,
			 "compound": "MEDIUM", "tyre_age": 1, "stint_id": 1},
			{"driver": "VER", "lap_number": 2, "lap_time_seconds": 92.08,
			 "compound": "MEDIUM", "tyre_age": 2, "stint_id": 1}
		]
	}`)
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if got.Year != 2024 || got.Race != "Testland Grand Prix" || got.TotalLaps != 57 {
		t.Errorf("LoadFile() header = %+v", got)
	}
	if len(got.Laps) != 2 || got.Laps[0].LapTime != 92.04 {
		t.Errorf("LoadFile() laps = %+v", got.Laps)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "empty laps",
			content: `{"year": 2024, "race": "x", "laps": []}`,
			wantErr: ErrEmptySnapshot,
		},
		{
			name: "missing driver",
			content: `{"year": 2024, "race": "x", "laps": [
				{"lap_number": 1, "lap_time_seconds": 92, "compound": "SOFT"}]}`,
			wantErr: ErrInvalidRecord,
		},
		{
			name: "bad lap number",
			content: `{"year": 2024, "race": "x", "laps": [
				{"driver": "VER", "lap_number": 0, "lap_time_seconds": 92,
				 "compound": "SOFT"}]}`,
			wantErr: ErrInvalidRecord,
		},
		{
			name: "negative lap time",
			content: `{"year": 2024, "race": "x", "laps": [
				{"driver": "VER", "lap_number": 1, "lap_time_seconds": -1,
				 "compound": "SOFT"}]}`,
			wantErr: ErrInvalidRecord,
		},
		{
			name: "missing compound",
			content: `{"year": 2024, "race": "x", "laps": [
				{"driver": "VER", "lap_number": 1, "lap_time_seconds": 92}]}`,
			wantErr: ErrInvalidRecord,
		},
		{
			name: "total laps below observed",
			content: `{"year": 2024, "race": "x", "total_laps": 1, "laps": [
				{"driver": "VER", "lap_number": 5, "lap_time_seconds": 92,
				 "compound": "SOFT"}]}`,
			wantErr: ErrInvalidRecord,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeSnapshot(t, tt.content))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadFile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFileNotJSON(t *testing.T) {
	if _, err := LoadFile(writeSnapshot(t, "not json")); err == nil {
		t.Error("LoadFile() error = nil, want parse error")
	}
}

func TestValidateDerivesTotalLaps(t *testing.T) {
	session := &model.RaceSession{
		Laps: []model.LapRecord{
			{Driver: "VER", LapNumber: 1, LapTime: 92, Compound: model.CompoundSoft},
			{Driver: "VER", LapNumber: 44, LapTime: 92, Compound: model.CompoundSoft},
		},
	}
	if err := Validate(session); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if session.TotalLaps != 44 {
		t.Errorf("Validate() total laps = %d, want 44", session.TotalLaps)
	}
}

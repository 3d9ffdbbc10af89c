package utils

import "fmt"

// FormatLapTime renders seconds as M:SS.sss.
func FormatLapTime(seconds float64) string {
	minutes := int(seconds) / 60
	rest := seconds - float64(minutes*60)
	return fmt.Sprintf("%d:%06.3f", minutes, rest)
}

// FormatRaceTime renders seconds as H:MM:SS.sss (hours omitted when zero).
func FormatRaceTime(seconds float64) string {
	hours := int(seconds) / 3600
	rest := seconds - float64(hours*3600)
	minutes := int(rest) / 60
	rest -= float64(minutes * 60)
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%06.3f", hours, minutes, rest)
	}
	return fmt.Sprintf("%d:%06.3f", minutes, rest)
}

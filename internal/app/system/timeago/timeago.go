// internal/app/system/timeago/timeago.go
//
// Package timeago renders timestamps as relative strings for project
// listings ("5 minutes ago", "1 day ago"). Durations are rounded to
// the nearest unit, so 90 seconds reads as "2 minutes ago".
package timeago

import (
	"fmt"
	"math"
	"time"
)

// Format returns a relative description of how long ago t was,
// measured against now.
func Format(t, now time.Time) string {
	mins := math.Round(now.Sub(t).Minutes())
	if mins < 1 {
		mins = 1
	}
	if mins < 60 {
		return plural(int64(mins), "minute")
	}

	hours := math.Round(now.Sub(t).Hours())
	if hours < 24 {
		return plural(int64(hours), "hour")
	}

	days := math.Round(now.Sub(t).Hours() / 24)
	return plural(int64(days), "day")
}

// Since is Format against the current wall clock.
func Since(t time.Time) string {
	return Format(t, time.Now().UTC())
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

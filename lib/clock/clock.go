package clock

import (
	"fmt"
	"math"
	"time"
)

const (
	// MaxDays is the longest span Days represents; larger counts saturate.
	// time.Duration tops out near 292 years.
	MaxDays = 100 * 365

	layout = "2006-01-02T15:04:05Z"
	day    = 24 * time.Hour
	// Expired is what Remaining renders once the expiry instant has passed.
	Expired = "expired"
)

func Now() string {
	return Format(time.Now())
}

func Format(t time.Time) string {
	return t.UTC().Format(layout)
}

// IsExpired reports whether t lies strictly before now.
func IsExpired(t, now time.Time) bool {
	return now.After(t)
}

// Days converts a fractional day count to a duration, rounded to the second,
// so that 0.5 days is exactly twelve hours. Counts above MaxDays are capped
// at MaxDays instead of wrapping around.
func Days(days float64) time.Duration {
	if days > MaxDays || math.IsInf(days, 1) {
		days = MaxDays
	}
	return time.Duration(math.Round(days*day.Seconds())) * time.Second
}

// ExpiresAt returns the instant a license activated at `from` stops granting access.
func ExpiresAt(from time.Time, durationDays float64) time.Time {
	return from.Add(Days(durationDays))
}

// Remaining renders time left until expiry using the two coarsest non-empty
// units out of days, hours and minutes. Seconds are truncated.
func Remaining(expiry, now time.Time) string {
	diff := expiry.Sub(now)
	if diff <= 0 {
		return Expired
	}
	days := int64(diff / day)
	hours := int64(diff%day) / int64(time.Hour)
	minutes := int64(diff%time.Hour) / int64(time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

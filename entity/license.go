package entity

import (
	"errors"
	"time"

	"licensedesk/lib/clock"
)

const (
	// UnlimitedExecutions is the MaxExecutions value for a license without an execution cap.
	UnlimitedExecutions = -1
	// MaxDurationDays bounds both license durations and extensions.
	MaxDurationDays = clock.MaxDays
)

var (
	ErrLicenseUsed     = errors.New("license already activated")
	ErrLicenseReset    = errors.New("license has been reset")
	ErrLicenseInactive = errors.New("license not activated")
	ErrLicenseHeld     = errors.New("user already holds an active license")
)

// License is a time-boxed access token.
// Lifecycle: available -> used (activated once, externally) -> reset (terminal).
// IsUsed, ActivatedAt and UsedByTelegramID are set together; a reset keeps them for audit.
type License struct {
	ID               string     `json:"id" bson:"id"`
	LicenseKey       string     `json:"license_key" bson:"license_key"`
	DurationDays     float64    `json:"duration_days" bson:"duration_days"`
	MaxExecutions    int        `json:"max_executions" bson:"max_executions"`
	IsUsed           bool       `json:"is_used" bson:"is_used"`
	IsReset          bool       `json:"is_reset" bson:"is_reset"`
	UsedByTelegramID *int64     `json:"used_by_telegram_id,omitempty" bson:"used_by_telegram_id,omitempty"`
	ActivatedAt      *time.Time `json:"activated_at,omitempty" bson:"activated_at,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at"`
}

func (l *License) Unlimited() bool {
	return l.MaxExecutions == UnlimitedExecutions
}

// Activate binds the license to a user at now and fixes its expiry.
func (l *License) Activate(telegramID int64, now time.Time) error {
	if l.IsReset {
		return ErrLicenseReset
	}
	if l.IsUsed {
		return ErrLicenseUsed
	}
	activated := now
	expires := clock.ExpiresAt(now, l.DurationDays)
	l.IsUsed = true
	l.UsedByTelegramID = &telegramID
	l.ActivatedAt = &activated
	l.ExpiresAt = &expires
	return nil
}

// Extend pushes the expiry of an activated license forward by whole days.
func (l *License) Extend(days int) error {
	if l.IsReset {
		return ErrLicenseReset
	}
	if !l.IsUsed || l.ExpiresAt == nil {
		return ErrLicenseInactive
	}
	expires := l.ExpiresAt.Add(clock.Days(float64(days)))
	l.ExpiresAt = &expires
	return nil
}

// Reset invalidates the license for access; activation history is kept.
func (l *License) Reset() {
	l.IsReset = true
}

// GrantsAccess reports whether the license currently entitles its holder.
func (l *License) GrantsAccess(now time.Time) bool {
	return l.IsUsed && !l.IsReset && l.ExpiresAt != nil && !clock.IsExpired(*l.ExpiresAt, now)
}

// ExecutionsLeft returns remaining runs, or -1 when unlimited.
func (l *License) ExecutionsLeft(used int) int {
	if l.Unlimited() {
		return UnlimitedExecutions
	}
	if used >= l.MaxExecutions {
		return 0
	}
	return l.MaxExecutions - used
}

// Package status derives display states from raw entity fields.
// Every function is pure and takes the evaluation instant explicitly; results
// are meant to be recomputed from the freshest snapshot on every render.
package status

import (
	"strconv"
	"time"

	"licensedesk/entity"
	"licensedesk/lib/clock"
)

type UserStatus string

const (
	UserBanned   UserStatus = "Banned"
	UserLocked   UserStatus = "Locked"
	UserActive   UserStatus = "Active"
	UserInactive UserStatus = "Inactive"
)

type LicenseStatus string

const (
	LicenseReset     LicenseStatus = "Reset"
	LicenseUsed      LicenseStatus = "Used"
	LicenseAvailable LicenseStatus = "Available"
)

type userRule struct {
	status UserStatus
	match  func(u *entity.User, now time.Time) bool
}

// userRules is evaluated top to bottom, first match wins; UserInactive is the fallback.
var userRules = []userRule{
	{UserBanned, func(u *entity.User, _ time.Time) bool { return u.IsBanned }},
	{UserLocked, func(u *entity.User, _ time.Time) bool { return u.IsLocked }},
	{UserActive, func(u *entity.User, now time.Time) bool {
		return u.IsActive && u.LicenseExpires != nil && !clock.IsExpired(*u.LicenseExpires, now)
	}},
}

type licenseRule struct {
	status LicenseStatus
	match  func(l *entity.License) bool
}

var licenseRules = []licenseRule{
	{LicenseReset, func(l *entity.License) bool { return l.IsReset }},
	{LicenseUsed, func(l *entity.License) bool { return l.IsUsed }},
}

func User(u *entity.User, now time.Time) UserStatus {
	for _, r := range userRules {
		if r.match(u, now) {
			return r.status
		}
	}
	return UserInactive
}

func License(l *entity.License) LicenseStatus {
	for _, r := range licenseRules {
		if r.match(l) {
			return r.status
		}
	}
	return LicenseAvailable
}

// UserExpired reports a user whose bound license has run out, regardless of moderation flags.
func UserExpired(u *entity.User, now time.Time) bool {
	return u.LicenseExpires != nil && clock.IsExpired(*u.LicenseExpires, now)
}

// Remaining renders time left on an optional expiry; "N/A" when there is none.
func Remaining(expiry *time.Time, now time.Time) string {
	if expiry == nil {
		return "N/A"
	}
	return clock.Remaining(*expiry, now)
}

// Executions renders a license cap, with -1 shown as infinity.
func Executions(max int) string {
	if max == entity.UnlimitedExecutions {
		return "∞"
	}
	return strconv.Itoa(max)
}

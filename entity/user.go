package entity

import (
	"time"
)

// User is an end user of the bot, created on first contact.
// A user without LicenseKey never carries LicenseExpires.
type User struct {
	ID               string     `json:"id" bson:"id"`
	TelegramID       int64      `json:"telegram_id" bson:"telegram_id"`
	Username         string     `json:"username,omitempty" bson:"username,omitempty"`
	FirstName        string     `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName         string     `json:"last_name,omitempty" bson:"last_name,omitempty"`
	IsActive         bool       `json:"is_active" bson:"is_active"`
	IsBanned         bool       `json:"is_banned" bson:"is_banned"`
	IsLocked         bool       `json:"is_locked" bson:"is_locked"`
	LicenseKey       string     `json:"license_key,omitempty" bson:"license_key,omitempty"`
	LicenseExpires   *time.Time `json:"license_expires,omitempty" bson:"license_expires,omitempty"`
	ScriptExecutions int        `json:"script_executions" bson:"script_executions"`
	Credits          int        `json:"credits" bson:"credits"`
	LastLogin        *time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	LastActivity     *time.Time `json:"last_activity,omitempty" bson:"last_activity,omitempty"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at"`
}

func (u *User) HasLicense() bool {
	return u.LicenseKey != ""
}

// BindLicense attaches an activated license to the user and marks them active.
func (u *User) BindLicense(l *License) {
	u.LicenseKey = l.LicenseKey
	u.LicenseExpires = l.ExpiresAt
	u.IsActive = true
}

// ClearLicense drops the binding and the execution counter.
func (u *User) ClearLicense() {
	u.LicenseKey = ""
	u.LicenseExpires = nil
	u.ScriptExecutions = 0
	u.IsActive = false
}

func (u *User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return "N/A"
}

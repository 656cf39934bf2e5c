package status

import (
	"time"

	"licensedesk/entity"
)

// Counts are the dashboard aggregates. They are plain filters over the
// collections passed in and are never maintained incrementally.
type Counts struct {
	ActiveUsers       int `json:"active_users"`
	ExpiredUsers      int `json:"expired_users"`
	BannedUsers       int `json:"banned_users"`
	LockedUsers       int `json:"locked_users"`
	AvailableLicenses int `json:"available_licenses"`
	OpenTickets       int `json:"open_tickets"`
	AvailableAccounts int `json:"available_accounts"`
}

func Summarize(users []entity.User, licenses []entity.License, tickets []entity.Ticket, accounts []entity.Account, now time.Time) Counts {
	var c Counts
	for i := range users {
		u := &users[i]
		if User(u, now) == UserActive {
			c.ActiveUsers++
		}
		if UserExpired(u, now) {
			c.ExpiredUsers++
		}
		if u.IsBanned {
			c.BannedUsers++
		}
		if u.IsLocked {
			c.LockedUsers++
		}
	}
	for i := range licenses {
		if License(&licenses[i]) == LicenseAvailable {
			c.AvailableLicenses++
		}
	}
	for i := range tickets {
		if tickets[i].IsOpen() {
			c.OpenTickets++
		}
	}
	for i := range accounts {
		if accounts[i].IsAvailable {
			c.AvailableAccounts++
		}
	}
	return c
}

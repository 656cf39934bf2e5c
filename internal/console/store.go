package console

import (
	"sync"
	"time"

	"licensedesk/entity"
	"licensedesk/internal/status"
)

type slot[T any] struct {
	items     []T
	fetchedAt time.Time
}

// Store keeps the latest completed response per collection.
// Each collection is written independently; there is no cross-collection transaction.
type Store struct {
	mu         sync.RWMutex
	users      slot[entity.User]
	licenses   slot[entity.License]
	tickets    slot[entity.Ticket]
	activities slot[entity.ActivityLogEntry]
	executions slot[entity.ExecutionRecord]
	accounts   slot[entity.Account]
}

func NewStore() *Store {
	return &Store{}
}

func put[T any](s *Store, dst *slot[T], items []T, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dst.items = items
	dst.fetchedAt = at
}

func clone[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneUsers(items []entity.User) []entity.User {
	out := clone(items)
	for i := range out {
		out[i].LicenseExpires = clonePtr(out[i].LicenseExpires)
		out[i].LastLogin = clonePtr(out[i].LastLogin)
		out[i].LastActivity = clonePtr(out[i].LastActivity)
	}
	return out
}

func cloneLicenses(items []entity.License) []entity.License {
	out := clone(items)
	for i := range out {
		out[i].UsedByTelegramID = clonePtr(out[i].UsedByTelegramID)
		out[i].ActivatedAt = clonePtr(out[i].ActivatedAt)
		out[i].ExpiresAt = clonePtr(out[i].ExpiresAt)
	}
	return out
}

// Snapshot is a read-only copy of the store at one instant.
type Snapshot struct {
	Users      []entity.User
	Licenses   []entity.License
	Tickets    []entity.Ticket
	Activities []entity.ActivityLogEntry
	Executions []entity.ExecutionRecord
	Accounts   []entity.Account
	FetchedAt  map[Collection]time.Time
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fetched := make(map[Collection]time.Time, len(allCollections))
	mark := func(c Collection, t time.Time) {
		if !t.IsZero() {
			fetched[c] = t
		}
	}
	mark(Users, s.users.fetchedAt)
	mark(Licenses, s.licenses.fetchedAt)
	mark(Tickets, s.tickets.fetchedAt)
	mark(Activities, s.activities.fetchedAt)
	mark(Executions, s.executions.fetchedAt)
	mark(Accounts, s.accounts.fetchedAt)

	return Snapshot{
		Users:      cloneUsers(s.users.items),
		Licenses:   cloneLicenses(s.licenses.items),
		Tickets:    clone(s.tickets.items),
		Activities: clone(s.activities.items),
		Executions: clone(s.executions.items),
		Accounts:   clone(s.accounts.items),
		FetchedAt:  fetched,
	}
}

// Counts derives the dashboard aggregates at now.
func (s Snapshot) Counts(now time.Time) status.Counts {
	return status.Summarize(s.Users, s.Licenses, s.Tickets, s.Accounts, now)
}

func (s Snapshot) User(id string) (*entity.User, bool) {
	for i := range s.Users {
		if s.Users[i].ID == id {
			u := s.Users[i]
			return &u, true
		}
	}
	return nil, false
}

func (s Snapshot) Ticket(id string) (*entity.Ticket, bool) {
	for i := range s.Tickets {
		if s.Tickets[i].ID == id {
			t := s.Tickets[i]
			return &t, true
		}
	}
	return nil, false
}

// Loaded reports whether the collection has had at least one successful fetch.
func (s Snapshot) Loaded(c Collection) bool {
	_, ok := s.FetchedAt[c]
	return ok
}

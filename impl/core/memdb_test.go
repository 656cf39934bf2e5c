package core

import (
	"context"
	"errors"
	"sort"
	"sync"

	"licensedesk/entity"
)

// memDB is an in-memory Database keyed by id.
type memDB struct {
	mu         sync.Mutex
	users      map[string]entity.User
	licenses   map[string]entity.License
	tickets    map[string]entity.Ticket
	activities []entity.ActivityLogEntry
	executions []entity.ExecutionRecord
	accounts   []entity.Account
	failWrites error
}

var _ Database = (*memDB)(nil)

func newMemDB() *memDB {
	return &memDB{
		users:    make(map[string]entity.User),
		licenses: make(map[string]entity.License),
		tickets:  make(map[string]entity.Ticket),
	}
}

func (m *memDB) ListUsers(_ context.Context) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]entity.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *memDB) GetUser(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memDB) GetUserByTelegramId(_ context.Context, telegramId int64) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.TelegramID == telegramId {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memDB) SaveUser(_ context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memDB) DeleteUser(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[id]
	delete(m.users, id)
	return ok, nil
}

func (m *memDB) IncCredits(_ context.Context, id string, delta int) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.Credits+delta < 0 {
		return nil, nil
	}
	u.Credits += delta
	m.users[id] = u
	return &u, nil
}

func (m *memDB) ListLicenses(_ context.Context) ([]entity.License, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	licenses := make([]entity.License, 0, len(m.licenses))
	for _, l := range m.licenses {
		licenses = append(licenses, l)
	}
	return licenses, nil
}

func (m *memDB) GetLicenseByKey(_ context.Context, key string) (*entity.License, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.licenses {
		if l.LicenseKey == key {
			return &l, nil
		}
	}
	return nil, nil
}

func (m *memDB) InsertLicenses(_ context.Context, licenses []entity.License) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	for _, l := range licenses {
		m.licenses[l.ID] = l
	}
	return nil
}

func (m *memDB) SaveLicense(_ context.Context, license *entity.License) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	m.licenses[license.ID] = *license
	return nil
}

func (m *memDB) ListTickets(_ context.Context) ([]entity.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tickets := make([]entity.Ticket, 0, len(m.tickets))
	for _, t := range m.tickets {
		tickets = append(tickets, t)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].CreatedAt.After(tickets[j].CreatedAt) })
	return tickets, nil
}

func (m *memDB) GetTicket(_ context.Context, id string) (*entity.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *memDB) SaveTicket(_ context.Context, ticket *entity.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets[ticket.ID] = *ticket
	return nil
}

func (m *memDB) DeleteTicket(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tickets[id]
	delete(m.tickets, id)
	return ok, nil
}

func (m *memDB) ListActivities(_ context.Context, limit int) ([]entity.ActivityLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.ActivityLogEntry, 0, len(m.activities))
	for i := len(m.activities) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.activities[i])
	}
	return out, nil
}

func (m *memDB) AddActivity(_ context.Context, entry *entity.ActivityLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activities = append(m.activities, *entry)
	return nil
}

func (m *memDB) ListExecutions(_ context.Context) ([]entity.ExecutionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.ExecutionRecord{}, m.executions...), nil
}

func (m *memDB) ClearLogs(_ context.Context, kind entity.LogKind) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int
	switch kind {
	case entity.LogActivities:
		n = len(m.activities)
		m.activities = nil
	case entity.LogExecutions:
		n = len(m.executions)
		m.executions = nil
	default:
		return 0, errors.New("unknown log")
	}
	return int64(n), nil
}

func (m *memDB) ListAccounts(_ context.Context) ([]entity.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.Account{}, m.accounts...), nil
}

func (m *memDB) SaveAccount(_ context.Context, account *entity.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = append(m.accounts, *account)
	return nil
}

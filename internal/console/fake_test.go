package console

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"

	"licensedesk/entity"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockAPI serves reads from in-memory lists and records writes through mock.Mock.
type MockAPI struct {
	mock.Mock

	mu         sync.Mutex
	users      []entity.User
	licenses   []entity.License
	tickets    []entity.Ticket
	activities []entity.ActivityLogEntry
	executions []entity.ExecutionRecord
	accounts   []entity.Account
	failures   map[Collection]error
	reads      map[Collection]int
	// gate, when set, blocks reads of that collection until it is closed
	gate map[Collection]chan struct{}
}

var _ API = (*MockAPI)(nil)

func newMockAPI() *MockAPI {
	return &MockAPI{
		failures: make(map[Collection]error),
		reads:    make(map[Collection]int),
		gate:     make(map[Collection]chan struct{}),
	}
}

func (m *MockAPI) setUsers(users ...entity.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = users
}

func (m *MockAPI) setLicenses(licenses ...entity.License) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.licenses = licenses
}

func (m *MockAPI) setTickets(tickets ...entity.Ticket) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets = tickets
}

func (m *MockAPI) fail(c Collection, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, c)
		return
	}
	m.failures[c] = err
}

func (m *MockAPI) block(c Collection) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan struct{})
	m.gate[c] = ch
	return ch
}

func (m *MockAPI) readCount(c Collection) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[c]
}

// unblock lets later reads through while reads already waiting on the gate stay held.
func (m *MockAPI) unblock(c Collection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.gate, c)
}

// read answers with the list as it was when the request arrived.
func read[T any](m *MockAPI, c Collection, items *[]T) ([]T, error) {
	m.mu.Lock()
	m.reads[c]++
	gate := m.gate[c]
	answer := clone(*items)
	m.mu.Unlock()
	if gate != nil {
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures[c]; err != nil {
		return nil, err
	}
	return answer, nil
}

func (m *MockAPI) Users(_ context.Context) ([]entity.User, error) {
	return read(m, Users, &m.users)
}

func (m *MockAPI) Licenses(_ context.Context) ([]entity.License, error) {
	return read(m, Licenses, &m.licenses)
}

func (m *MockAPI) Tickets(_ context.Context) ([]entity.Ticket, error) {
	return read(m, Tickets, &m.tickets)
}

func (m *MockAPI) Activities(_ context.Context) ([]entity.ActivityLogEntry, error) {
	return read(m, Activities, &m.activities)
}

func (m *MockAPI) Executions(_ context.Context) ([]entity.ExecutionRecord, error) {
	return read(m, Executions, &m.executions)
}

func (m *MockAPI) Accounts(_ context.Context) ([]entity.Account, error) {
	return read(m, Accounts, &m.accounts)
}

func (m *MockAPI) CreateLicenses(ctx context.Context, req entity.CreateLicensesRequest) ([]entity.License, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.License), args.Error(1)
}

func (m *MockAPI) UserAction(ctx context.Context, req entity.UserActionRequest) (*entity.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAPI) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) RespondTicket(ctx context.Context, id, text string) (*entity.Ticket, error) {
	args := m.Called(ctx, id, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Ticket), args.Error(1)
}

func (m *MockAPI) DeleteTicket(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) ClearLogs(ctx context.Context, kind entity.LogKind) error {
	return m.Called(ctx, kind).Error(0)
}

func (m *MockAPI) AddCredits(ctx context.Context, req entity.AddCreditsRequest) (*entity.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAPI) SendMessage(ctx context.Context, telegramID int64, text string) error {
	return m.Called(ctx, telegramID, text).Error(0)
}

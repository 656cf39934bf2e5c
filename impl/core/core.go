package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"licensedesk/entity"
	"licensedesk/lib/sl"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("service unavailable")
)

// activityLimit caps the activity feed, newest first.
const activityLimit = 100

// Database is the persistence the core works on. Single-document getters
// return nil without error when nothing matches.
type Database interface {
	ListUsers(ctx context.Context) ([]entity.User, error)
	GetUser(ctx context.Context, id string) (*entity.User, error)
	GetUserByTelegramId(ctx context.Context, telegramId int64) (*entity.User, error)
	SaveUser(ctx context.Context, user *entity.User) error
	DeleteUser(ctx context.Context, id string) (bool, error)
	// IncCredits adds delta unless the balance would drop below zero; nil user means it was refused or not found
	IncCredits(ctx context.Context, id string, delta int) (*entity.User, error)

	ListLicenses(ctx context.Context) ([]entity.License, error)
	GetLicenseByKey(ctx context.Context, key string) (*entity.License, error)
	InsertLicenses(ctx context.Context, licenses []entity.License) error
	SaveLicense(ctx context.Context, license *entity.License) error

	ListTickets(ctx context.Context) ([]entity.Ticket, error)
	GetTicket(ctx context.Context, id string) (*entity.Ticket, error)
	SaveTicket(ctx context.Context, ticket *entity.Ticket) error
	DeleteTicket(ctx context.Context, id string) (bool, error)

	ListActivities(ctx context.Context, limit int) ([]entity.ActivityLogEntry, error)
	AddActivity(ctx context.Context, entry *entity.ActivityLogEntry) error
	ListExecutions(ctx context.Context) ([]entity.ExecutionRecord, error)
	ClearLogs(ctx context.Context, kind entity.LogKind) (int64, error)

	ListAccounts(ctx context.Context) ([]entity.Account, error)
	SaveAccount(ctx context.Context, account *entity.Account) error
}

// Messenger delivers plain text to a Telegram chat.
type Messenger interface {
	SendMessage(chatId int64, text string) error
}

type AuthService interface {
	OperatorByToken(token string) (*entity.Operator, error)
}

type Core struct {
	db   Database
	msg  Messenger
	auth AuthService
	log  *slog.Logger
	now  func() time.Time
}

func New(db Database, log *slog.Logger) *Core {
	return &Core{
		db:  db,
		log: log.With(sl.Module("core")),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (c *Core) SetMessenger(msg Messenger) {
	c.msg = msg
}

func (c *Core) SetAuthService(auth AuthService) {
	c.auth = auth
}

func (c *Core) AuthenticateByToken(token string) (*entity.Operator, error) {
	if c.auth == nil {
		return nil, fmt.Errorf("auth service not connected")
	}
	return c.auth.OperatorByToken(token)
}

func (c *Core) ready() error {
	if c.db == nil {
		return fmt.Errorf("database not connected: %w", ErrUnavailable)
	}
	return nil
}

func (c *Core) Users(ctx context.Context) ([]entity.User, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.db.ListUsers(ctx)
}

func (c *Core) Licenses(ctx context.Context) ([]entity.License, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.db.ListLicenses(ctx)
}

func (c *Core) Tickets(ctx context.Context) ([]entity.Ticket, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.db.ListTickets(ctx)
}

func (c *Core) Activities(ctx context.Context) ([]entity.ActivityLogEntry, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.db.ListActivities(ctx, activityLimit)
}

func (c *Core) Executions(ctx context.Context) ([]entity.ExecutionRecord, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.db.ListExecutions(ctx)
}

func (c *Core) Accounts(ctx context.Context) ([]entity.Account, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.db.ListAccounts(ctx)
}

func (c *Core) ClearLogs(ctx context.Context, kind entity.LogKind) (int64, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("log type %q: %w", kind, ErrInvalidInput)
	}
	if err := c.ready(); err != nil {
		return 0, err
	}
	n, err := c.db.ClearLogs(ctx, kind)
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", kind, err)
	}
	c.log.With(slog.String("kind", string(kind)), slog.Int64("deleted", n)).Info("logs cleared")
	return n, nil
}

// SendMessage pushes an operator message to a user chat.
func (c *Core) SendMessage(_ context.Context, telegramId int64, text string) error {
	if text == "" {
		return fmt.Errorf("message text: %w", ErrInvalidInput)
	}
	if c.msg == nil {
		return fmt.Errorf("telegram bot not configured: %w", ErrUnavailable)
	}
	if err := c.msg.SendMessage(telegramId, text); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	c.log.With(slog.Int64("telegram_id", telegramId)).Info("message sent")
	return nil
}

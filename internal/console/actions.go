package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"licensedesk/entity"
	"licensedesk/lib/sl"
)

var (
	// ErrValidation marks input rejected before any request was sent.
	ErrValidation = errors.New("invalid input")
	// ErrCancelled is returned when the operator declines a confirmation.
	ErrCancelled = errors.New("cancelled by operator")
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// API is the full backend surface used by the console.
type API interface {
	Reader
	CreateLicenses(ctx context.Context, req entity.CreateLicensesRequest) ([]entity.License, error)
	UserAction(ctx context.Context, req entity.UserActionRequest) (*entity.User, error)
	DeleteUser(ctx context.Context, id string) error
	RespondTicket(ctx context.Context, id, text string) (*entity.Ticket, error)
	DeleteTicket(ctx context.Context, id string) error
	ClearLogs(ctx context.Context, kind entity.LogKind) error
	AddCredits(ctx context.Context, req entity.AddCreditsRequest) (*entity.User, error)
	SendMessage(ctx context.Context, telegramID int64, text string) error
}

// Confirmer asks the operator to approve an irreversible action.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Console runs admin actions as fire-and-refetch: validate locally, send one
// request, and on success reload the affected collections. Nothing is patched
// locally, and a failed request leaves the snapshot as it was.
type Console struct {
	api     API
	poller  *Poller
	store   *Store
	confirm Confirmer
	log     *slog.Logger
}

func New(api API, poller *Poller, store *Store, confirm Confirmer, log *slog.Logger) *Console {
	if confirm == nil {
		confirm = ConfirmFunc(func(string) bool { return false })
	}
	return &Console{
		api:     api,
		poller:  poller,
		store:   store,
		confirm: confirm,
		log:     log.With(sl.Module("console.actions")),
	}
}

func (c *Console) Snapshot() Snapshot {
	return c.store.Snapshot()
}

// LicensePresets are the quick-create durations in days.
var LicensePresets = map[string]float64{
	"day":     1,
	"week":    7,
	"month":   30,
	"quarter": 90,
	"year":    365,
}

// ParseLicenseInput validates raw operator input for CreateLicenses.
// An empty maxExecutions means unlimited.
func ParseLicenseInput(durationDays, quantity, maxExecutions string) (entity.CreateLicensesRequest, error) {
	req := entity.CreateLicensesRequest{MaxExecutions: entity.UnlimitedExecutions}

	days, err := strconv.ParseFloat(strings.TrimSpace(durationDays), 64)
	if err != nil {
		return req, invalid("duration %q is not a number", durationDays)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(quantity))
	if err != nil {
		return req, invalid("quantity %q is not a number", quantity)
	}
	if s := strings.TrimSpace(maxExecutions); s != "" {
		maxExec, err := strconv.Atoi(s)
		if err != nil {
			return req, invalid("max executions %q is not a number", maxExecutions)
		}
		req.MaxExecutions = maxExec
	}
	req.DurationDays = days
	req.Quantity = qty
	return req, nil
}

func (c *Console) CreateLicenses(ctx context.Context, durationDays float64, quantity, maxExecutions int) ([]entity.License, error) {
	if !(durationDays > 0) {
		return nil, invalid("duration must be greater than zero")
	}
	if durationDays > entity.MaxDurationDays {
		return nil, invalid("duration must be at most %d days", entity.MaxDurationDays)
	}
	if quantity < 1 {
		return nil, invalid("quantity must be at least 1")
	}
	if maxExecutions < entity.UnlimitedExecutions {
		return nil, invalid("max executions must be -1 (unlimited) or more")
	}
	created, err := c.api.CreateLicenses(ctx, entity.CreateLicensesRequest{
		DurationDays:  durationDays,
		Quantity:      quantity,
		MaxExecutions: maxExecutions,
	})
	if err != nil {
		c.log.Error("create licenses", sl.Err(err))
		return nil, err
	}
	c.log.With(
		slog.Int("quantity", len(created)),
		slog.Float64("duration_days", durationDays),
	).Info("licenses created")
	c.refresh(ctx, Licenses)
	return created, nil
}

// PerformUserAction runs a moderation or license action; value is the raw day
// count for extend_license and is ignored otherwise.
func (c *Console) PerformUserAction(ctx context.Context, userID string, action entity.UserAction, value string) error {
	if userID == "" {
		return invalid("user id is required")
	}
	if !action.Valid() {
		return invalid("unknown action %q", action)
	}

	req := entity.UserActionRequest{UserID: userID, Action: action}
	if action.TouchesLicense() {
		user, ok := c.store.Snapshot().User(userID)
		if !ok {
			return invalid("user %s is not in the current snapshot", userID)
		}
		if !user.HasLicense() {
			return invalid("user %s has no license", userID)
		}
	}
	switch action {
	case entity.ActionExtendLicense:
		days, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || days <= 0 {
			return invalid("extension %q is not a positive number of days", value)
		}
		if days > entity.MaxDurationDays {
			return invalid("extension must be at most %d days", entity.MaxDurationDays)
		}
		req.Value = &days
	case entity.ActionResetLicense:
		if !c.confirm.Confirm(fmt.Sprintf("Reset license of user %s?", userID)) {
			return ErrCancelled
		}
	}

	if _, err := c.api.UserAction(ctx, req); err != nil {
		c.log.With(slog.String("user_id", userID), slog.String("action", string(action))).Error("user action", sl.Err(err))
		return err
	}
	c.log.With(slog.String("user_id", userID), slog.String("action", string(action))).Info("user action done")

	if action.TouchesLicense() {
		c.refresh(ctx, Users, Licenses)
	} else {
		c.refresh(ctx, Users)
	}
	return nil
}

func (c *Console) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return invalid("user id is required")
	}
	if !c.confirm.Confirm(fmt.Sprintf("Delete user %s permanently?", userID)) {
		return ErrCancelled
	}
	if err := c.api.DeleteUser(ctx, userID); err != nil {
		c.log.With(slog.String("user_id", userID)).Error("delete user", sl.Err(err))
		return err
	}
	c.log.With(slog.String("user_id", userID)).Info("user deleted")
	c.refresh(ctx, Users, Licenses)
	return nil
}

func (c *Console) RespondToTicket(ctx context.Context, ticketID, text string) error {
	if ticketID == "" {
		return invalid("ticket id is required")
	}
	if strings.TrimSpace(text) == "" {
		return invalid("response text is empty")
	}
	if _, err := c.api.RespondTicket(ctx, ticketID, text); err != nil {
		c.log.With(slog.String("ticket_id", ticketID)).Error("respond ticket", sl.Err(err))
		return err
	}
	c.log.With(slog.String("ticket_id", ticketID)).Info("ticket answered")
	c.refresh(ctx, Tickets)
	return nil
}

func (c *Console) DeleteTicket(ctx context.Context, ticketID string) error {
	if ticketID == "" {
		return invalid("ticket id is required")
	}
	if !c.confirm.Confirm(fmt.Sprintf("Delete ticket %s?", ticketID)) {
		return ErrCancelled
	}
	if err := c.api.DeleteTicket(ctx, ticketID); err != nil {
		c.log.With(slog.String("ticket_id", ticketID)).Error("delete ticket", sl.Err(err))
		return err
	}
	c.log.With(slog.String("ticket_id", ticketID)).Info("ticket deleted")
	c.refresh(ctx, Tickets)
	return nil
}

func (c *Console) ClearLogs(ctx context.Context, kind entity.LogKind) error {
	if !kind.Valid() {
		return invalid("unknown log %q", kind)
	}
	if !c.confirm.Confirm(fmt.Sprintf("Clear all %s?", kind)) {
		return ErrCancelled
	}
	if err := c.api.ClearLogs(ctx, kind); err != nil {
		c.log.With(slog.String("kind", string(kind))).Error("clear logs", sl.Err(err))
		return err
	}
	c.log.With(slog.String("kind", string(kind))).Info("logs cleared")
	c.refresh(ctx, logCollection(kind))
	return nil
}

func (c *Console) AddCredits(ctx context.Context, userID, amount string) error {
	if userID == "" {
		return invalid("user id is required")
	}
	credits, err := strconv.Atoi(strings.TrimSpace(amount))
	if err != nil {
		return invalid("credits %q is not a number", amount)
	}
	if _, err = c.api.AddCredits(ctx, entity.AddCreditsRequest{UserID: userID, CreditsToAdd: credits}); err != nil {
		c.log.With(slog.String("user_id", userID)).Error("add credits", sl.Err(err))
		return err
	}
	c.log.With(slog.String("user_id", userID), slog.Int("credits", credits)).Info("credits added")
	c.refresh(ctx, Users)
	return nil
}

// SendMessage notifies a user through the bot. Nothing local changes, so nothing is refetched.
func (c *Console) SendMessage(ctx context.Context, telegramID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return invalid("message text is empty")
	}
	if err := c.api.SendMessage(ctx, telegramID, text); err != nil {
		c.log.With(slog.Int64("telegram_id", telegramID)).Error("send message", sl.Err(err))
		return err
	}
	return nil
}

// refresh reloads after a successful action. A failed reload is a transport
// failure: it is logged and the previous snapshot stays.
func (c *Console) refresh(ctx context.Context, cols ...Collection) {
	if c.poller == nil {
		return
	}
	if err := c.poller.Refresh(ctx, cols...); err != nil {
		c.log.Warn("refresh after action", sl.Err(err))
	}
}

package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"licensedesk/entity"
	"licensedesk/lib/clock"
	"licensedesk/lib/sl"
)

func (c *Core) getUser(ctx context.Context, id string) (*entity.User, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	user, err := c.db.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return user, nil
}

// boundLicense returns the license record behind the user's key, or nil when it is gone.
func (c *Core) boundLicense(ctx context.Context, user *entity.User) (*entity.License, error) {
	license, err := c.db.GetLicenseByKey(ctx, user.LicenseKey)
	if err != nil {
		return nil, fmt.Errorf("get license: %w", err)
	}
	return license, nil
}

// UserAction applies a moderation or license action and returns the stored user.
// License writes go first; there is no transaction spanning both documents.
func (c *Core) UserAction(ctx context.Context, req *entity.UserActionRequest) (*entity.User, error) {
	if !req.Action.Valid() {
		return nil, fmt.Errorf("action %q: %w", req.Action, ErrInvalidInput)
	}
	user, err := c.getUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	log := c.log.With(slog.String("user_id", user.ID), slog.String("action", string(req.Action)))

	switch req.Action {
	case entity.ActionBan:
		user.IsBanned = true
	case entity.ActionUnban:
		user.IsBanned = false
	case entity.ActionLock:
		user.IsLocked = true
	case entity.ActionUnlock:
		user.IsLocked = false
	case entity.ActionExtendLicense:
		if err = c.extendLicense(ctx, user, req.Value); err != nil {
			return nil, err
		}
	case entity.ActionResetLicense:
		if err = c.resetLicense(ctx, user); err != nil {
			return nil, err
		}
	}

	if err = c.db.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	log.Info("user action applied")
	return user, nil
}

func (c *Core) extendLicense(ctx context.Context, user *entity.User, value *int) error {
	if value == nil || *value <= 0 || *value > entity.MaxDurationDays {
		return fmt.Errorf("extension must be 1..%d days: %w", entity.MaxDurationDays, ErrInvalidInput)
	}
	if !user.HasLicense() {
		return fmt.Errorf("user has no license: %w", ErrConflict)
	}
	days := *value

	license, err := c.boundLicense(ctx, user)
	if err != nil {
		return err
	}
	if license != nil {
		if err = license.Extend(days); err != nil {
			return fmt.Errorf("%v: %w", err, ErrConflict)
		}
		if err = c.db.SaveLicense(ctx, license); err != nil {
			return fmt.Errorf("save license: %w", err)
		}
	} else {
		c.log.With(sl.Secret("key", user.LicenseKey)).Warn("bound license record missing, extending user only")
	}

	base := c.now()
	if user.LicenseExpires != nil {
		base = *user.LicenseExpires
	}
	expires := base.Add(clock.Days(float64(days)))
	user.LicenseExpires = &expires
	return nil
}

func (c *Core) resetLicense(ctx context.Context, user *entity.User) error {
	if !user.HasLicense() {
		return fmt.Errorf("user has no license: %w", ErrConflict)
	}
	license, err := c.boundLicense(ctx, user)
	if err != nil {
		return err
	}
	if license != nil {
		license.Reset()
		if err = c.db.SaveLicense(ctx, license); err != nil {
			return fmt.Errorf("save license: %w", err)
		}
	}
	user.ClearLicense()
	return nil
}

// DeleteUser removes the user; a bound license is reset first so the key cannot be reused.
func (c *Core) DeleteUser(ctx context.Context, id string) error {
	user, err := c.getUser(ctx, id)
	if err != nil {
		return err
	}
	if user.HasLicense() {
		license, err := c.boundLicense(ctx, user)
		if err != nil {
			return err
		}
		if license != nil && !license.IsReset {
			license.Reset()
			if err = c.db.SaveLicense(ctx, license); err != nil {
				return fmt.Errorf("save license: %w", err)
			}
		}
	}
	ok, err := c.db.DeleteUser(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !ok {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	c.log.With(slog.String("user_id", id)).Info("user deleted")
	return nil
}

// AddCredits adjusts the balance by a signed amount; the result never goes below zero.
func (c *Core) AddCredits(ctx context.Context, req *entity.AddCreditsRequest) (*entity.User, error) {
	user, err := c.getUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user.Credits+req.CreditsToAdd < 0 {
		return nil, fmt.Errorf("balance %d cannot go below zero: %w", user.Credits, ErrInvalidInput)
	}
	updated, err := c.db.IncCredits(ctx, req.UserID, req.CreditsToAdd)
	if err != nil {
		return nil, fmt.Errorf("add credits: %w", err)
	}
	if updated == nil {
		// balance changed between the read and the update
		return nil, fmt.Errorf("balance cannot go below zero: %w", ErrConflict)
	}
	c.log.With(
		slog.String("user_id", req.UserID),
		slog.Int("delta", req.CreditsToAdd),
		slog.Int("credits", updated.Credits),
	).Info("credits added")
	return updated, nil
}

// RegisterUser returns the user for a chat, creating it on first contact.
func (c *Core) RegisterUser(ctx context.Context, telegramId int64, username, firstName, lastName string) (*entity.User, bool, error) {
	if err := c.ready(); err != nil {
		return nil, false, err
	}
	user, err := c.db.GetUserByTelegramId(ctx, telegramId)
	if err != nil {
		return nil, false, fmt.Errorf("get user: %w", err)
	}

	now := c.now()
	created := false
	if user == nil {
		user = &entity.User{
			ID:         uuid.NewString(),
			TelegramID: telegramId,
			Username:   username,
			FirstName:  firstName,
			LastName:   lastName,
			CreatedAt:  now,
		}
		created = true
	}
	user.LastActivity = &now
	if err = c.db.SaveUser(ctx, user); err != nil {
		return nil, false, fmt.Errorf("save user: %w", err)
	}

	if created {
		c.log.With(slog.Int64("telegram_id", telegramId), slog.String("username", username)).Info("user registered")
		c.logActivity(ctx, user, "start", "User registered")
	}
	return user, created, nil
}

// UserStatus registers the chat if needed and returns the user with the
// license record behind its key; the license is nil when none is bound.
func (c *Core) UserStatus(ctx context.Context, telegramId int64, username, firstName, lastName string) (*entity.User, *entity.License, error) {
	user, _, err := c.RegisterUser(ctx, telegramId, username, firstName, lastName)
	if err != nil {
		return nil, nil, err
	}
	var license *entity.License
	if user.HasLicense() {
		if license, err = c.boundLicense(ctx, user); err != nil {
			return nil, nil, err
		}
	}
	c.logActivity(ctx, user, "status", "Status requested")
	return user, license, nil
}

// RecordCommand adds a bot command to the activity log.
func (c *Core) RecordCommand(ctx context.Context, telegramId int64, username, command string) {
	if c.ready() != nil {
		return
	}
	c.logActivity(ctx, &entity.User{TelegramID: telegramId, Username: username}, command, "Command /"+command)
}

// logActivity appends to the activity log; a failure is logged and otherwise ignored.
func (c *Core) logActivity(ctx context.Context, user *entity.User, action, message string) {
	entry := &entity.ActivityLogEntry{
		ID:         uuid.NewString(),
		TelegramID: user.TelegramID,
		Username:   user.Username,
		Action:     action,
		Message:    message,
		Timestamp:  c.now(),
	}
	if err := c.db.AddActivity(ctx, entry); err != nil {
		c.log.With(slog.String("action", action)).Warn("activity log", sl.Err(err))
	}
}

func (c *Core) CreateAccount(ctx context.Context, req *entity.AccountCreate) (*entity.Account, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	account := &entity.Account{
		ID:             uuid.NewString(),
		Type:           req.Type,
		Username:       req.Username,
		Password:       req.Password,
		Email:          req.Email,
		AdditionalInfo: req.AdditionalInfo,
		IsAvailable:    true,
		CreatedAt:      c.now(),
	}
	if err := c.db.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}
	c.log.With(slog.String("type", account.Type)).Info("account added")
	return account, nil
}

package core

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"licensedesk/entity"
	"licensedesk/lib/sl"
)

const maxBatch = 100

// newLicenseKey formats a random uuid as four groups of eight upper-case hex digits.
func newLicenseKey() string {
	id := uuid.New()
	raw := strings.ToUpper(hex.EncodeToString(id[:]))
	return raw[0:8] + "-" + raw[8:16] + "-" + raw[16:24] + "-" + raw[24:32]
}

// CreateLicenses issues a batch of available licenses in one insert.
func (c *Core) CreateLicenses(ctx context.Context, req *entity.CreateLicensesRequest) ([]entity.License, error) {
	if !(req.DurationDays > 0) || req.DurationDays > entity.MaxDurationDays {
		return nil, fmt.Errorf("duration_days must be in (0, %d]: %w", entity.MaxDurationDays, ErrInvalidInput)
	}
	if req.Quantity < 1 || req.Quantity > maxBatch {
		return nil, fmt.Errorf("quantity must be 1..%d: %w", maxBatch, ErrInvalidInput)
	}
	if req.MaxExecutions < entity.UnlimitedExecutions {
		return nil, fmt.Errorf("max_executions must be -1 or more: %w", ErrInvalidInput)
	}
	if err := c.ready(); err != nil {
		return nil, err
	}

	now := c.now()
	licenses := make([]entity.License, req.Quantity)
	for i := range licenses {
		licenses[i] = entity.License{
			ID:            uuid.NewString(),
			LicenseKey:    newLicenseKey(),
			DurationDays:  req.DurationDays,
			MaxExecutions: req.MaxExecutions,
			CreatedAt:     now,
		}
	}
	if err := c.db.InsertLicenses(ctx, licenses); err != nil {
		return nil, fmt.Errorf("insert licenses: %w", err)
	}

	c.log.With(
		slog.Int("quantity", req.Quantity),
		slog.Float64("duration_days", req.DurationDays),
		slog.Int("max_executions", req.MaxExecutions),
	).Info("licenses created")
	return licenses, nil
}

// ActivateLicense binds an available license to the user with the telegram id.
func (c *Core) ActivateLicense(ctx context.Context, telegramId int64, key string) (*entity.User, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if key == "" {
		return nil, fmt.Errorf("license key: %w", ErrInvalidInput)
	}
	if err := c.ready(); err != nil {
		return nil, err
	}
	log := c.log.With(slog.Int64("telegram_id", telegramId), sl.Secret("key", key))

	user, err := c.db.GetUserByTelegramId(ctx, telegramId)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", telegramId, ErrNotFound)
	}
	if user.IsBanned {
		return nil, fmt.Errorf("user is banned: %w", ErrConflict)
	}
	now := c.now()
	if user.HasLicense() {
		current, err := c.boundLicense(ctx, user)
		if err != nil {
			return nil, err
		}
		if current != nil && current.GrantsAccess(now) {
			return nil, fmt.Errorf("%w: %w", entity.ErrLicenseHeld, ErrConflict)
		}
	}
	license, err := c.db.GetLicenseByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get license: %w", err)
	}
	if license == nil {
		return nil, fmt.Errorf("license: %w", ErrNotFound)
	}

	if err = license.Activate(telegramId, now); err != nil {
		return nil, fmt.Errorf("%w: %w", err, ErrConflict)
	}
	if err = c.db.SaveLicense(ctx, license); err != nil {
		return nil, fmt.Errorf("save license: %w", err)
	}
	user.BindLicense(license)
	if err = c.db.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	log.Info("license activated")
	c.logActivity(ctx, user, "activate", "License activated")
	return user, nil
}

package bot

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"licensedesk/entity"
	"licensedesk/impl/core"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "plain text", Sanitize("plain text"))
	assert.Equal(t, "a\\.b\\-c\\!", Sanitize("a.b-c!"))
	assert.Equal(t, "\\_x\\_ \\*y\\* \\(z\\)", Sanitize("_x_ *y* (z)"))
	assert.Equal(t, "\\\\", Sanitize("\\"))
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	parts := splitMessage("line one\nline two\nline three", 12)
	assert.Equal(t, []string{"line one\n", "line two\n", "line three"}, parts)

	long := strings.Repeat("x", 25)
	parts = splitMessage(long, 10)
	assert.Len(t, parts, 3)
	assert.Equal(t, long, strings.Join(parts, ""))
}

func TestWelcomeText(t *testing.T) {
	user := &entity.User{TelegramID: 1, Username: "john_doe", FirstName: "John"}
	assert.Contains(t, welcomeText(user, true), "Welcome, John\\!")

	user.FirstName = ""
	assert.Contains(t, welcomeText(user, false), "@john\\_doe")
	assert.Contains(t, welcomeText(user, false), "no license yet")

	user.LicenseKey = "ABCD"
	assert.Contains(t, welcomeText(user, false), "/status")
}

func TestActivationFailureText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", fmt.Errorf("license: %w", core.ErrNotFound), "not found"},
		{"used", fmt.Errorf("%w: %w", entity.ErrLicenseUsed, core.ErrConflict), "already been used"},
		{"reset", fmt.Errorf("%w: %w", entity.ErrLicenseReset, core.ErrConflict), "no longer valid"},
		{"held", fmt.Errorf("%w: %w", entity.ErrLicenseHeld, core.ErrConflict), "already have an active license"},
		{"banned", fmt.Errorf("user is banned: %w", core.ErrConflict), "cannot activate"},
		{"empty key", fmt.Errorf("license key: %w", core.ErrInvalidInput), "Usage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, ok := activationFailureText(tt.err)
			assert.True(t, ok)
			assert.Contains(t, text, tt.want)
		})
	}

	_, ok := activationFailureText(fmt.Errorf("save user: %w", core.ErrUnavailable))
	assert.False(t, ok)
}

func TestStatusText(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	user := &entity.User{TelegramID: 1}
	text := statusText(user, nil, now)
	assert.Contains(t, text, "*Inactive*")
	assert.Contains(t, text, "No license")

	expires := now.Add(3*24*time.Hour + 5*time.Hour)
	user = &entity.User{
		TelegramID:       1,
		IsActive:         true,
		LicenseKey:       "AAAA-BBBB",
		LicenseExpires:   &expires,
		ScriptExecutions: 4,
		Credits:          10,
	}
	text = statusText(user, nil, now)
	assert.Contains(t, text, "*Active*")
	assert.Contains(t, text, "`AAAA\\-BBBB`")
	assert.Contains(t, text, "2024\\-06\\-04 17:00")
	assert.Contains(t, text, "3d 5h")
	assert.Contains(t, text, "Script runs: 4")
	assert.Contains(t, text, "Credits: 10")

	user.IsBanned = true
	assert.Contains(t, statusText(user, nil, now), "*Banned*")
}

func TestStatusTextExecutions(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(24 * time.Hour)
	user := &entity.User{TelegramID: 1, IsActive: true, LicenseKey: "K1", LicenseExpires: &expires, ScriptExecutions: 4}

	capped := &entity.License{LicenseKey: "K1", MaxExecutions: 10}
	assert.Contains(t, statusText(user, capped, now), "Script runs: 4 / 10 \\(6 left\\)")

	user.ScriptExecutions = 12
	assert.Contains(t, statusText(user, capped, now), "Script runs: 12 / 10 \\(0 left\\)")

	unlimited := &entity.License{LicenseKey: "K1", MaxExecutions: entity.UnlimitedExecutions}
	assert.Contains(t, statusText(user, unlimited, now), "Script runs: 12 / ∞")
}

func TestActivatedText(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(90 * time.Minute)
	text := activatedText(&entity.User{LicenseExpires: &expires}, now)
	assert.Contains(t, text, "License activated")
	assert.Contains(t, text, "1h 30m")
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"

	"licensedesk/entity"
	"licensedesk/impl/core"
	"licensedesk/internal/status"
)

const helpText = "Available commands:\n" +
	"/start \\- register with the bot\n" +
	"/activate `KEY` \\- activate a license key\n" +
	"/status \\- show your license\n" +
	"/help \\- this message"

func (t *TgBot) start(_ *tgbotapi.Bot, ctx *ext.Context) error {
	if t.core == nil {
		return nil
	}
	sender := ctx.EffectiveUser
	c, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	user, created, err := t.core.RegisterUser(c, sender.Id, sender.Username, sender.FirstName, sender.LastName)
	if err != nil {
		t.reportError(sender.Id, "/start", err)
		return nil
	}
	t.plainResponse(sender.Id, welcomeText(user, created))
	return nil
}

func (t *TgBot) activate(_ *tgbotapi.Bot, ctx *ext.Context) error {
	if t.core == nil {
		return nil
	}
	chatId := ctx.EffectiveUser.Id
	args := strings.Fields(ctx.EffectiveMessage.Text)
	if len(args) < 2 {
		t.plainResponse(chatId, "Usage: /activate `KEY`")
		return nil
	}

	c, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	user, err := t.core.ActivateLicense(c, chatId, args[1])
	if err != nil {
		if text, ok := activationFailureText(err); ok {
			t.plainResponse(chatId, text)
			return nil
		}
		t.reportError(chatId, "/activate", err)
		return nil
	}
	t.plainResponse(chatId, activatedText(user, time.Now()))
	return nil
}

func (t *TgBot) status(_ *tgbotapi.Bot, ctx *ext.Context) error {
	if t.core == nil {
		return nil
	}
	sender := ctx.EffectiveUser
	c, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	user, license, err := t.core.UserStatus(c, sender.Id, sender.Username, sender.FirstName, sender.LastName)
	if err != nil {
		t.reportError(sender.Id, "/status", err)
		return nil
	}
	t.plainResponse(sender.Id, statusText(user, license, time.Now()))
	return nil
}

func (t *TgBot) help(_ *tgbotapi.Bot, ctx *ext.Context) error {
	sender := ctx.EffectiveUser
	if t.core != nil {
		c, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		t.core.RecordCommand(c, sender.Id, sender.Username, "help")
	}
	t.plainResponse(sender.Id, helpText)
	return nil
}

func welcomeText(user *entity.User, created bool) string {
	name := user.FirstName
	if name == "" {
		name = user.DisplayName()
	}
	if created {
		return fmt.Sprintf("Welcome, %s\\! Send /activate `KEY` to activate your license\\.", Sanitize(name))
	}
	if user.HasLicense() {
		return fmt.Sprintf("Welcome back, %s\\! Use /status to check your license\\.", Sanitize(name))
	}
	return fmt.Sprintf("Welcome back, %s\\! You have no license yet, send /activate `KEY`\\.", Sanitize(name))
}

// activationFailureText maps expected activation errors to user-facing text.
func activationFailureText(err error) (string, bool) {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return "Usage: /activate `KEY`", true
	case errors.Is(err, core.ErrNotFound):
		return "License key not found\\. Check the key and try again\\.", true
	case errors.Is(err, entity.ErrLicenseUsed):
		return "This license key has already been used\\.", true
	case errors.Is(err, entity.ErrLicenseReset):
		return "This license key is no longer valid\\.", true
	case errors.Is(err, entity.ErrLicenseHeld):
		return "You already have an active license\\. Use /status to see it\\.", true
	case errors.Is(err, core.ErrConflict):
		return "Your account cannot activate licenses\\. Contact support\\.", true
	}
	return "", false
}

func activatedText(user *entity.User, now time.Time) string {
	return fmt.Sprintf("License activated\\.\nExpires: %s\nTime left: %s",
		Sanitize(formatExpiry(user.LicenseExpires)),
		Sanitize(status.Remaining(user.LicenseExpires, now)),
	)
}

func statusText(user *entity.User, license *entity.License, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Status: *%s*\n", Sanitize(string(status.User(user, now)))))
	if !user.HasLicense() {
		b.WriteString("No license\\. Send /activate `KEY` to activate one\\.")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("License: `%s`\n", Sanitize(user.LicenseKey)))
	b.WriteString(fmt.Sprintf("Expires: %s\n", Sanitize(formatExpiry(user.LicenseExpires))))
	b.WriteString(fmt.Sprintf("Time left: %s\n", Sanitize(status.Remaining(user.LicenseExpires, now))))
	b.WriteString(fmt.Sprintf("Script runs: %s\n", Sanitize(executionsText(user.ScriptExecutions, license))))
	b.WriteString(fmt.Sprintf("Credits: %d", user.Credits))
	return b.String()
}

// executionsText renders used runs against the license cap, e.g. "4 / 10 (6 left)".
func executionsText(used int, license *entity.License) string {
	if license == nil {
		return fmt.Sprintf("%d", used)
	}
	if license.Unlimited() {
		return fmt.Sprintf("%d / %s", used, status.Executions(license.MaxExecutions))
	}
	return fmt.Sprintf("%d / %d (%d left)", used, license.MaxExecutions, license.ExecutionsLeft(used))
}

func formatExpiry(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.UTC().Format("2006-01-02 15:04")
}

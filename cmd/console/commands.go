package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"licensedesk/entity"
	"licensedesk/internal/console"
)

const usage = `usage: console [flags] <command> [args]

commands:
  watch                              refresh and print the dashboard every poll interval (default)
  status                             fetch once and print the dashboard
  create-licenses [-preset P] [-days N] [-qty N] [-max N]
  ban|unban|lock|unlock USER_ID
  extend USER_ID DAYS
  reset USER_ID
  delete-user USER_ID
  respond TICKET_ID TEXT...
  delete-ticket TICKET_ID
  clear-logs activities|executions
  add-credits USER_ID AMOUNT
  send TELEGRAM_ID TEXT...
`

var errUsage = errors.New("invalid command line")

// app binds the console to one output stream for the lifetime of a command.
type app struct {
	desk     *console.Console
	poller   *console.Poller
	out      io.Writer
	interval time.Duration
	now      func() time.Time
}

var userCommands = map[string]entity.UserAction{
	"ban":    entity.ActionBan,
	"unban":  entity.ActionUnban,
	"lock":   entity.ActionLock,
	"unlock": entity.ActionUnlock,
	"extend": entity.ActionExtendLicense,
	"reset":  entity.ActionResetLicense,
}

func (a *app) run(ctx context.Context, args []string) error {
	command := "watch"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	if action, ok := userCommands[command]; ok {
		return a.userAction(ctx, action, args)
	}

	switch command {
	case "watch":
		return a.watch(ctx)
	case "status", "once":
		return a.once(ctx)
	case "create-licenses":
		return a.createLicenses(ctx, args)
	case "delete-user":
		if len(args) != 1 {
			return errUsage
		}
		return a.done(a.desk.DeleteUser(ctx, args[0]), "user deleted")
	case "respond":
		if len(args) < 2 {
			return errUsage
		}
		return a.done(a.desk.RespondToTicket(ctx, args[0], strings.Join(args[1:], " ")), "ticket answered")
	case "delete-ticket":
		if len(args) != 1 {
			return errUsage
		}
		return a.done(a.desk.DeleteTicket(ctx, args[0]), "ticket deleted")
	case "clear-logs":
		if len(args) != 1 {
			return errUsage
		}
		return a.done(a.desk.ClearLogs(ctx, entity.LogKind(args[0])), args[0]+" cleared")
	case "add-credits":
		if len(args) != 2 {
			return errUsage
		}
		return a.done(a.desk.AddCredits(ctx, args[0], args[1]), "credits added")
	case "send":
		if len(args) < 2 {
			return errUsage
		}
		telegramID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: telegram id %q is not a number", console.ErrValidation, args[0])
		}
		return a.done(a.desk.SendMessage(ctx, telegramID, strings.Join(args[1:], " ")), "message sent")
	}
	return errUsage
}

func (a *app) done(err error, message string) error {
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.out, message)
	return nil
}

// prime loads collections a local check depends on. A failure leaves the
// snapshot empty and the check itself reports the problem.
func (a *app) prime(ctx context.Context, cols ...console.Collection) {
	if err := a.poller.Refresh(ctx, cols...); err != nil {
		_, _ = fmt.Fprintf(a.out, "warning: %v\n", err)
	}
}

func (a *app) watch(ctx context.Context) error {
	if err := a.poller.Start(ctx); err != nil {
		return err
	}
	defer a.poller.Stop()

	interval := a.interval
	if interval <= 0 {
		interval = console.DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		// clear screen, cursor home
		_, _ = fmt.Fprint(a.out, "\033[H\033[2J")
		renderDashboard(a.out, a.desk.Snapshot(), a.poller.Collections(), a.now())
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (a *app) once(ctx context.Context) error {
	err := a.poller.Refresh(ctx)
	renderDashboard(a.out, a.desk.Snapshot(), a.poller.Collections(), a.now())
	return err
}

func (a *app) createLicenses(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-licenses", flag.ContinueOnError)
	fs.SetOutput(a.out)
	preset := fs.String("preset", "", "day, week, month, quarter or year")
	days := fs.String("days", "", "duration in days")
	qty := fs.String("qty", "1", "number of keys")
	maxExec := fs.String("max", "", "script runs per key, empty or -1 for unlimited")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *preset != "" {
		d, ok := console.LicensePresets[*preset]
		if !ok {
			return fmt.Errorf("%w: unknown preset %q", console.ErrValidation, *preset)
		}
		if *days == "" {
			*days = strconv.FormatFloat(d, 'f', -1, 64)
		}
	}

	req, err := console.ParseLicenseInput(*days, *qty, *maxExec)
	if err != nil {
		return err
	}
	created, err := a.desk.CreateLicenses(ctx, req.DurationDays, req.Quantity, req.MaxExecutions)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "created %d license(s)\n", len(created))
	renderLicenses(a.out, created, a.now())
	return nil
}

func (a *app) userAction(ctx context.Context, action entity.UserAction, args []string) error {
	value := ""
	switch {
	case action == entity.ActionExtendLicense && len(args) == 2:
		value = args[1]
	case action != entity.ActionExtendLicense && len(args) == 1:
	default:
		return errUsage
	}
	if action.TouchesLicense() {
		a.prime(ctx, console.Users)
	}
	return a.done(a.desk.PerformUserAction(ctx, args[0], action, value), fmt.Sprintf("%s: done", action))
}

// confirmer reads y/yes from in; assumeYes skips the prompt.
func confirmer(in io.Reader, out io.Writer, assumeYes bool) console.Confirmer {
	reader := bufio.NewReader(in)
	return console.ConfirmFunc(func(prompt string) bool {
		if assumeYes {
			return true
		}
		_, _ = fmt.Fprintf(out, "%s [y/N]: ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	})
}

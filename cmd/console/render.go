package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"licensedesk/entity"
	"licensedesk/internal/console"
	"licensedesk/internal/status"
)

const (
	timeLayout = "2006-01-02 15:04"
	// rows shown per log section in the dashboard
	logRows = 10
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return t.Local().Format(timeLayout)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// renderDashboard prints the whole snapshot. All derived columns are computed at now.
func renderDashboard(w io.Writer, snap console.Snapshot, collections []console.Collection, now time.Time) {
	counts := status.Summarize(snap.Users, snap.Licenses, snap.Tickets, snap.Accounts, now)
	_, _ = fmt.Fprintf(w, "License Desk  %s\n", now.Local().Format(timeLayout+":05"))
	_, _ = fmt.Fprintf(w, "active %d  expired %d  banned %d  locked %d  | licenses available %d  | open tickets %d  | accounts available %d\n",
		counts.ActiveUsers, counts.ExpiredUsers, counts.BannedUsers, counts.LockedUsers,
		counts.AvailableLicenses, counts.OpenTickets, counts.AvailableAccounts)

	for _, c := range collections {
		_, _ = fmt.Fprintf(w, "\n== %s (%s)\n", strings.ToUpper(string(c)), fetchedLabel(snap, c))
		switch c {
		case console.Users:
			renderUsers(w, snap.Users, now)
		case console.Licenses:
			renderLicenses(w, snap.Licenses, now)
		case console.Tickets:
			renderTickets(w, snap.Tickets)
		case console.Activities:
			renderActivities(w, snap.Activities, logRows)
		case console.Executions:
			renderExecutions(w, snap.Executions, logRows)
		case console.Accounts:
			renderAccounts(w, snap.Accounts)
		}
	}
}

func fetchedLabel(snap console.Snapshot, c console.Collection) string {
	at, ok := snap.FetchedAt[c]
	if !ok {
		return "not loaded"
	}
	return "updated " + at.Local().Format("15:04:05")
}

func renderUsers(w io.Writer, users []entity.User, now time.Time) {
	tw := newTable(w)
	_, _ = fmt.Fprintln(tw, "ID\tTELEGRAM\tUSERNAME\tSTATUS\tLICENSE\tEXPIRES\tLEFT\tRUNS\tCREDITS")
	for i := range users {
		u := &users[i]
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			u.ID, u.TelegramID, u.DisplayName(), status.User(u, now),
			orNA(u.LicenseKey), formatTime(u.LicenseExpires), status.Remaining(u.LicenseExpires, now),
			u.ScriptExecutions, u.Credits)
	}
	_ = tw.Flush()
}

func renderLicenses(w io.Writer, licenses []entity.License, now time.Time) {
	tw := newTable(w)
	_, _ = fmt.Fprintln(tw, "KEY\tDAYS\tMAX RUNS\tSTATUS\tUSED BY\tACTIVATED\tEXPIRES\tLEFT")
	for i := range licenses {
		l := &licenses[i]
		usedBy := "N/A"
		if l.UsedByTelegramID != nil {
			usedBy = strconv.FormatInt(*l.UsedByTelegramID, 10)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.LicenseKey, strconv.FormatFloat(l.DurationDays, 'f', -1, 64), status.Executions(l.MaxExecutions),
			status.License(l), usedBy, formatTime(l.ActivatedAt), formatTime(l.ExpiresAt),
			status.Remaining(l.ExpiresAt, now))
	}
	_ = tw.Flush()
}

func renderTickets(w io.Writer, tickets []entity.Ticket) {
	tw := newTable(w)
	_, _ = fmt.Fprintln(tw, "ID\tTELEGRAM\tTYPE\tSTATUS\tCREATED\tMESSAGE\tRESPONSE")
	for i := range tickets {
		t := &tickets[i]
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.TelegramID, t.Type, t.Status, formatTime(&t.CreatedAt),
			truncate(t.Message, 40), orNA(truncate(t.AdminResponse, 30)))
	}
	_ = tw.Flush()
}

func renderActivities(w io.Writer, entries []entity.ActivityLogEntry, limit int) {
	tw := newTable(w)
	_, _ = fmt.Fprintln(tw, "TIME\tTELEGRAM\tUSERNAME\tACTION\tMESSAGE")
	for i := range entries {
		if i == limit {
			break
		}
		e := &entries[i]
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			formatTime(&e.Timestamp), e.TelegramID, orNA(e.Username), e.Action, truncate(e.Message, 50))
	}
	_ = tw.Flush()
}

func renderExecutions(w io.Writer, records []entity.ExecutionRecord, limit int) {
	tw := newTable(w)
	_, _ = fmt.Fprintln(tw, "TIME\tTELEGRAM\tLICENSE\tSTATUS")
	for i := range records {
		if i == limit {
			break
		}
		e := &records[i]
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			formatTime(&e.ExecutionTime), e.TelegramID, orNA(e.LicenseKey), e.Status)
	}
	_ = tw.Flush()
}

func renderAccounts(w io.Writer, accounts []entity.Account) {
	tw := newTable(w)
	_, _ = fmt.Fprintln(tw, "ID\tTYPE\tUSERNAME\tEMAIL\tAVAILABLE")
	for i := range accounts {
		a := &accounts[i]
		available := "no"
		if a.IsAvailable {
			available = "yes"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Type, a.Username, orNA(a.Email), available)
	}
	_ = tw.Flush()
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensedesk/entity"
	"licensedesk/internal/console"
	"licensedesk/lib/api/response"
)

// backend records every call and answers reads from fixed lists.
type backend struct {
	mu    sync.Mutex
	calls []string
	users []entity.User
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)
	users := b.users
	b.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/api")
	var data interface{} = []interface{}{}
	switch {
	case r.Method == http.MethodGet && path == "/users":
		data = users
	case r.Method == http.MethodPost && path == "/admin/create-licenses":
		var req entity.CreateLicensesRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		created := make([]entity.License, req.Quantity)
		for i := range created {
			created[i] = entity.License{LicenseKey: "KEY" + string(rune('A'+i)), DurationDays: req.DurationDays, MaxExecutions: req.MaxExecutions}
		}
		data = created
	case r.Method == http.MethodPost && path == "/admin/user-action":
		data = entity.User{ID: "u1"}
	case r.Method == http.MethodPost && path == "/admin/respond-ticket/t1":
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(response.Error("ticket already closed"))
		return
	case r.Method == http.MethodGet:
	default:
		data = nil
	}
	_ = json.NewEncoder(w).Encode(response.Ok(data))
}

func (b *backend) called(call string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.calls {
		if c == call {
			return true
		}
	}
	return false
}

func newTestApp(t *testing.T, b *backend, confirm bool) (*app, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := console.NewClient(console.ClientConfig{BaseURL: srv.URL + "/api/", Token: "t", Timeout: 2 * time.Second}, log)
	store := console.NewStore()
	poller := console.NewPoller(client, store, console.PollerOptions{Interval: time.Hour}, log)
	answer := "n\n"
	if confirm {
		answer = "y\n"
	}
	out := &bytes.Buffer{}
	return &app{
		desk:     console.New(client, poller, store, confirmer(strings.NewReader(answer), io.Discard, false), log),
		poller:   poller,
		out:      out,
		interval: time.Hour,
		now:      func() time.Time { return renderNow },
	}, out
}

func TestRunCreateLicensesPreset(t *testing.T) {
	b := &backend{}
	a, out := newTestApp(t, b, false)

	err := a.run(context.Background(), []string{"create-licenses", "-preset", "month", "-qty", "5"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "created 5 license(s)")
	assert.Contains(t, out.String(), "KEYE")
	assert.True(t, b.called("GET /api/licenses"))
	assert.False(t, b.called("GET /api/users"))
}

func TestRunCreateLicensesRejectsBadInput(t *testing.T) {
	b := &backend{}
	a, _ := newTestApp(t, b, false)

	err := a.run(context.Background(), []string{"create-licenses", "-preset", "decade"})
	assert.ErrorIs(t, err, console.ErrValidation)

	err = a.run(context.Background(), []string{"create-licenses", "-days", "0"})
	assert.ErrorIs(t, err, console.ErrValidation)

	assert.False(t, b.called("POST /api/admin/create-licenses"))
}

func TestRunExtendLoadsUsersFirst(t *testing.T) {
	b := &backend{users: []entity.User{{ID: "u1", LicenseKey: "K1"}}}
	a, out := newTestApp(t, b, false)

	err := a.run(context.Background(), []string{"extend", "u1", "7"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "extend_license: done")
	assert.True(t, b.called("POST /api/admin/user-action"))
	assert.True(t, b.called("GET /api/licenses"))
}

func TestRunResetDeclined(t *testing.T) {
	b := &backend{users: []entity.User{{ID: "u1", LicenseKey: "K1"}}}
	a, _ := newTestApp(t, b, false)

	err := a.run(context.Background(), []string{"reset", "u1"})

	assert.ErrorIs(t, err, console.ErrCancelled)
	assert.False(t, b.called("POST /api/admin/user-action"))
}

func TestRunDeleteTicketConfirmed(t *testing.T) {
	b := &backend{}
	a, out := newTestApp(t, b, true)

	err := a.run(context.Background(), []string{"delete-ticket", "t9"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "ticket deleted")
	assert.True(t, b.called("DELETE /api/admin/ticket/t9"))
}

func TestRunRespondSurfacesAPIError(t *testing.T) {
	b := &backend{}
	a, _ := newTestApp(t, b, false)

	err := a.run(context.Background(), []string{"respond", "t1", "thanks", "for", "waiting"})

	var apiErr *console.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "ticket already closed", apiErr.Message)
}

func TestRunSendRejectsBadTelegramId(t *testing.T) {
	b := &backend{}
	a, _ := newTestApp(t, b, false)

	err := a.run(context.Background(), []string{"send", "abc", "hello"})

	assert.ErrorIs(t, err, console.ErrValidation)
	assert.False(t, b.called("POST /api/admin/send-message"))
}

func TestRunUsage(t *testing.T) {
	a, _ := newTestApp(t, &backend{}, false)

	assert.ErrorIs(t, a.run(context.Background(), []string{"frobnicate"}), errUsage)
	assert.ErrorIs(t, a.run(context.Background(), []string{"ban"}), errUsage)
	assert.ErrorIs(t, a.run(context.Background(), []string{"extend", "u1"}), errUsage)
	assert.ErrorIs(t, a.run(context.Background(), []string{"add-credits", "u1"}), errUsage)
}

func TestRunStatusRendersOnce(t *testing.T) {
	b := &backend{users: []entity.User{{ID: "u1", Username: "alice"}}}
	a, out := newTestApp(t, b, false)

	err := a.run(context.Background(), []string{"status"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "@alice")
	assert.Contains(t, out.String(), "== ACCOUNTS (updated")
}

func TestRunWatchStopsOnCancel(t *testing.T) {
	b := &backend{}
	a, out := newTestApp(t, b, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := a.run(ctx, nil)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "License Desk")
}

func TestConfirmer(t *testing.T) {
	var prompt bytes.Buffer
	c := confirmer(strings.NewReader("yes\nno\n"), &prompt, false)
	assert.True(t, c.Confirm("first?"))
	assert.False(t, c.Confirm("second?"))
	assert.False(t, c.Confirm("eof?"))
	assert.Contains(t, prompt.String(), "first? [y/N]: ")

	assert.True(t, confirmer(strings.NewReader(""), io.Discard, true).Confirm("anything?"))
}

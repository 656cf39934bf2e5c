package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensedesk/lib/sl"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordingNotifier) NotifyAdmins(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func TestTelegramHandlerMirrorsWarnings(t *testing.T) {
	var buf bytes.Buffer
	n := &recordingNotifier{}
	h := NewTelegramHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}), n, slog.LevelWarn)
	log := slog.New(h).With(sl.Module("console.poller"))

	log.Info("tick")
	log.Error("fetch failed", slog.String("collection", "users"), sl.Err(errors.New("dial tcp: refused")))

	assert.Contains(t, buf.String(), "msg=tick")
	assert.Contains(t, buf.String(), "msg=\"fetch failed\"")
	require.Len(t, n.msgs, 1)
	assert.Contains(t, n.msgs[0], "*ERROR*")
	assert.Contains(t, n.msgs[0], "mod: console\\.poller")
	assert.Contains(t, n.msgs[0], "collection: users")
	assert.Contains(t, n.msgs[0], "dial tcp: refused")
}

func TestTelegramHandlerGroup(t *testing.T) {
	n := &recordingNotifier{}
	h := NewTelegramHandler(slog.NewTextHandler(&bytes.Buffer{}, nil), n, slog.LevelWarn)
	slog.New(h).WithGroup("api").Warn("slow")

	require.Len(t, n.msgs, 1)
	assert.Contains(t, n.msgs[0], "api\\.slow")
}

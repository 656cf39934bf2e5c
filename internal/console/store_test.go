package console

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensedesk/entity"
)

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	put(s, &s.users, []entity.User{{ID: "u1"}}, at)

	snap := s.Snapshot()
	snap.Users[0].IsBanned = true

	again := s.Snapshot()
	assert.False(t, again.Users[0].IsBanned)
	assert.Equal(t, at, again.FetchedAt[Users])
	assert.False(t, again.Loaded(Licenses))
}

func TestSnapshotCopiesPointerFields(t *testing.T) {
	s := NewStore()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	expires := at.Add(48 * time.Hour)
	holder := int64(42)
	put(s, &s.users, []entity.User{{ID: "u1", LicenseKey: "K1", LicenseExpires: &expires, LastLogin: &at}}, at)
	put(s, &s.licenses, []entity.License{{LicenseKey: "K1", IsUsed: true, UsedByTelegramID: &holder, ActivatedAt: &at, ExpiresAt: &expires}}, at)

	snap := s.Snapshot()
	*snap.Users[0].LicenseExpires = at.Add(-time.Hour)
	*snap.Users[0].LastLogin = time.Time{}
	*snap.Licenses[0].ExpiresAt = at.Add(-time.Hour)
	*snap.Licenses[0].UsedByTelegramID = 7

	again := s.Snapshot()
	require.NotNil(t, again.Users[0].LicenseExpires)
	assert.Equal(t, expires, *again.Users[0].LicenseExpires)
	assert.Equal(t, at, *again.Users[0].LastLogin)
	assert.Nil(t, again.Users[0].LastActivity)
	assert.Equal(t, expires, *again.Licenses[0].ExpiresAt)
	assert.Equal(t, int64(42), *again.Licenses[0].UsedByTelegramID)
}

func TestSnapshotLookups(t *testing.T) {
	s := NewStore()
	put(s, &s.users, []entity.User{{ID: "u1"}, {ID: "u2", Username: "bob"}}, time.Now())
	put(s, &s.tickets, []entity.Ticket{{ID: "t1", Status: entity.TicketOpen}}, time.Now())
	snap := s.Snapshot()

	u, ok := snap.User("u2")
	require.True(t, ok)
	assert.Equal(t, "@bob", u.DisplayName())
	_, ok = snap.User("nobody")
	assert.False(t, ok)

	tk, ok := snap.Ticket("t1")
	require.True(t, ok)
	assert.True(t, tk.IsOpen())
}

func TestLastWriteWins(t *testing.T) {
	s := NewStore()
	older := time.Now()
	put(s, &s.licenses, []entity.License{{ID: "new"}}, older.Add(time.Second))
	// a slow response from an earlier tick lands afterwards
	put(s, &s.licenses, []entity.License{{ID: "old"}}, older)

	snap := s.Snapshot()
	require.Len(t, snap.Licenses, 1)
	assert.Equal(t, "old", snap.Licenses[0].ID)
}

func TestSnapshotCounts(t *testing.T) {
	s := NewStore()
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)
	put(s, &s.users, []entity.User{
		{ID: "a", IsActive: true, LicenseKey: "k1", LicenseExpires: &future},
		{ID: "b", IsActive: true, LicenseKey: "k2", LicenseExpires: &past},
		{ID: "c", IsBanned: true},
	}, now)
	put(s, &s.accounts, []entity.Account{{ID: "x", IsAvailable: true}, {ID: "y"}}, now)

	c := s.Snapshot().Counts(now)

	assert.Equal(t, 1, c.ActiveUsers)
	assert.Equal(t, 1, c.ExpiredUsers)
	assert.Equal(t, 1, c.BannedUsers)
	assert.Equal(t, 1, c.AvailableAccounts)
}

func TestParseCollections(t *testing.T) {
	all, err := ParseCollections(nil)
	require.NoError(t, err)
	assert.Equal(t, AllCollections(), all)

	cols, err := ParseCollections([]string{"users", "tickets", "users"})
	require.NoError(t, err)
	assert.Equal(t, []Collection{Users, Tickets}, cols)

	_, err = ParseCollections([]string{"orders"})
	assert.Error(t, err)

	assert.Equal(t, "/script-executions", Executions.path())
	assert.Equal(t, Activities, logCollection(entity.LogActivities))
}

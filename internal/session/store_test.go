package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/codebookhq/codebook/internal/domain"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetGetClear(t *testing.T) {
	s := newStore(t)

	sess := domain.Session{Token: "tok-123", UserID: 7, Role: "admin", Name: "Admin"}
	require.NoError(t, s.Set("bid-1", sess))

	got := s.Get("bid-1")
	assert.Equal(t, sess, got)
	assert.True(t, got.Authenticated())

	s.Clear("bid-1")
	assert.Equal(t, domain.Session{}, s.Get("bid-1"))

	// idempotent
	s.Clear("bid-1")
	assert.False(t, s.Get("bid-1").Authenticated())
}

func TestSetRequiresTokenAndUserID(t *testing.T) {
	s := newStore(t)

	assert.Error(t, s.Set("bid-1", domain.Session{Token: "tok"}))
	assert.Error(t, s.Set("bid-1", domain.Session{UserID: 7}))
	assert.Error(t, s.Set("", domain.Session{Token: "tok", UserID: 7}))

	// nothing leaked into the store
	assert.Equal(t, domain.Session{}, s.Get("bid-1"))
}

func TestGetUnknownBrowserIsZero(t *testing.T) {
	s := newStore(t)
	assert.Equal(t, domain.Session{}, s.Get("never-seen"))
	assert.Equal(t, domain.Session{}, s.Get(""))
}

func TestCorruptRecordTreatedAsAbsent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Set("bid-1", domain.Session{Token: "tok", UserID: 1}))

	// scribble over the persisted record
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Put([]byte("bid-1"), []byte("{not json"))
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Session{}, s.Get("bid-1"))
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Set("old", domain.Session{Token: "a", UserID: 1}))
	require.NoError(t, s.Set("fresh", domain.Session{Token: "b", UserID: 2}))

	// age the first record
	err := s.db.Update(func(tx *bolt.Tx) error {
		data, _ := json.Marshal(record{
			Session:  domain.Session{Token: "a", UserID: 1},
			LastSeen: time.Now().Add(-48 * time.Hour).Unix(),
		})
		return tx.Bucket(bucketSessions).Put([]byte("old"), data)
	})
	require.NoError(t, err)

	stale := s.Sweep(24 * time.Hour)
	assert.Equal(t, []string{"old"}, stale)
	assert.False(t, s.Get("old").Authenticated())
	assert.True(t, s.Get("fresh").Authenticated())
}

func TestPreferences(t *testing.T) {
	s := newStore(t)

	assert.False(t, s.GetPrefBool("bid-1", "dark_mode", false))
	assert.True(t, s.GetPrefBool("bid-1", "dark_mode", true))

	require.NoError(t, s.SetPref("bid-1", "dark_mode", true))
	assert.True(t, s.GetPrefBool("bid-1", "dark_mode", false))

	// preferences are scoped per browser
	assert.False(t, s.GetPrefBool("bid-2", "dark_mode", false))

	// survive a logout
	s.Clear("bid-1")
	assert.True(t, s.GetPrefBool("bid-1", "dark_mode", false))
}

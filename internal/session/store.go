package session

import (
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/codebookhq/codebook/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	bucketSessions = []byte("sessions")
	bucketPrefs    = []byte("prefs")
)

// record wraps the session with a last-seen stamp for idle sweeping.
type record struct {
	Session  domain.Session `json:"session"`
	LastSeen int64          `json:"last_seen"`
}

// Store is the browser session store. One record per browser id; reads
// never fail, a corrupt persisted value is treated as absent. Any
// caller may Clear a session, only the auth flow may Set one.
type Store struct {
	db *bolt.DB
}

// Open creates or opens the session database under workdir.
func Open(workdir string) (*Store, error) {
	db, err := bolt.Open(filepath.Join(workdir, "session.db"), 0o600, &bolt.Options{
		Timeout: 3 * time.Second,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open session store")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketSessions); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketPrefs)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init session buckets")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Set persists credentials for a browser. Token and user id must be
// written together; role and name are optional caches.
func (s *Store) Set(browserID string, sess domain.Session) error {
	if browserID == "" {
		return errors.New("session: empty browser id")
	}
	if !sess.Authenticated() {
		return errors.New("session: token and user id are both required")
	}
	data, err := json.Marshal(record{Session: sess, LastSeen: time.Now().Unix()})
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Put([]byte(browserID), data)
	})
}

// Get returns the session for a browser. Absence and corruption both
// yield the zero session, never an error.
func (s *Store) Get(browserID string) domain.Session {
	if browserID == "" {
		return domain.Session{}
	}
	var rec record
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketSessions).Get([]byte(browserID))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &rec); err != nil {
			zap.S().Warnf("session: discarding corrupt record for %s: %s", browserID, err)
			rec = record{}
			return nil
		}
		found = true
		return nil
	})
	if found {
		s.touch(browserID, rec)
	}
	return rec.Session
}

func (s *Store) touch(browserID string, rec record) {
	rec.LastSeen = time.Now().Unix()
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	_ = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Put([]byte(browserID), data)
	})
}

// Clear removes the whole session record. Idempotent.
func (s *Store) Clear(browserID string) {
	if browserID == "" {
		return
	}
	_ = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Delete([]byte(browserID))
	})
}

// Sweep deletes sessions idle beyond maxIdle and returns the browser
// ids removed so callers can drop dependent state (carts).
func (s *Store) Sweep(maxIdle time.Duration) []string {
	cutoff := time.Now().Add(-maxIdle).Unix()
	var stale []string
	_ = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var rec record
			if err := json.Unmarshal(v, &rec); err != nil || rec.LastSeen < cutoff {
				stale = append(stale, string(k))
			}
		}
		for _, k := range stale {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	return stale
}

// SetPref stores a per-browser preference such as the dark mode flag.
func (s *Store) SetPref(browserID, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "encode preference")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPrefs).Put([]byte(browserID+"/"+key), data)
	})
}

// GetPrefBool reads a boolean preference, defval when unset or corrupt.
func (s *Store) GetPrefBool(browserID, key string, defval bool) bool {
	var raw interface{}
	_ = s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketPrefs).Get([]byte(browserID + "/" + key))
		if data == nil {
			return nil
		}
		_ = json.Unmarshal(data, &raw)
		return nil
	})
	if raw == nil {
		return defval
	}
	val, err := cast.ToBoolE(raw)
	if err != nil {
		return defval
	}
	return val
}

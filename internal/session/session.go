// Package session persists the logged-in user and the blocker state
// between focusguard invocations.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

var (
	bucketSession = []byte("session")
	bucketBlocker = []byte("blocker")

	currentKey = []byte("current")
)

// ErrNoSession is returned when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

// Record is the logged-in user.
type Record struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	StartedAt time.Time `json:"started_at"`
}

// BlockState is what the blocker last wrote to the hosts file. It lets a
// later run undo a block left behind by a crashed one.
type BlockState struct {
	Active    bool      `json:"active"`
	Timer     bool      `json:"timer"` // applied by a focus run, not by hand
	Sites     []string  `json:"sites"`
	HostsPath string    `json:"hosts_path"`
	AppliedAt time.Time `json:"applied_at"`
}

// lockTimeout bounds how long an operation waits for another process
// holding the state file.
const lockTimeout = 5 * time.Second

// Store is a bbolt-backed session store. The file is opened only for the
// duration of each operation, so any number of processes can share it.
type Store struct {
	path string
	now  func() time.Time
}

// Open creates the state file at path if needed and returns a store on it.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	s := &Store{path: path, now: time.Now}
	if err := s.initBuckets(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close is a no-op; no file handle outlives an operation.
func (s *Store) Close() error {
	return nil
}

// withDB opens the file, runs fn and closes it again. Read-only opens
// take a shared lock.
func (s *Store) withDB(readOnly bool, fn func(db *bbolt.DB) error) error {
	db, err := bbolt.Open(s.path, 0o600, &bbolt.Options{Timeout: lockTimeout, ReadOnly: readOnly})
	if err != nil {
		return fmt.Errorf("failed to open state file: %w", err)
	}
	if err := fn(db); err != nil {
		db.Close() //nolint:errcheck
		return err
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close state file: %w", err)
	}
	return nil
}

func (s *Store) update(fn func(tx *bbolt.Tx) error) error {
	return s.withDB(false, func(db *bbolt.DB) error { return db.Update(fn) })
}

func (s *Store) view(fn func(tx *bbolt.Tx) error) error {
	return s.withDB(true, func(db *bbolt.DB) error { return db.View(fn) })
}

func (s *Store) initBuckets() error {
	err := s.update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketSession, bucketBlocker} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to initialize buckets: %w", err)
	}
	return nil
}

// Begin starts a session for the user, replacing any current one.
func (s *Store) Begin(ctx context.Context, userID int64, username string) (*Record, error) {
	rec := &Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		Username:  username,
		StartedAt: s.now().UTC(),
	}
	if err := s.put(bucketSession, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Current returns the logged-in user or ErrNoSession.
func (s *Store) Current(ctx context.Context) (*Record, error) {
	var rec Record
	found, err := s.get(bucketSession, &rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoSession
	}
	return &rec, nil
}

// End logs out. Ending without a session is not an error.
func (s *Store) End(ctx context.Context) error {
	return s.delete(bucketSession)
}

// SaveBlockState records the blocker state.
func (s *Store) SaveBlockState(ctx context.Context, st BlockState) error {
	return s.put(bucketBlocker, &st)
}

// LoadBlockState returns the recorded blocker state. With nothing
// recorded the state is inactive.
func (s *Store) LoadBlockState(ctx context.Context) (*BlockState, error) {
	st := &BlockState{Sites: []string{}}
	if _, err := s.get(bucketBlocker, st); err != nil {
		return nil, err
	}
	return st, nil
}

// ClearBlockState forgets the blocker state.
func (s *Store) ClearBlockState(ctx context.Context) error {
	return s.delete(bucketBlocker)
}

func (s *Store) put(bucket []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", bucket, err)
	}

	return s.update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("%s bucket not found", bucket)
		}
		if err := b.Put(currentKey, data); err != nil {
			return fmt.Errorf("failed to save %s: %w", bucket, err)
		}
		return nil
	})
}

func (s *Store) get(bucket []byte, v any) (bool, error) {
	found := false
	err := s.view(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("%s bucket not found", bucket)
		}

		data := b.Get(currentKey)
		if data == nil {
			return nil
		}
		found = true
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", bucket, err)
		}
		return nil
	})
	return found, err
}

func (s *Store) delete(bucket []byte) error {
	return s.update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("%s bucket not found", bucket)
		}
		return b.Delete(currentKey)
	})
}

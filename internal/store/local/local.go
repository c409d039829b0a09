// Package local implements the Ledger contract on an embedded bbolt file:
// the whole ledger lives in one JSON blob under a fixed key, rewritten in
// full on every mutation. Single-process use is assumed; bbolt's file lock
// enforces it.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/ospencer/debttrack/internal/errs"
	"github.com/ospencer/debttrack/internal/ledger"
	"github.com/ospencer/debttrack/internal/store"
)

var _ store.Ledger = (*Store)(nil)

// DefaultKey is the storage identifier the blob lives under when the caller
// does not inject one.
const DefaultKey = "debt-tracker-data"

var bucketName = []byte("ledger")

// Store is the local ledger mode. All operations are synchronous and
// immediate; every mutation re-serializes the full snapshot to disk.
type Store struct {
	db  *bolt.DB
	key []byte
	log *slog.Logger

	mu   sync.Mutex
	snap ledger.Snapshot
}

// Open opens (or creates) the bbolt file at path and loads the blob stored
// under key. An absent or corrupt blob yields an empty ledger; corruption is
// logged, never surfaced.
func Open(path, key string, logger *slog.Logger) (*Store, error) {
	if key == "" {
		key = DefaultKey
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	s := &Store{db: db, key: []byte(key), log: logger}
	if err := s.Refresh(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying file.
func (s *Store) Close() error { return s.db.Close() }

// Refresh reloads the persisted blob, replacing the in-memory snapshot. The
// corrupt-blob branch resets to empty and logs a warning.
func (s *Store) Refresh(_ context.Context) error {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		if v := b.Get(s.key); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("read local store: %w", err)
	}

	snap := ledger.Snapshot{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &snap); err != nil {
			s.log.Warn("corrupt local ledger blob, resetting to empty", "key", string(s.key), "err", err)
			snap = ledger.Snapshot{}
		}
	}
	if snap.Friends == nil {
		snap.Friends = []ledger.Friend{}
	}
	if snap.Debts == nil {
		snap.Debts = []ledger.Debt{}
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return nil
}

// Friends returns the friend set with balances derived from the unpaid debts.
func (s *Store) Friends(_ context.Context) ([]ledger.Friend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.WithBalances(s.snap.Friends, s.snap.Debts), nil
}

// Friend returns one friend by id, balance included.
func (s *Store) Friend(_ context.Context, id string) (ledger.Friend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.snap.Friends {
		if f.ID == id {
			f.Balance = ledger.BalancesOf(s.snap.Debts)[id]
			return f, nil
		}
	}
	return ledger.Friend{}, errs.ErrNotFound
}

// AddFriend validates the trimmed name, assigns id and timestamp, appends the
// friend and persists the snapshot.
func (s *Store) AddFriend(_ context.Context, name, email string) (ledger.Friend, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ledger.Friend{}, fmt.Errorf("%w: name is required", errs.ErrInvalid)
	}
	f := ledger.Friend{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     strings.TrimSpace(email),
		Type:      ledger.FriendTypeLocal,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Friends = append(s.snap.Friends, f)
	if err := s.persistLocked(); err != nil {
		return ledger.Friend{}, err
	}
	return f, nil
}

// RemoveFriend deletes the friend and cascades deletion of every debt
// referencing it as creditor or debtor.
func (s *Store) RemoveFriend(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	friends := make([]ledger.Friend, 0, len(s.snap.Friends))
	found := false
	for _, f := range s.snap.Friends {
		if f.ID == id {
			found = true
			continue
		}
		friends = append(friends, f)
	}
	if !found {
		return errs.ErrNotFound
	}
	debts := make([]ledger.Debt, 0, len(s.snap.Debts))
	for _, d := range s.snap.Debts {
		if d.Involves(id) {
			continue
		}
		debts = append(debts, d)
	}
	s.snap.Friends = friends
	s.snap.Debts = debts
	return s.persistLocked()
}

// Debts returns debts involving friendID (all when empty), newest first.
func (s *Store) Debts(_ context.Context, friendID string) ([]ledger.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := ledger.DebtsInvolving(s.snap.Debts, friendID)
	cp := make([]ledger.Debt, len(out))
	copy(cp, out)
	return cp, nil
}

// AddDebt assigns id and creation time, defaults isPaid=false with no paidAt,
// prepends the debt and persists.
func (s *Store) AddDebt(_ context.Context, in ledger.DebtInput) (ledger.Debt, error) {
	if in.Amount <= 0 {
		return ledger.Debt{}, fmt.Errorf("%w: amount must be positive", errs.ErrInvalid)
	}
	if in.CreditorID == "" || in.DebtorID == "" {
		return ledger.Debt{}, fmt.Errorf("%w: creditorId and debtorId are required", errs.ErrInvalid)
	}
	if in.CreditorID == in.DebtorID {
		return ledger.Debt{}, fmt.Errorf("%w: creditor and debtor must differ", errs.ErrInvalid)
	}
	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	dividedAmong := in.DividedAmong
	if dividedAmong == nil {
		dividedAmong = []string{}
	}
	d := ledger.Debt{
		ID:           uuid.NewString(),
		Amount:       in.Amount,
		CreditorID:   in.CreditorID,
		DebtorID:     in.DebtorID,
		Name:         in.Name,
		CreatedAt:    createdAt,
		IsDivided:    in.IsDivided,
		DividedAmong: dividedAmong,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Debts = append([]ledger.Debt{d}, s.snap.Debts...)
	if err := s.persistLocked(); err != nil {
		return ledger.Debt{}, err
	}
	return d, nil
}

// SetPaid flips the paid flag on the matching debt and keeps paidAt in
// lockstep. Unknown ids are an error, same policy as the remote mode.
func (s *Store) SetPaid(_ context.Context, id string, paid bool) (ledger.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.snap.Debts {
		if s.snap.Debts[i].ID != id {
			continue
		}
		s.snap.Debts[i].IsPaid = paid
		if paid {
			now := time.Now().UTC()
			s.snap.Debts[i].PaidAt = &now
		} else {
			s.snap.Debts[i].PaidAt = nil
		}
		if err := s.persistLocked(); err != nil {
			return ledger.Debt{}, err
		}
		return s.snap.Debts[i], nil
	}
	return ledger.Debt{}, errs.ErrNotFound
}

// RemoveDebt deletes a single debt.
func (s *Store) RemoveDebt(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	debts := make([]ledger.Debt, 0, len(s.snap.Debts))
	found := false
	for _, d := range s.snap.Debts {
		if d.ID == id {
			found = true
			continue
		}
		debts = append(debts, d)
	}
	if !found {
		return errs.ErrNotFound
	}
	s.snap.Debts = debts
	return s.persistLocked()
}

// persistLocked re-serializes the full snapshot under the storage key.
// Caller must hold s.mu.
func (s *Store) persistLocked() error {
	raw, err := json.Marshal(s.snap)
	if err != nil {
		return fmt.Errorf("encode local store: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return b.Put(s.key, raw)
	})
	if err != nil {
		return fmt.Errorf("write local store: %w", err)
	}
	return nil
}

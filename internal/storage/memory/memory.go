// Package memory provides a simple in-memory implementation used for
// development and tests. It keeps code paths easy to follow while allowing us
// to plug in a real DB later.
package memory

import (
	"context"
	"sync"

	"github.com/ospencer/debttrack/internal/errs"
	"github.com/ospencer/debttrack/internal/ledger"
)

// Store is an in-memory implementation of the repository+writer interfaces
// used by the API. It is guarded by an RWMutex for concurrent reads/writes.
type Store struct {
	mu      sync.RWMutex
	friends map[string]ledger.Friend
	debts   map[string]ledger.Debt
	// newest-first id order for both collections
	friendOrder []string
	debtOrder   []string
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{
		friends: make(map[string]ledger.Friend),
		debts:   make(map[string]ledger.Debt),
	}
}

// Seed helpers for local dev/tests.
func (s *Store) SeedFriend(f ledger.Friend) {
	s.mu.Lock()
	s.friends[f.ID] = f
	s.friendOrder = append([]string{f.ID}, s.friendOrder...)
	s.mu.Unlock()
}

func (s *Store) Reset() {
	s.mu.Lock()
	s.friends = map[string]ledger.Friend{}
	s.debts = map[string]ledger.Debt{}
	s.friendOrder = nil
	s.debtOrder = nil
	s.mu.Unlock()
}

// ListFriends implements friend.Repo, newest first.
func (s *Store) ListFriends(_ context.Context) ([]ledger.Friend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Friend, 0, len(s.friendOrder))
	for _, id := range s.friendOrder {
		if f, ok := s.friends[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// GetFriend implements friend.Repo.
func (s *Store) GetFriend(_ context.Context, id string) (ledger.Friend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.friends[id]
	if !ok {
		return ledger.Friend{}, errs.ErrNotFound
	}
	return f, nil
}

// CreateFriend implements friend.Writer.
func (s *Store) CreateFriend(_ context.Context, f ledger.Friend) (ledger.Friend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friends[f.ID] = f
	s.friendOrder = append([]string{f.ID}, s.friendOrder...)
	return f, nil
}

// DeleteFriend removes the friend and cascades deletion of every debt
// referencing it as creditor or debtor.
func (s *Store) DeleteFriend(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.friends[id]; !ok {
		return errs.ErrNotFound
	}
	delete(s.friends, id)
	s.friendOrder = removeID(s.friendOrder, id)
	kept := s.debtOrder[:0]
	for _, did := range s.debtOrder {
		d := s.debts[did]
		if d.Involves(id) {
			delete(s.debts, did)
			continue
		}
		kept = append(kept, did)
	}
	s.debtOrder = kept
	return nil
}

// ListDebts implements debt.Repo, newest first, filtered to debts involving
// friendID when it is non-empty.
func (s *Store) ListDebts(_ context.Context, friendID string) ([]ledger.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Debt, 0, len(s.debtOrder))
	for _, id := range s.debtOrder {
		d, ok := s.debts[id]
		if !ok {
			continue
		}
		if friendID != "" && !d.Involves(friendID) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// GetDebt implements debt.Repo.
func (s *Store) GetDebt(_ context.Context, id string) (ledger.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.debts[id]
	if !ok {
		return ledger.Debt{}, errs.ErrNotFound
	}
	return d, nil
}

// CreateDebt implements debt.Writer.
func (s *Store) CreateDebt(_ context.Context, d ledger.Debt) (ledger.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debts[d.ID] = d
	s.debtOrder = append([]string{d.ID}, s.debtOrder...)
	return d, nil
}

// UpdateDebt replaces an existing debt by ID.
func (s *Store) UpdateDebt(_ context.Context, d ledger.Debt) (ledger.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.debts[d.ID]; !ok {
		return ledger.Debt{}, errs.ErrNotFound
	}
	s.debts[d.ID] = d
	return d, nil
}

// DeleteDebt removes a single debt by ID.
func (s *Store) DeleteDebt(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.debts[id]; !ok {
		return errs.ErrNotFound
	}
	delete(s.debts, id)
	s.debtOrder = removeID(s.debtOrder, id)
	return nil
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

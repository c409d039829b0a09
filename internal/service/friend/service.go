// Package friend implements the friend rules: trimmed non-empty names,
// store-assigned ids and timestamps, and cascade deletion of referencing
// debts so the ledger never holds an orphan debt.
package friend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ospencer/debttrack/internal/errs"
	"github.com/ospencer/debttrack/internal/ledger"
)

type Repo interface {
	ListFriends(ctx context.Context) ([]ledger.Friend, error)
	GetFriend(ctx context.Context, id string) (ledger.Friend, error)
}

type Writer interface {
	CreateFriend(ctx context.Context, f ledger.Friend) (ledger.Friend, error)
	// DeleteFriend removes the friend and every debt naming it as creditor
	// or debtor, atomically where the store supports it.
	DeleteFriend(ctx context.Context, id string) error
}

type Service interface {
	Create(ctx context.Context, name, email string) (ledger.Friend, error)
	List(ctx context.Context) ([]ledger.Friend, error)
	Get(ctx context.Context, id string) (ledger.Friend, error)
	Remove(ctx context.Context, id string) error
}

type service struct {
	repo   Repo
	writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

// Create validates the name, assigns identity and creation time, and
// persists the friend.
func (s *service) Create(ctx context.Context, name, email string) (ledger.Friend, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ledger.Friend{}, fmt.Errorf("%w: name is required", errs.ErrInvalid)
	}
	f := ledger.Friend{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     strings.TrimSpace(email),
		CreatedAt: time.Now().UTC(),
	}
	return s.writer.CreateFriend(ctx, f)
}

func (s *service) List(ctx context.Context) ([]ledger.Friend, error) {
	return s.repo.ListFriends(ctx)
}

func (s *service) Get(ctx context.Context, id string) (ledger.Friend, error) {
	if id == "" {
		return ledger.Friend{}, errs.ErrInvalid
	}
	return s.repo.GetFriend(ctx, id)
}

// Remove deletes the friend and cascades to its debts.
func (s *service) Remove(ctx context.Context, id string) error {
	if id == "" {
		return errs.ErrInvalid
	}
	return s.writer.DeleteFriend(ctx, id)
}

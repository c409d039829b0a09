// Package debt implements the debt rules: positive amounts, distinct
// creditor/debtor, and the coupling between the paid flag and paidAt.
package debt

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ospencer/debttrack/internal/errs"
	"github.com/ospencer/debttrack/internal/ledger"
)

type Repo interface {
	// ListDebts returns debts involving friendID, or all when friendID is
	// empty, newest first.
	ListDebts(ctx context.Context, friendID string) ([]ledger.Debt, error)
	GetDebt(ctx context.Context, id string) (ledger.Debt, error)
}

type Writer interface {
	CreateDebt(ctx context.Context, d ledger.Debt) (ledger.Debt, error)
	UpdateDebt(ctx context.Context, d ledger.Debt) (ledger.Debt, error)
	DeleteDebt(ctx context.Context, id string) error
}

type Service interface {
	ValidateInput(in ledger.DebtInput) error
	Create(ctx context.Context, in ledger.DebtInput) (ledger.Debt, error)
	List(ctx context.Context, friendID string) ([]ledger.Debt, error)
	SetPaid(ctx context.Context, id string, paid bool) (ledger.Debt, error)
	Remove(ctx context.Context, id string) error
}

type service struct {
	repo   Repo
	writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

// ValidateInput checks the caller-supplied fields of a new debt.
func (s *service) ValidateInput(in ledger.DebtInput) error {
	if in.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", errs.ErrInvalid)
	}
	if in.CreditorID == "" || in.DebtorID == "" {
		return fmt.Errorf("%w: creditorId and debtorId are required", errs.ErrInvalid)
	}
	if in.CreditorID == in.DebtorID {
		return fmt.Errorf("%w: creditor and debtor must differ", errs.ErrInvalid)
	}
	return nil
}

// Create assigns identity and creation time, defaults isPaid=false with no
// paidAt, and persists the debt.
func (s *service) Create(ctx context.Context, in ledger.DebtInput) (ledger.Debt, error) {
	if err := s.ValidateInput(in); err != nil {
		return ledger.Debt{}, err
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
		IsPaid:       false,
		CreatedAt:    createdAt,
		IsDivided:    in.IsDivided,
		DividedAmong: dividedAmong,
	}
	return s.writer.CreateDebt(ctx, d)
}

func (s *service) List(ctx context.Context, friendID string) ([]ledger.Debt, error) {
	return s.repo.ListDebts(ctx, friendID)
}

// SetPaid flips the paid flag and keeps paidAt in lockstep: set to now on
// true, cleared on false. Toggling back and forth is exact, not cumulative.
func (s *service) SetPaid(ctx context.Context, id string, paid bool) (ledger.Debt, error) {
	d, err := s.repo.GetDebt(ctx, id)
	if err != nil {
		return ledger.Debt{}, err
	}
	d.IsPaid = paid
	if paid {
		now := time.Now().UTC()
		d.PaidAt = &now
	} else {
		d.PaidAt = nil
	}
	return s.writer.UpdateDebt(ctx, d)
}

func (s *service) Remove(ctx context.Context, id string) error {
	if id == "" {
		return errs.ErrInvalid
	}
	return s.writer.DeleteDebt(ctx, id)
}

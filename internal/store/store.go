// Package store defines the Ledger contract shared by the local and remote
// storage modes. Presentation collaborators hold a Ledger and never know
// which mode is behind it.
package store

import (
	"context"

	"github.com/ospencer/debttrack/internal/ledger"
)

// Ledger is the single contract both storage modes implement. Local
// operations complete synchronously; remote ones are network round-trips that
// honor the context. Errors are distinguishable via errs sentinels:
// not_found, invalid, unavailable.
type Ledger interface {
	// Refresh reloads the full friend/debt state from the backing store and
	// replaces the in-memory view wholesale. For the remote mode it is the
	// only way to reconcile after an error.
	Refresh(ctx context.Context) error
	// Friends returns the friend set with balances populated from the
	// current unpaid debt set.
	Friends(ctx context.Context) ([]ledger.Friend, error)
	Friend(ctx context.Context, id string) (ledger.Friend, error)
	AddFriend(ctx context.Context, name, email string) (ledger.Friend, error)
	// RemoveFriend deletes the friend and every debt referencing it.
	RemoveFriend(ctx context.Context, id string) error
	// Debts returns debts involving friendID, or all when it is empty,
	// newest first.
	Debts(ctx context.Context, friendID string) ([]ledger.Debt, error)
	AddDebt(ctx context.Context, in ledger.DebtInput) (ledger.Debt, error)
	// SetPaid flips the paid flag; paidAt is set on true and cleared on
	// false.
	SetPaid(ctx context.Context, id string, paid bool) (ledger.Debt, error)
	RemoveDebt(ctx context.Context, id string) error
	Close() error
}

// AddSplit plans the debt rows for req and records each one through l. Rows
// are independent; a failure partway through leaves the earlier rows in place
// and the caller reconciles with Refresh.
func AddSplit(ctx context.Context, l Ledger, req ledger.SplitRequest) ([]ledger.Debt, error) {
	inputs, err := ledger.PlanDebts(req)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Debt, 0, len(inputs))
	for _, in := range inputs {
		d, err := l.AddDebt(ctx, in)
		if err != nil {
			return out, err
		}
		out = append(out, d)
	}
	return out, nil
}

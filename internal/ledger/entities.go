// Package ledger holds the domain model for the debt tracker: friends, the
// pairwise debts between them and the ledger owner, and the pure arithmetic
// (balance aggregation, even division) shared by every store implementation.
package ledger

import (
	"time"
)

// Me is the sentinel identity for the ledger owner. It is a valid creditor or
// debtor on any Debt but never exists as a Friend record.
const Me = "me"

// FriendType records which storage mode created a friend. It is provenance
// only, not a permission boundary.
type FriendType string

const (
	// FriendTypeLocal marks friends created by the local mode.
	FriendTypeLocal FriendType = "local"
	// FriendTypeOnline marks friends created against the remote store.
	FriendTypeOnline FriendType = "online"
)

// Friend is a person the ledger owner tracks debts with.
type Friend struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Type      FriendType `json:"type,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	// Balance is derived from the unpaid debt set on every read. It is never
	// persisted.
	Balance float64 `json:"balance"`
}

// Debt is a single IOU between two identities (friend ids or Me).
type Debt struct {
	ID         string    `json:"id"`
	Amount     float64   `json:"amount"`
	CreditorID string    `json:"creditorId"`
	DebtorID   string    `json:"debtorId"`
	Name       string    `json:"name,omitempty"`
	IsPaid     bool      `json:"isPaid"`
	CreatedAt  time.Time `json:"createdAt"`
	// PaidAt is set exactly when IsPaid transitions to true and cleared when
	// it reverts to false.
	PaidAt *time.Time `json:"paidAt,omitempty"`
	// IsDivided marks a debt generated as one share of a larger split.
	IsDivided bool `json:"isDivided"`
	// DividedAmong lists the friend ids the original amount was divided
	// across. Informational; it cannot be re-derived from a single row.
	DividedAmong []string `json:"dividedAmong"`
}

// Involves reports whether id sits on either end of the debt.
func (d Debt) Involves(id string) bool {
	return d.CreditorID == id || d.DebtorID == id
}

// DebtInput carries the caller-supplied fields of a new debt. ID, IsPaid and
// PaidAt are always assigned by the store.
type DebtInput struct {
	Amount       float64
	CreditorID   string
	DebtorID     string
	Name         string
	IsDivided    bool
	DividedAmong []string
	// CreatedAt overrides the creation timestamp when non-zero.
	CreatedAt time.Time
}

// Snapshot is one store's full view of the world: the pair (Friends, Debts).
// It is also the shape of the local mode's persisted blob.
type Snapshot struct {
	Friends []Friend `json:"friends"`
	Debts   []Debt   `json:"debts"`
}

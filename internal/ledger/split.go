package ledger

import (
	"fmt"

	"github.com/govalues/decimal"

	"github.com/ospencer/debttrack/internal/errs"
)

// SplitRequest describes one add-debt submission before it is materialized
// into Debt rows.
type SplitRequest struct {
	Amount    float64
	FriendIDs []string
	Name      string
	// OwedToMe puts the ledger owner on the creditor side of every planned
	// row; otherwise the owner is the debtor.
	OwedToMe bool
	// Divide splits Amount evenly across the participants. When false every
	// selected friend gets an independent full-amount debt.
	Divide bool
	// IncludeSelf counts the owner as one extra participant in the divisor.
	// The owner's own share is implicit and never materialized as a row.
	IncludeSelf bool
}

// SplitEvenly divides amount across parties and rounds each share to two
// fractional digits, half to even. Shares summed back may differ from amount
// by under one cent per party; no redistribution row is created.
func SplitEvenly(amount float64, parties int) (float64, error) {
	if parties < 1 {
		return 0, fmt.Errorf("%w: divisor must be >= 1", errs.ErrInvalid)
	}
	total, err := decimal.NewFromFloat64(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: amount: %v", errs.ErrInvalid, err)
	}
	divisor, err := decimal.New(int64(parties), 0)
	if err != nil {
		return 0, err
	}
	share, err := total.Quo(divisor)
	if err != nil {
		return 0, err
	}
	out, ok := share.Round(2).Float64()
	if !ok {
		return 0, fmt.Errorf("%w: share out of range", errs.ErrInvalid)
	}
	return out, nil
}

// PlanDebts materializes a split request into the independent DebtInput rows
// the stores will record, one per selected friend. Divided rows all carry the
// per-person share, IsDivided=true and the full participant list.
func PlanDebts(req SplitRequest) ([]DebtInput, error) {
	if len(req.FriendIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one friend is required", errs.ErrInvalid)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", errs.ErrInvalid)
	}

	perPerson := req.Amount
	var dividedAmong []string
	if req.Divide {
		parties := len(req.FriendIDs)
		if req.IncludeSelf {
			parties++
		}
		share, err := SplitEvenly(req.Amount, parties)
		if err != nil {
			return nil, err
		}
		perPerson = share
		dividedAmong = req.FriendIDs
	}

	out := make([]DebtInput, 0, len(req.FriendIDs))
	for _, friendID := range req.FriendIDs {
		in := DebtInput{
			Amount:       perPerson,
			Name:         req.Name,
			IsDivided:    req.Divide,
			DividedAmong: dividedAmong,
		}
		if req.OwedToMe {
			in.CreditorID = Me
			in.DebtorID = friendID
		} else {
			in.CreditorID = friendID
			in.DebtorID = Me
		}
		out = append(out, in)
	}
	return out, nil
}

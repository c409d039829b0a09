package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ospencer/debttrack/internal/errs"
	"github.com/ospencer/debttrack/internal/ledger"
)

// recordingLedger captures AddDebt calls and can fail after a set number of
// rows to exercise the partial-failure contract.
type recordingLedger struct {
	Ledger
	added     []ledger.DebtInput
	failAfter int
}

func (r *recordingLedger) AddDebt(_ context.Context, in ledger.DebtInput) (ledger.Debt, error) {
	if r.failAfter > 0 && len(r.added) >= r.failAfter {
		return ledger.Debt{}, errs.ErrUnavailable
	}
	r.added = append(r.added, in)
	return ledger.Debt{
		ID:           uuid.NewString(),
		Amount:       in.Amount,
		CreditorID:   in.CreditorID,
		DebtorID:     in.DebtorID,
		Name:         in.Name,
		IsDivided:    in.IsDivided,
		DividedAmong: in.DividedAmong,
	}, nil
}

func TestAddSplit_RecordsOneRowPerFriend(t *testing.T) {
	l := &recordingLedger{}
	debts, err := AddSplit(context.Background(), l, ledger.SplitRequest{
		Amount:    90,
		FriendIDs: []string{"a", "b", "c"},
		OwedToMe:  true,
		Divide:    true,
	})
	if err != nil {
		t.Fatalf("add split: %v", err)
	}
	if len(debts) != 3 || len(l.added) != 3 {
		t.Fatalf("expected 3 rows, got %d returned / %d recorded", len(debts), len(l.added))
	}
	for _, d := range debts {
		if d.Amount != 30 || d.CreditorID != ledger.Me || !d.IsDivided {
			t.Fatalf("unexpected row: %+v", d)
		}
	}
}

func TestAddSplit_InvalidRequestRecordsNothing(t *testing.T) {
	l := &recordingLedger{}
	if _, err := AddSplit(context.Background(), l, ledger.SplitRequest{Amount: 90}); !errors.Is(err, errs.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if len(l.added) != 0 {
		t.Fatalf("rows recorded despite invalid request: %+v", l.added)
	}
}

func TestAddSplit_PartialFailureReturnsRecordedRows(t *testing.T) {
	l := &recordingLedger{failAfter: 1}
	debts, err := AddSplit(context.Background(), l, ledger.SplitRequest{
		Amount:    20,
		FriendIDs: []string{"a", "b"},
		OwedToMe:  true,
	})
	if !errors.Is(err, errs.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if len(debts) != 1 || len(l.added) != 1 {
		t.Fatalf("expected the first row to survive, got %d returned / %d recorded", len(debts), len(l.added))
	}
}

package remote

import (
	"time"

	"github.com/ospencer/debttrack/internal/ledger"
)

// wireFriend is the server's friend record. The server does not send type or
// balance; the client stamps online provenance and derives balances itself.
type wireFriend struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (w wireFriend) toDomain() ledger.Friend {
	return ledger.Friend{
		ID:        w.ID,
		Name:      w.Name,
		Email:     w.Email,
		Type:      ledger.FriendTypeOnline,
		CreatedAt: w.CreatedAt,
	}
}

// wireDebt is the server's debt record.
type wireDebt struct {
	ID           string     `json:"id"`
	Amount       float64    `json:"amount"`
	CreditorID   string     `json:"creditorId"`
	DebtorID     string     `json:"debtorId"`
	Name         string     `json:"name"`
	IsPaid       bool       `json:"isPaid"`
	CreatedAt    time.Time  `json:"createdAt"`
	PaidAt       *time.Time `json:"paidAt"`
	IsDivided    bool       `json:"isDivided"`
	DividedAmong []string   `json:"dividedAmong"`
}

func (w wireDebt) toDomain() ledger.Debt {
	dividedAmong := w.DividedAmong
	if dividedAmong == nil {
		dividedAmong = []string{}
	}
	return ledger.Debt{
		ID:           w.ID,
		Amount:       w.Amount,
		CreditorID:   w.CreditorID,
		DebtorID:     w.DebtorID,
		Name:         w.Name,
		IsPaid:       w.IsPaid,
		CreatedAt:    w.CreatedAt,
		PaidAt:       w.PaidAt,
		IsDivided:    w.IsDivided,
		DividedAmong: dividedAmong,
	}
}

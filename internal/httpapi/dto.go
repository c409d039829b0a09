package httpapi

import (
	"time"

	"github.com/ospencer/debttrack/internal/ledger"
)

type postFriendRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type friendResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type postDebtRequest struct {
	Amount       *float64 `json:"amount"`
	CreditorID   string   `json:"creditorId"`
	DebtorID     string   `json:"debtorId"`
	Name         string   `json:"name,omitempty"`
	IsDivided    bool     `json:"isDivided,omitempty"`
	DividedAmong []string `json:"dividedAmong,omitempty"`
}

type patchDebtRequest struct {
	IsPaid *bool `json:"isPaid"`
}

type debtResponse struct {
	ID           string     `json:"id"`
	Amount       float64    `json:"amount"`
	CreditorID   string     `json:"creditorId"`
	DebtorID     string     `json:"debtorId"`
	Name         string     `json:"name,omitempty"`
	IsPaid       bool       `json:"isPaid"`
	CreatedAt    time.Time  `json:"createdAt"`
	PaidAt       *time.Time `json:"paidAt,omitempty"`
	IsDivided    bool       `json:"isDivided"`
	DividedAmong []string   `json:"dividedAmong"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Database bool   `json:"database"`
}

func toFriendResponse(f ledger.Friend) friendResponse {
	return friendResponse{ID: f.ID, Name: f.Name, Email: f.Email, CreatedAt: f.CreatedAt}
}

func toFriendResponses(friends []ledger.Friend) []friendResponse {
	out := make([]friendResponse, 0, len(friends))
	for _, f := range friends {
		out = append(out, toFriendResponse(f))
	}
	return out
}

func toDebtResponse(d ledger.Debt) debtResponse {
	dividedAmong := d.DividedAmong
	if dividedAmong == nil {
		dividedAmong = []string{}
	}
	return debtResponse{
		ID:           d.ID,
		Amount:       d.Amount,
		CreditorID:   d.CreditorID,
		DebtorID:     d.DebtorID,
		Name:         d.Name,
		IsPaid:       d.IsPaid,
		CreatedAt:    d.CreatedAt,
		PaidAt:       d.PaidAt,
		IsDivided:    d.IsDivided,
		DividedAmong: dividedAmong,
	}
}

func toDebtResponses(debts []ledger.Debt) []debtResponse {
	out := make([]debtResponse, 0, len(debts))
	for _, d := range debts {
		out = append(out, toDebtResponse(d))
	}
	return out
}

func toDebtInput(req postDebtRequest) ledger.DebtInput {
	var amount float64
	if req.Amount != nil {
		amount = *req.Amount
	}
	return ledger.DebtInput{
		Amount:       amount,
		CreditorID:   req.CreditorID,
		DebtorID:     req.DebtorID,
		Name:         req.Name,
		IsDivided:    req.IsDivided,
		DividedAmong: req.DividedAmong,
	}
}

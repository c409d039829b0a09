package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ospencer/debttrack/internal/storage/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type friendResp struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type debtResp struct {
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

type readyStub struct{ err error }

func (r readyStub) Ready(_ context.Context) error { return r.err }

func setup(t *testing.T) (*memory.Store, http.Handler) {
	t.Helper()
	store := memory.New()
	h := New(store, nil, testLogger()).Handler()
	return store, h
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createFriend(t *testing.T, h http.Handler, name string) friendResp {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/friends", map[string]any{"name": name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create friend expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var fr friendResp
	if err := json.Unmarshal(rec.Body.Bytes(), &fr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return fr
}

func createDebt(t *testing.T, h http.Handler, body map[string]any) debtResp {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/debts", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create debt expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var dr debtResp
	if err := json.Unmarshal(rec.Body.Bytes(), &dr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return dr
}

func TestPostFriends_ValidAndInvalid(t *testing.T) {
	_, h := setup(t)

	rec := doJSON(t, h, http.MethodPost, "/friends", map[string]any{"name": "  Alice  ", "email": "a@example.com"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var fr friendResp
	if err := json.Unmarshal(rec.Body.Bytes(), &fr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fr.ID == "" || fr.Name != "Alice" || fr.Email != "a@example.com" || fr.CreatedAt.IsZero() {
		t.Fatalf("unexpected response: %+v", fr)
	}

	// missing name
	rec = doJSON(t, h, http.MethodPost, "/friends", map[string]any{"email": "b@example.com"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	// blank name
	rec = doJSON(t, h, http.MethodPost, "/friends", map[string]any{"name": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	// non-string name
	rec = doJSON(t, h, http.MethodPost, "/friends", map[string]any{"name": 7})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-string name, got %d", rec.Code)
	}
}

func TestFriends_ListNewestFirstAndGet(t *testing.T) {
	_, h := setup(t)
	first := createFriend(t, h, "Alice")
	second := createFriend(t, h, "Bob")

	rec := doJSON(t, h, http.MethodGet, "/friends", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list expected 200, got %d", rec.Code)
	}
	var list []friendResp
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest first [%s %s], got %+v", second.ID, first.ID, list)
	}

	rec = doJSON(t, h, http.MethodGet, "/friends/"+first.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/friends/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get missing expected 404, got %d", rec.Code)
	}
}

func TestPostDebts_ValidAndInvalid(t *testing.T) {
	_, h := setup(t)
	alice := createFriend(t, h, "Alice")

	dr := createDebt(t, h, map[string]any{
		"amount":     45.5,
		"creditorId": "me",
		"debtorId":   alice.ID,
		"name":       "dinner",
	})
	if dr.ID == "" || dr.Amount != 45.5 || dr.IsPaid || dr.PaidAt != nil {
		t.Fatalf("unexpected debt: %+v", dr)
	}
	if dr.DividedAmong == nil || len(dr.DividedAmong) != 0 {
		t.Fatalf("dividedAmong should default to empty array: %+v", dr.DividedAmong)
	}

	cases := []map[string]any{
		{"creditorId": "me", "debtorId": alice.ID},                      // amount missing
		{"amount": "ten", "creditorId": "me", "debtorId": alice.ID},     // amount not numeric
		{"amount": -5.0, "creditorId": "me", "debtorId": alice.ID},      // non-positive
		{"amount": 10.0, "debtorId": alice.ID},                          // creditor missing
		{"amount": 10.0, "creditorId": alice.ID, "debtorId": alice.ID},  // creditor == debtor
	}
	for i, body := range cases {
		if rec := doJSON(t, h, http.MethodPost, "/debts", body); rec.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d: %s", i, rec.Code, rec.Body.String())
		}
	}
}

func TestDebts_FilterByFriend(t *testing.T) {
	_, h := setup(t)
	alice := createFriend(t, h, "Alice")
	bob := createFriend(t, h, "Bob")

	createDebt(t, h, map[string]any{"amount": 10.0, "creditorId": "me", "debtorId": alice.ID})
	createDebt(t, h, map[string]any{"amount": 20.0, "creditorId": bob.ID, "debtorId": "me"})
	latest := createDebt(t, h, map[string]any{"amount": 30.0, "creditorId": "me", "debtorId": bob.ID})

	rec := doJSON(t, h, http.MethodGet, "/debts?friendId="+bob.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []debtResp
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 debts for bob, got %d", len(list))
	}
	if list[0].ID != latest.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}

	rec = doJSON(t, h, http.MethodGet, "/debts", nil)
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 3 {
		t.Fatalf("expected all 3 debts, got %d", len(list))
	}
}

func TestPatchDebt_PaidToggle(t *testing.T) {
	_, h := setup(t)
	alice := createFriend(t, h, "Alice")
	dr := createDebt(t, h, map[string]any{"amount": 12.0, "creditorId": "me", "debtorId": alice.ID})

	rec := doJSON(t, h, http.MethodPatch, "/debts/"+dr.ID, map[string]any{"isPaid": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var paid debtResp
	_ = json.Unmarshal(rec.Body.Bytes(), &paid)
	if !paid.IsPaid || paid.PaidAt == nil {
		t.Fatalf("expected paid with paidAt set: %+v", paid)
	}

	rec = doJSON(t, h, http.MethodPatch, "/debts/"+dr.ID, map[string]any{"isPaid": false})
	var reverted debtResp
	_ = json.Unmarshal(rec.Body.Bytes(), &reverted)
	if reverted.IsPaid || reverted.PaidAt != nil {
		t.Fatalf("expected paidAt cleared on revert: %+v", reverted)
	}

	// body without isPaid
	if rec := doJSON(t, h, http.MethodPatch, "/debts/"+dr.ID, map[string]any{}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	// unknown id: uniform 404 policy
	if rec := doJSON(t, h, http.MethodPatch, "/debts/nope", map[string]any{"isPaid": true}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteDebt(t *testing.T) {
	_, h := setup(t)
	alice := createFriend(t, h, "Alice")
	dr := createDebt(t, h, map[string]any{"amount": 5.0, "creditorId": "me", "debtorId": alice.ID})

	rec := doJSON(t, h, http.MethodDelete, "/debts/"+dr.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var ok struct {
		Success bool `json:"success"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &ok)
	if !ok.Success {
		t.Fatalf("expected success:true, got %s", rec.Body.String())
	}
	if rec := doJSON(t, h, http.MethodDelete, "/debts/"+dr.ID, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete expected 404, got %d", rec.Code)
	}
}

func TestDeleteFriend_CascadesDebts(t *testing.T) {
	_, h := setup(t)
	alice := createFriend(t, h, "Alice")
	bob := createFriend(t, h, "Bob")

	createDebt(t, h, map[string]any{"amount": 10.0, "creditorId": "me", "debtorId": alice.ID})
	createDebt(t, h, map[string]any{"amount": 20.0, "creditorId": alice.ID, "debtorId": "me"})
	keep := createDebt(t, h, map[string]any{"amount": 30.0, "creditorId": "me", "debtorId": bob.ID})

	rec := doJSON(t, h, http.MethodDelete, "/friends/"+alice.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/debts", nil)
	var list []debtResp
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 1 || list[0].ID != keep.ID {
		t.Fatalf("cascade removed the wrong debts: %+v", list)
	}
}

func TestHealth_DatabaseFlag(t *testing.T) {
	// no relational backend configured
	_, h := setup(t)
	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var hr struct {
		Status   string `json:"status"`
		Database bool   `json:"database"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &hr)
	if hr.Status != "ok" || hr.Database {
		t.Fatalf("expected ok/database:false, got %+v", hr)
	}

	// healthy backend
	h = New(memory.New(), readyStub{}, testLogger()).Handler()
	rec = doJSON(t, h, http.MethodGet, "/health", nil)
	_ = json.Unmarshal(rec.Body.Bytes(), &hr)
	if !hr.Database {
		t.Fatalf("expected database:true, got %+v", hr)
	}
}

func TestUnreachableDatabaseReturns503(t *testing.T) {
	h := New(memory.New(), readyStub{err: errors.New("pool down")}, testLogger()).Handler()

	for _, path := range []string{"/friends", "/debts"} {
		rec := doJSON(t, h, http.MethodGet, path, nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503, got %d", path, rec.Code)
		}
	}
	// health still answers 200 with database:false
	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health expected 200, got %d", rec.Code)
	}
	var hr struct {
		Database bool `json:"database"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &hr)
	if hr.Database {
		t.Fatal("expected database:false when ping fails")
	}
}

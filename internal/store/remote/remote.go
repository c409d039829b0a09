// Package remote implements the Ledger contract as a client of the REST API.
// Every operation is a network round-trip; the in-memory mirror is updated
// only from the server's parsed response, never from the locally-constructed
// value, so server-assigned ids and timestamps are always picked up. There
// are no retries: a failed call surfaces once and Refresh is the only
// reconciliation path.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ospencer/debttrack/internal/errs"
	"github.com/ospencer/debttrack/internal/ledger"
	"github.com/ospencer/debttrack/internal/store"
)

var _ store.Ledger = (*Store)(nil)

// Store is the remote ledger mode.
type Store struct {
	base *url.URL
	hc   *http.Client
	log  *slog.Logger

	mu      sync.Mutex
	friends []ledger.Friend
	debts   []ledger.Debt
}

// New constructs a remote store against baseURL. A nil client gets a default
// with a conservative timeout. The mirror starts empty; call Refresh to
// populate it.
func New(baseURL string, client *http.Client, logger *slog.Logger) (*Store, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Store{base: u, hc: client, log: logger}, nil
}

// Close releases idle connections; in-flight requests are not cancelled.
func (s *Store) Close() error {
	s.hc.CloseIdleConnections()
	return nil
}

// Health calls GET /health and reports whether the server's relational store
// is reachable. An unreachable server reports false with ErrUnavailable.
func (s *Store) Health(ctx context.Context) (bool, error) {
	var resp struct {
		Status   string `json:"status"`
		Database bool   `json:"database"`
	}
	if err := s.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return false, err
	}
	return resp.Database, nil
}

// Refresh re-fetches both collections and replaces the mirror wholesale.
func (s *Store) Refresh(ctx context.Context) error {
	var wireFriends []wireFriend
	if err := s.do(ctx, http.MethodGet, "/friends", nil, &wireFriends); err != nil {
		return err
	}
	var wireDebts []wireDebt
	if err := s.do(ctx, http.MethodGet, "/debts", nil, &wireDebts); err != nil {
		return err
	}
	friends := make([]ledger.Friend, 0, len(wireFriends))
	for _, wf := range wireFriends {
		friends = append(friends, wf.toDomain())
	}
	debts := make([]ledger.Debt, 0, len(wireDebts))
	for _, wd := range wireDebts {
		debts = append(debts, wd.toDomain())
	}

	s.mu.Lock()
	s.friends = friends
	s.debts = debts
	s.mu.Unlock()
	return nil
}

// Friends returns the mirrored friend set with balances derived from the
// mirrored unpaid debts.
func (s *Store) Friends(_ context.Context) ([]ledger.Friend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.WithBalances(s.friends, s.debts), nil
}

// Friend fetches one friend from the server and populates its balance from
// the mirrored debts.
func (s *Store) Friend(ctx context.Context, id string) (ledger.Friend, error) {
	var wf wireFriend
	if err := s.do(ctx, http.MethodGet, "/friends/"+url.PathEscape(id), nil, &wf); err != nil {
		return ledger.Friend{}, err
	}
	f := wf.toDomain()
	s.mu.Lock()
	f.Balance = ledger.BalancesOf(s.debts)[f.ID]
	s.mu.Unlock()
	return f, nil
}

// AddFriend posts the friend and prepends the server's version of it to the
// mirror.
func (s *Store) AddFriend(ctx context.Context, name, email string) (ledger.Friend, error) {
	body := map[string]string{"name": name}
	if strings.TrimSpace(email) != "" {
		body["email"] = email
	}
	var wf wireFriend
	if err := s.do(ctx, http.MethodPost, "/friends", body, &wf); err != nil {
		return ledger.Friend{}, err
	}
	f := wf.toDomain()
	s.mu.Lock()
	s.friends = append([]ledger.Friend{f}, s.friends...)
	s.mu.Unlock()
	return f, nil
}

// RemoveFriend deletes the friend server-side (the server cascades the debt
// deletion) and drops the friend and its debts from the mirror.
func (s *Store) RemoveFriend(ctx context.Context, id string) error {
	if err := s.do(ctx, http.MethodDelete, "/friends/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	friends := s.friends[:0]
	for _, f := range s.friends {
		if f.ID != id {
			friends = append(friends, f)
		}
	}
	s.friends = friends
	debts := s.debts[:0]
	for _, d := range s.debts {
		if !d.Involves(id) {
			debts = append(debts, d)
		}
	}
	s.debts = debts
	return nil
}

// Debts returns mirrored debts involving friendID, or all when it is empty.
func (s *Store) Debts(_ context.Context, friendID string) ([]ledger.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := ledger.DebtsInvolving(s.debts, friendID)
	cp := make([]ledger.Debt, len(out))
	copy(cp, out)
	return cp, nil
}

// AddDebt posts the debt and prepends the server's version to the mirror.
func (s *Store) AddDebt(ctx context.Context, in ledger.DebtInput) (ledger.Debt, error) {
	dividedAmong := in.DividedAmong
	if dividedAmong == nil {
		dividedAmong = []string{}
	}
	body := map[string]any{
		"amount":       in.Amount,
		"creditorId":   in.CreditorID,
		"debtorId":     in.DebtorID,
		"isDivided":    in.IsDivided,
		"dividedAmong": dividedAmong,
	}
	if in.Name != "" {
		body["name"] = in.Name
	}
	var wd wireDebt
	if err := s.do(ctx, http.MethodPost, "/debts", body, &wd); err != nil {
		return ledger.Debt{}, err
	}
	d := wd.toDomain()
	s.mu.Lock()
	s.debts = append([]ledger.Debt{d}, s.debts...)
	s.mu.Unlock()
	return d, nil
}

// SetPaid patches the debt and replaces the mirrored row with the server's
// authoritative version, which carries the paidAt transition.
func (s *Store) SetPaid(ctx context.Context, id string, paid bool) (ledger.Debt, error) {
	var wd wireDebt
	body := map[string]bool{"isPaid": paid}
	if err := s.do(ctx, http.MethodPatch, "/debts/"+url.PathEscape(id), body, &wd); err != nil {
		return ledger.Debt{}, err
	}
	d := wd.toDomain()
	s.mu.Lock()
	for i := range s.debts {
		if s.debts[i].ID == d.ID {
			s.debts[i] = d
			break
		}
	}
	s.mu.Unlock()
	return d, nil
}

// RemoveDebt deletes the debt server-side and drops it from the mirror.
func (s *Store) RemoveDebt(ctx context.Context, id string) error {
	if err := s.do(ctx, http.MethodDelete, "/debts/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	debts := s.debts[:0]
	for _, d := range s.debts {
		if d.ID != id {
			debts = append(debts, d)
		}
	}
	s.debts = debts
	return nil
}

// do runs one request/response pair. Transport failures and 503 map to
// ErrUnavailable, 404 to ErrNotFound, 400 to ErrInvalid; other non-2xx
// statuses surface as plain errors with the server's message.
func (s *Store) do(ctx context.Context, method, path string, body, out any) error {
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}

	u := *s.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := decodeErrorMessage(resp)
		s.log.Warn("api call failed", "method", method, "path", path, "status", resp.StatusCode, "msg", msg)
		switch resp.StatusCode {
		case http.StatusServiceUnavailable:
			return fmt.Errorf("%w: %s", errs.ErrUnavailable, msg)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", errs.ErrNotFound, msg)
		case http.StatusBadRequest:
			return fmt.Errorf("%w: %s", errs.ErrInvalid, msg)
		default:
			return fmt.Errorf("api error: status %d: %s", resp.StatusCode, msg)
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeErrorMessage(resp *http.Response) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error == "" {
		return http.StatusText(resp.StatusCode)
	}
	return payload.Error
}

// Package postgres provides a pgx-backed storage implementation that
// satisfies the repository and writer interfaces used by the HTTP API.
//
// It is intentionally small and explicit. Migrations that create the expected
// schema live under db/migrations. This package focuses on mapping between
// the domain entities and SQL rows and running the necessary
// statements/transactions.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ospencer/debttrack/internal/errs"
	"github.com/ospencer/debttrack/internal/ledger"
)

// Store holds a pgx connection pool and implements the read/write interfaces
// used across the service layer. All methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// --- Friend reads ---

// ListFriends returns all friends, newest first.
func (s *Store) ListFriends(ctx context.Context) ([]ledger.Friend, error) {
	rows, err := s.pool.Query(ctx, `
		select id, name, email, created_at
		from friends
		order by created_at desc, id desc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ledger.Friend, 0)
	for rows.Next() {
		f, err := scanFriend(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetFriend fetches a single friend by id.
func (s *Store) GetFriend(ctx context.Context, id string) (ledger.Friend, error) {
	row := s.pool.QueryRow(ctx, `
		select id, name, email, created_at
		from friends
		where id = $1
	`, id)
	f, err := scanFriend(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.Friend{}, errs.ErrNotFound
	}
	if err != nil {
		return ledger.Friend{}, err
	}
	return f, nil
}

// --- Friend writes ---

// CreateFriend inserts a friend row.
func (s *Store) CreateFriend(ctx context.Context, f ledger.Friend) (ledger.Friend, error) {
	var email *string
	if f.Email != "" {
		email = &f.Email
	}
	_, err := s.pool.Exec(ctx, `
		insert into friends (id, name, email, created_at)
		values ($1,$2,$3,$4)
	`, f.ID, f.Name, email, f.CreatedAt)
	if err != nil {
		return ledger.Friend{}, err
	}
	return f, nil
}

// DeleteFriend removes the friend and every debt referencing it, in one
// transaction so the no-orphan-debts invariant holds even on failure.
func (s *Store) DeleteFriend(ctx context.Context, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if _, err := tx.Exec(ctx, `
		delete from debts where creditor_id = $1 or debtor_id = $1
	`, id); err != nil {
		return err
	}
	ct, err := tx.Exec(ctx, `delete from friends where id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return tx.Commit(ctx)
}

// --- Debt reads ---

// ListDebts returns debts newest first, filtered to those involving friendID
// when it is non-empty.
func (s *Store) ListDebts(ctx context.Context, friendID string) ([]ledger.Debt, error) {
	query := `
		select id, amount, creditor_id, debtor_id, name, is_paid, created_at, paid_at, is_divided, divided_among
		from debts
	`
	args := []any{}
	if friendID != "" {
		query += ` where creditor_id = $1 or debtor_id = $1`
		args = append(args, friendID)
	}
	query += ` order by created_at desc, id desc`
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ledger.Debt, 0)
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDebt fetches a single debt by id.
func (s *Store) GetDebt(ctx context.Context, id string) (ledger.Debt, error) {
	row := s.pool.QueryRow(ctx, `
		select id, amount, creditor_id, debtor_id, name, is_paid, created_at, paid_at, is_divided, divided_among
		from debts
		where id = $1
	`, id)
	d, err := scanDebt(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.Debt{}, errs.ErrNotFound
	}
	if err != nil {
		return ledger.Debt{}, err
	}
	return d, nil
}

// --- Debt writes ---

// CreateDebt inserts a debt row.
func (s *Store) CreateDebt(ctx context.Context, d ledger.Debt) (ledger.Debt, error) {
	var name *string
	if d.Name != "" {
		name = &d.Name
	}
	_, err := s.pool.Exec(ctx, `
		insert into debts (id, amount, creditor_id, debtor_id, name, is_paid, created_at, paid_at, is_divided, divided_among)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, d.ID, d.Amount, d.CreditorID, d.DebtorID, name, d.IsPaid, d.CreatedAt, d.PaidAt, d.IsDivided, d.DividedAmong)
	if err != nil {
		return ledger.Debt{}, err
	}
	return d, nil
}

// UpdateDebt updates the mutable fields (is_paid, paid_at).
func (s *Store) UpdateDebt(ctx context.Context, d ledger.Debt) (ledger.Debt, error) {
	ct, err := s.pool.Exec(ctx, `
		update debts
		set is_paid = $1, paid_at = $2
		where id = $3
	`, d.IsPaid, d.PaidAt, d.ID)
	if err != nil {
		return ledger.Debt{}, err
	}
	if ct.RowsAffected() == 0 {
		return ledger.Debt{}, errs.ErrNotFound
	}
	return d, nil
}

// DeleteDebt removes a single debt row.
func (s *Store) DeleteDebt(ctx context.Context, id string) error {
	ct, err := s.pool.Exec(ctx, `delete from debts where id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func scanFriend(row pgx.Row) (ledger.Friend, error) {
	var f ledger.Friend
	var email *string
	if err := row.Scan(&f.ID, &f.Name, &email, &f.CreatedAt); err != nil {
		return ledger.Friend{}, err
	}
	if email != nil {
		f.Email = *email
	}
	return f, nil
}

func scanDebt(row pgx.Row) (ledger.Debt, error) {
	var d ledger.Debt
	var name *string
	if err := row.Scan(&d.ID, &d.Amount, &d.CreditorID, &d.DebtorID, &name, &d.IsPaid, &d.CreatedAt, &d.PaidAt, &d.IsDivided, &d.DividedAmong); err != nil {
		return ledger.Debt{}, err
	}
	if name != nil {
		d.Name = *name
	}
	if d.DividedAmong == nil {
		d.DividedAmong = []string{}
	}
	return d, nil
}

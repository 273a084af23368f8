// Package postgres stores customers in the customers table. The unique
// constraint on email backs up the explicit check that runs inside every
// create and update transaction.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/edvin/customers/internal/model"
	"github.com/edvin/customers/internal/platform"
	"github.com/edvin/customers/internal/store"
)

const (
	uniqueViolation = "23505"
	emailConstraint = "customers_email_key"
)

const selectCustomer = `SELECT id::text, name, email, phone, created_at, updated_at FROM customers`

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	db DB

	now   func() time.Time
	newID func() string
}

func New(db DB) *Store {
	return &Store{
		db:    db,
		now:   store.Now,
		newID: platform.NewID,
	}
}

// Compile-time check
var _ store.CustomerStore = (*Store)(nil)

func (s *Store) Create(ctx context.Context, in model.NewCustomer) (model.Customer, error) {
	c := model.Customer{
		ID:        s.newID(),
		Name:      in.Name,
		Email:     store.NormalizeEmail(in.Email),
		Phone:     store.NormalizePhone(in.Phone),
		CreatedAt: s.now(),
	}

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		exists, err := emailExists(ctx, tx, c.Email, "")
		if err != nil {
			return err
		}
		if exists {
			return store.ErrDuplicateEmail
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO customers (id, name, email, phone, created_at) VALUES ($1, $2, $3, $4, $5)`,
			c.ID, c.Name, c.Email, c.Phone, c.CreatedAt,
		)
		return err
	})
	if err != nil {
		return model.Customer{}, convertErr(fmt.Sprintf("create customer %s", c.Email), err)
	}

	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (model.Customer, error) {
	if !platform.IsID(id) {
		return model.Customer{}, fmt.Errorf("get customer %s: %w", id, store.ErrNotFound)
	}

	c, err := scanCustomer(s.db.QueryRow(ctx, selectCustomer+` WHERE id = $1`, id))
	if err != nil {
		return model.Customer{}, convertErr(fmt.Sprintf("get customer %s", id), err)
	}
	return c, nil
}

func (s *Store) List(ctx context.Context) ([]model.Customer, error) {
	rows, err := s.db.Query(ctx, selectCustomer+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}

func (s *Store) Update(ctx context.Context, id string, patch model.CustomerPatch) (model.Customer, error) {
	if !platform.IsID(id) {
		return model.Customer{}, fmt.Errorf("update customer %s: %w", id, store.ErrNotFound)
	}

	var updated model.Customer
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		current, err := scanCustomer(tx.QueryRow(ctx, selectCustomer+` WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}

		if store.EmailChanged(current, patch) {
			exists, err := emailExists(ctx, tx, store.NormalizeEmail(*patch.Email), id)
			if err != nil {
				return err
			}
			if exists {
				return store.ErrDuplicateEmail
			}
		}

		updated = store.ApplyPatch(current, patch, s.now())

		_, err = tx.Exec(ctx,
			`UPDATE customers SET name = $1, email = $2, phone = $3, updated_at = $4 WHERE id = $5`,
			updated.Name, updated.Email, updated.Phone, updated.UpdatedAt, id,
		)
		return err
	})
	if err != nil {
		return model.Customer{}, convertErr(fmt.Sprintf("update customer %s", id), err)
	}

	return updated, nil
}

// emailExists reports whether a customer other than excludeID already uses
// the normalized email. Stored emails are normalized, so plain equality
// is a case-insensitive comparison.
func emailExists(ctx context.Context, q querier, email, excludeID string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM customers WHERE email = $1 AND id::text <> $2)`,
		store.NormalizeEmail(email), excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func scanCustomer(row pgx.Row) (model.Customer, error) {
	var c model.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return model.Customer{}, err
	}

	c.CreatedAt = c.CreatedAt.UTC()
	if c.UpdatedAt != nil {
		updated := c.UpdatedAt.UTC()
		c.UpdatedAt = &updated
	}
	return c, nil
}

// convertErr maps driver errors onto the store sentinels. A unique violation
// on the email constraint means a concurrent writer won the race after the
// explicit check; any other error is a backend failure.
func convertErr(op string, err error) error {
	switch {
	case errors.Is(err, store.ErrDuplicateEmail), isEmailViolation(err):
		return fmt.Errorf("%s: %w", op, store.ErrDuplicateEmail)
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isEmailViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == emailConstraint
}

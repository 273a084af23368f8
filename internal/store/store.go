// Package store defines the storage contract for customer records and the
// semantics every backend shares: email normalization, the partial update
// rules and the sentinel errors callers match against.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/edvin/customers/internal/model"
)

var (
	ErrNotFound       = errors.New("customer not found")
	ErrDuplicateEmail = errors.New("customer with this email already exists")
)

// CustomerStore is implemented by every customer backend. Implementations
// must be safe for concurrent use and must never let two records share a
// normalized email address.
type CustomerStore interface {
	// Create stores a new customer with a backend generated ID and
	// creation timestamp. It fails with ErrDuplicateEmail when another
	// record already uses the same normalized email.
	Create(ctx context.Context, in model.NewCustomer) (model.Customer, error)

	// GetByID returns the customer with the given ID or ErrNotFound.
	GetByID(ctx context.Context, id string) (model.Customer, error)

	// List returns a snapshot of all customers. The result is never nil.
	List(ctx context.Context) ([]model.Customer, error)

	// Update applies patch to the customer identified by id and stamps
	// UpdatedAt. A failed lookup returns ErrNotFound, a conflicting email
	// returns ErrDuplicateEmail; in both cases nothing is written.
	Update(ctx context.Context, id string, patch model.CustomerPatch) (model.Customer, error)
}

// NormalizeEmail returns the canonical form used for storage and for
// uniqueness comparisons.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone maps an empty phone number to nil and copies anything else.
func NormalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	p := strings.TrimSpace(*phone)
	if p == "" {
		return nil
	}
	return &p
}

// EmailChanged reports whether applying patch would move current to a
// different normalized email, i.e. whether a uniqueness check is needed.
func EmailChanged(current model.Customer, patch model.CustomerPatch) bool {
	if patch.Email == nil {
		return false
	}
	return NormalizeEmail(*patch.Email) != NormalizeEmail(current.Email)
}

// ApplyPatch returns a copy of current with the patch applied and UpdatedAt
// set to now. UpdatedAt never precedes CreatedAt.
func ApplyPatch(current model.Customer, patch model.CustomerPatch, now time.Time) model.Customer {
	out := current.Clone()
	if patch.Name != nil {
		out.Name = *patch.Name
	}
	if patch.Email != nil {
		out.Email = NormalizeEmail(*patch.Email)
	}
	if patch.Phone != nil {
		out.Phone = NormalizePhone(patch.Phone)
	}

	if now.Before(out.CreatedAt) {
		now = out.CreatedAt
	}
	out.UpdatedAt = &now
	return out
}

// Now returns the current time in UTC at the microsecond precision a
// Postgres timestamptz column keeps, so both backends hand out identical
// values before and after a round trip.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

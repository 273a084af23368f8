// Package memory is a process-local customer backend. Its state lives for
// as long as the Store value and is never persisted.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/edvin/customers/internal/model"
	"github.com/edvin/customers/internal/platform"
	"github.com/edvin/customers/internal/store"
)

// Store keeps customers in insertion order. Every check-then-write sequence
// runs under the write lock; readers take the read lock and get copies.
type Store struct {
	mu        sync.RWMutex
	customers []model.Customer
	byID      map[string]int

	now   func() time.Time
	newID func() string
}

func New() *Store {
	return &Store{
		byID:  make(map[string]int),
		now:   store.Now,
		newID: platform.NewID,
	}
}

var _ store.CustomerStore = (*Store)(nil)

func (s *Store) Create(_ context.Context, in model.NewCustomer) (model.Customer, error) {
	email := store.NormalizeEmail(in.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailExists(email, "") {
		return model.Customer{}, fmt.Errorf("create customer %s: %w", email, store.ErrDuplicateEmail)
	}

	c := model.Customer{
		ID:        s.newID(),
		Name:      in.Name,
		Email:     email,
		Phone:     store.NormalizePhone(in.Phone),
		CreatedAt: s.now(),
	}
	s.byID[c.ID] = len(s.customers)
	s.customers = append(s.customers, c)

	return c.Clone(), nil
}

func (s *Store) GetByID(_ context.Context, id string) (model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return model.Customer{}, fmt.Errorf("get customer %s: %w", id, store.ErrNotFound)
	}
	return s.customers[idx].Clone(), nil
}

func (s *Store) List(_ context.Context) ([]model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (s *Store) Update(_ context.Context, id string, patch model.CustomerPatch) (model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return model.Customer{}, fmt.Errorf("update customer %s: %w", id, store.ErrNotFound)
	}
	current := s.customers[idx]

	if store.EmailChanged(current, patch) {
		email := store.NormalizeEmail(*patch.Email)
		if s.emailExists(email, id) {
			return model.Customer{}, fmt.Errorf("update customer %s to email %s: %w", id, email, store.ErrDuplicateEmail)
		}
	}

	updated := store.ApplyPatch(current, patch, s.now())
	s.customers[idx] = updated

	return updated.Clone(), nil
}

// emailExists reports whether any record other than excludeID uses the
// normalized email. Callers must hold s.mu.
func (s *Store) emailExists(email, excludeID string) bool {
	email = store.NormalizeEmail(email)
	for _, c := range s.customers {
		if c.ID == excludeID {
			continue
		}
		if store.NormalizeEmail(c.Email) == email {
			return true
		}
	}
	return false
}

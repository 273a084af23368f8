// Package storetest holds the behavioural suite every store.CustomerStore
// implementation must pass.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/customers/internal/model"
	"github.com/edvin/customers/internal/store"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) store.CustomerStore

// Run executes the full suite against the stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("CreateReturnsPopulatedCustomer", func(t *testing.T) { testCreate(t, newStore(t)) })
	t.Run("CreateNormalizesEmail", func(t *testing.T) { testCreateNormalizesEmail(t, newStore(t)) })
	t.Run("CreateDuplicateEmailCaseInsensitive", func(t *testing.T) { testCreateDuplicate(t, newStore(t)) })
	t.Run("GetByID", func(t *testing.T) { testGetByID(t, newStore(t)) })
	t.Run("GetByIDNotFound", func(t *testing.T) { testGetByIDNotFound(t, newStore(t)) })
	t.Run("ListEmpty", func(t *testing.T) { testListEmpty(t, newStore(t)) })
	t.Run("ListReturnsAll", func(t *testing.T) { testList(t, newStore(t)) })
	t.Run("UpdatePartial", func(t *testing.T) { testUpdatePartial(t, newStore(t)) })
	t.Run("UpdateNotFound", func(t *testing.T) { testUpdateNotFound(t, newStore(t)) })
	t.Run("UpdateToOtherEmailConflicts", func(t *testing.T) { testUpdateConflict(t, newStore(t)) })
	t.Run("UpdateOwnEmailSucceeds", func(t *testing.T) { testUpdateOwnEmail(t, newStore(t)) })
	t.Run("UpdateChangesEmail", func(t *testing.T) { testUpdateChangesEmail(t, newStore(t)) })
	t.Run("UpdateClearsPhone", func(t *testing.T) { testUpdateClearsPhone(t, newStore(t)) })
	t.Run("ReturnedValuesAreCopies", func(t *testing.T) { testCopies(t, newStore(t)) })
	t.Run("ConcurrentCreateSameEmail", func(t *testing.T) { testConcurrentCreate(t, newStore(t)) })
	t.Run("ConcurrentUpdateToSameEmail", func(t *testing.T) { testConcurrentUpdate(t, newStore(t)) })
	t.Run("EndToEnd", func(t *testing.T) { testEndToEnd(t, newStore(t)) })
}

func strPtr(s string) *string { return &s }

func mustCreate(t *testing.T, s store.CustomerStore, name, email string) model.Customer {
	t.Helper()
	c, err := s.Create(context.Background(), model.NewCustomer{Name: name, Email: email})
	require.NoError(t, err)
	return c
}

func testCreate(t *testing.T, s store.CustomerStore) {
	c, err := s.Create(context.Background(), model.NewCustomer{
		Name:  "Alice Example",
		Email: "alice@example.com",
		Phone: strPtr("+10000000000"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Alice Example", c.Name)
	assert.Equal(t, "alice@example.com", c.Email)
	require.NotNil(t, c.Phone)
	assert.Equal(t, "+10000000000", *c.Phone)
	assert.False(t, c.CreatedAt.IsZero())
	assert.Nil(t, c.UpdatedAt)
}

func testCreateNormalizesEmail(t *testing.T, s store.CustomerStore) {
	c := mustCreate(t, s, "Mixed", "  Mixed.Case@Example.COM ")
	assert.Equal(t, "mixed.case@example.com", c.Email)

	got, err := s.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "mixed.case@example.com", got.Email)
}

func testCreateDuplicate(t *testing.T, s store.CustomerStore) {
	ctx := context.Background()
	mustCreate(t, s, "First", "dup@example.com")

	for _, email := range []string{"dup@example.com", "DUP@example.com", " Dup@Example.Com "} {
		_, err := s.Create(ctx, model.NewCustomer{Name: "Second", Email: email})
		assert.ErrorIs(t, err, store.ErrDuplicateEmail, "email=%q", email)
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "First", all[0].Name)
}

func testGetByID(t *testing.T, s store.CustomerStore) {
	created := mustCreate(t, s, "Bob", "bob@example.com")

	found, err := s.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)
}

// nonCanonicalIDs returns spellings of id that uuid parsers accept but
// that are not the id a backend handed out.
func nonCanonicalIDs(id string) []string {
	return []string{
		strings.ToUpper(id),
		"urn:uuid:" + id,
		"{" + id + "}",
		strings.ReplaceAll(id, "-", ""),
	}
}

func testGetByIDNotFound(t *testing.T, s store.CustomerStore) {
	bob := mustCreate(t, s, "Bob", "bob@example.com")

	ids := append([]string{"nonexistent", "", "00000000-0000-4000-8000-000000000000"}, nonCanonicalIDs(bob.ID)...)
	for _, id := range ids {
		_, err := s.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, store.ErrNotFound, "id=%q", id)
	}
}

func testListEmpty(t *testing.T, s store.CustomerStore) {
	all, err := s.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, all)
	assert.Empty(t, all)
}

func testList(t *testing.T, s store.CustomerStore) {
	c1 := mustCreate(t, s, "C1", "c1@example.com")
	c2 := mustCreate(t, s, "C2", "c2@example.com")

	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.Customer{c1, c2}, all)
}

func testUpdatePartial(t *testing.T, s store.CustomerStore) {
	ctx := context.Background()
	created := mustCreate(t, s, "Bob", "bob@example.com")

	updated, err := s.Update(ctx, created.ID, model.CustomerPatch{Phone: strPtr("+19990000000")})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Bob", updated.Name)
	assert.Equal(t, "bob@example.com", updated.Email)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "+19990000000", *updated.Phone)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	require.NotNil(t, updated.UpdatedAt)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	found, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, found)
}

func testUpdateNotFound(t *testing.T, s store.CustomerStore) {
	ctx := context.Background()
	bob := mustCreate(t, s, "Bob", "bob@example.com")

	ids := append([]string{"nonexistent", "no-id", "00000000-0000-4000-8000-000000000000"}, nonCanonicalIDs(bob.ID)...)
	for _, id := range ids {
		_, err := s.Update(ctx, id, model.CustomerPatch{Name: strPtr("x")})
		assert.ErrorIs(t, err, store.ErrNotFound, "id=%q", id)
	}

	found, err := s.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, bob, found)
}

func testUpdateConflict(t *testing.T, s store.CustomerStore) {
	ctx := context.Background()
	mustCreate(t, s, "A", "a@example.com")
	second := mustCreate(t, s, "B", "b@example.com")

	for _, email := range []string{"a@example.com", "A@EXAMPLE.com", "A@Example.Com"} {
		_, err := s.Update(ctx, second.ID, model.CustomerPatch{
			Name:  strPtr("Changed"),
			Email: strPtr(email),
		})
		assert.ErrorIs(t, err, store.ErrDuplicateEmail, "email=%q", email)
	}

	// A rejected update writes nothing, not even the other fields.
	found, err := s.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second, found)
}

func testUpdateOwnEmail(t *testing.T, s store.CustomerStore) {
	ctx := context.Background()
	created := mustCreate(t, s, "Self", "self@example.com")

	for _, email := range []string{"self@example.com", "SELF@Example.com"} {
		updated, err := s.Update(ctx, created.ID, model.CustomerPatch{Email: strPtr(email)})
		require.NoError(t, err, "email=%q", email)
		assert.Equal(t, "self@example.com", updated.Email)
		assert.NotNil(t, updated.UpdatedAt)
	}
}

func testUpdateChangesEmail(t *testing.T, s store.CustomerStore) {
	ctx := context.Background()
	created := mustCreate(t, s, "Mover", "old@example.com")

	updated, err := s.Update(ctx, created.ID, model.CustomerPatch{Email: strPtr("New@Example.com")})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)

	// The old address is free again, the new one is taken.
	mustCreate(t, s, "Reuser", "old@example.com")
	_, err = s.Create(ctx, model.NewCustomer{Name: "Taker", Email: "new@example.com"})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func testUpdateClearsPhone(t *testing.T, s store.CustomerStore) {
	ctx := context.Background()
	created, err := s.Create(ctx, model.NewCustomer{Name: "P", Email: "p@example.com", Phone: strPtr("+10000000000")})
	require.NoError(t, err)

	updated, err := s.Update(ctx, created.ID, model.CustomerPatch{Phone: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.Phone)
}

func testCopies(t *testing.T, s store.CustomerStore) {
	ctx := context.Background()
	created, err := s.Create(ctx, model.NewCustomer{Name: "Orig", Email: "orig@example.com", Phone: strPtr("+10000000000")})
	require.NoError(t, err)

	created.Name = "Mutated"
	*created.Phone = "+19999999999"

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	all[0].Name = "Mutated too"

	found, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Orig", found.Name)
	require.NotNil(t, found.Phone)
	assert.Equal(t, "+10000000000", *found.Phone)
}

func testConcurrentCreate(t *testing.T, s store.CustomerStore) {
	const n = 25
	var ok, dup, other atomic.Int32

	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := s.Create(context.Background(), model.NewCustomer{
				Name:  fmt.Sprintf("Racer %d", i),
				Email: "race@example.com",
			})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, store.ErrDuplicateEmail):
				dup.Add(1)
			default:
				other.Add(1)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, ok.Load())
	assert.EqualValues(t, n-1, dup.Load())
	assert.EqualValues(t, 0, other.Load())

	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testConcurrentUpdate(t *testing.T, s store.CustomerStore) {
	const n = 10
	ids := make([]string, n)
	for i := range ids {
		ids[i] = mustCreate(t, s, fmt.Sprintf("U%d", i), fmt.Sprintf("u%d@example.com", i)).ID
	}

	var ok, dup atomic.Int32
	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			_, err := s.Update(context.Background(), id, model.CustomerPatch{Email: strPtr("Target@example.com")})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, store.ErrDuplicateEmail):
				dup.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, ok.Load())
	assert.EqualValues(t, n-1, dup.Load())
	assertUniqueEmails(t, s)
}

func testEndToEnd(t *testing.T, s store.CustomerStore) {
	ctx := context.Background()

	created, err := s.Create(ctx, model.NewCustomer{
		Name:  "Alice",
		Email: "alice@example.com",
		Phone: strPtr("+10000000000"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())
	require.Nil(t, created.UpdatedAt)

	found, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	updated, err := s.Update(ctx, created.ID, model.CustomerPatch{
		Name:  strPtr("Updated"),
		Phone: strPtr("+19999999999"),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Updated", updated.Name)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "+19999999999", *updated.Phone)
	assert.Equal(t, "alice@example.com", updated.Email)
	require.NotNil(t, updated.UpdatedAt)
}

func assertUniqueEmails(t *testing.T, s store.CustomerStore) {
	t.Helper()
	all, err := s.List(context.Background())
	require.NoError(t, err)

	seen := make(map[string]string, len(all))
	for _, c := range all {
		email := store.NormalizeEmail(c.Email)
		if other, ok := seen[email]; ok {
			t.Errorf("customers %s and %s share email %s", other, c.ID, email)
		}
		seen[email] = c.ID
	}
}

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID_ReturnsValidUUIDString(t *testing.T) {
	id := NewID()
	assert.NotEmpty(t, id)
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, id)
	assert.True(t, IsID(id))
}

func TestNewID_ReturnsUniqueValues(t *testing.T) {
	seen := make(map[string]bool, 100)
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.False(t, seen[id], "duplicate ID generated: %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, 100)
}

func TestIsID(t *testing.T) {
	assert.False(t, IsID(""))
	assert.False(t, IsID("nonexistent"))
	assert.False(t, IsID("no-id"))
	assert.True(t, IsID("550e8400-e29b-41d4-a716-446655440000"))
}

func TestIsID_RejectsNonCanonicalForms(t *testing.T) {
	for _, id := range []string{
		"550E8400-E29B-41D4-A716-446655440000",
		"urn:uuid:550e8400-e29b-41d4-a716-446655440000",
		"{550e8400-e29b-41d4-a716-446655440000}",
		"550e8400e29b41d4a716446655440000",
	} {
		assert.False(t, IsID(id), "id=%q", id)
	}
}

func TestRandomToken(t *testing.T) {
	for _, n := range []int{1, 6, 10, 32} {
		assert.Regexp(t, `^[a-z0-9]+$`, RandomToken(n))
		assert.Len(t, RandomToken(n), n)
	}
	assert.Empty(t, RandomToken(0))
}

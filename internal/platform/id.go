package platform

import (
	"crypto/rand"

	"github.com/google/uuid"
)

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewID returns a random UUIDv4 string used as a customer ID.
func NewID() string {
	return uuid.New().String()
}

// IsID reports whether s is an ID in the form NewID produces: a lower-case,
// hyphenated UUID. Other spellings uuid.Parse accepts (urn, braces,
// upper-case, no hyphens) are not IDs.
func IsID(s string) bool {
	u, err := uuid.Parse(s)
	return err == nil && u.String() == s
}

// RandomToken returns n lower-case alphanumeric characters from crypto/rand.
func RandomToken(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand: " + err.Error())
	}
	for i := range b {
		b[i] = tokenAlphabet[b[i]%byte(len(tokenAlphabet))]
	}
	return string(b)
}

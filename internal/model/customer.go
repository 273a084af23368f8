package model

import "time"

// Customer is a stored customer record. Email is always kept in its
// normalized form.
type Customer struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Clone returns a deep copy so callers never share pointer fields with
// backend state.
func (c Customer) Clone() Customer {
	out := c
	if c.Phone != nil {
		phone := *c.Phone
		out.Phone = &phone
	}
	if c.UpdatedAt != nil {
		updated := *c.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out
}

// NewCustomer holds the client-supplied fields of a create call. The ID and
// timestamps are always assigned by the backend.
type NewCustomer struct {
	Name  string
	Email string
	Phone *string
}

// CustomerPatch is a partial update. Nil fields are left unchanged; a
// non-nil empty Phone clears the phone number.
type CustomerPatch struct {
	Name  *string
	Email *string
	Phone *string
}

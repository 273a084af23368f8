package request

import "github.com/edvin/customers/internal/model"

// CreateCustomer is the body of POST /customers.
type CreateCustomer struct {
	Name  string  `json:"name" validate:"required,notblank"`
	Email string  `json:"email" validate:"required,email"`
	Phone *string `json:"phone" validate:"omitnil,phone"`
}

func (c CreateCustomer) ToModel() model.NewCustomer {
	return model.NewCustomer{Name: c.Name, Email: c.Email, Phone: c.Phone}
}

// UpdateCustomer is the body of PUT and PATCH /customers/{id}. Absent fields
// are left unchanged; an empty phone clears it.
type UpdateCustomer struct {
	Name  *string `json:"name" validate:"omitnil,notblank"`
	Email *string `json:"email" validate:"omitnil,email"`
	Phone *string `json:"phone" validate:"omitnil,phone"`
}

func (u UpdateCustomer) ToModel() model.CustomerPatch {
	return model.CustomerPatch{Name: u.Name, Email: u.Email, Phone: u.Phone}
}

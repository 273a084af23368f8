package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/customers/internal/api/request"
	"github.com/edvin/customers/internal/api/response"
	"github.com/edvin/customers/internal/store"
)

// Customer handles customer record endpoints.
type Customer struct {
	store store.CustomerStore
}

// NewCustomer creates a new Customer handler.
func NewCustomer(s store.CustomerStore) *Customer {
	return &Customer{store: s}
}

// Create godoc
//
//	@Summary		Create a customer
//	@Tags			Customers
//	@Param			body body request.CreateCustomer true "Customer details"
//	@Success		201 {object} model.Customer
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		409 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/customers [post]
func (h *Customer) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCustomer
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := h.store.Create(r.Context(), req.ToModel())
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, customer)
}

// List godoc
//
//	@Summary		List all customers
//	@Tags			Customers
//	@Success		200 {array} model.Customer
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/customers [get]
func (h *Customer) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.store.List(r.Context())
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, customers)
}

// Get godoc
//
//	@Summary		Get a customer
//	@Tags			Customers
//	@Param			id path string true "Customer ID"
//	@Success		200 {object} model.Customer
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/customers/{id} [get]
func (h *Customer) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, customer)
}

// Update godoc
//
//	@Summary		Update a customer
//	@Description	Fields left out of the body are unchanged. An empty phone clears it.
//	@Tags			Customers
//	@Param			id path string true "Customer ID"
//	@Param			body body request.UpdateCustomer true "Fields to change"
//	@Success		200 {object} model.Customer
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		409 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/customers/{id} [put]
func (h *Customer) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.UpdateCustomer
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := h.store.Update(r.Context(), id, req.ToModel())
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, customer)
}

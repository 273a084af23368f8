package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/customers/internal/model"
)

// newRequest creates a new HTTP request with an optional JSON body.
func newRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// newRequestRaw creates a new HTTP request with a raw string body.
func newRequestRaw(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withChiURLParam adds a chi URL parameter to the request context.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeErrorResponse parses the JSON error response body into a map.
func decodeErrorResponse(rec *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}

func decodeCustomer(rec *httptest.ResponseRecorder) model.Customer {
	var c model.Customer
	json.Unmarshal(rec.Body.Bytes(), &c)
	return c
}

var errBackend = errors.New("backend unavailable")

// failingStore fails every call with errBackend.
type failingStore struct{}

func (failingStore) Create(context.Context, model.NewCustomer) (model.Customer, error) {
	return model.Customer{}, errBackend
}

func (failingStore) GetByID(context.Context, string) (model.Customer, error) {
	return model.Customer{}, errBackend
}

func (failingStore) List(context.Context) ([]model.Customer, error) {
	return nil, errBackend
}

func (failingStore) Update(context.Context, string, model.CustomerPatch) (model.Customer, error) {
	return model.Customer{}, errBackend
}

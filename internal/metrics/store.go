package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/edvin/customers/internal/model"
	"github.com/edvin/customers/internal/store"
)

const (
	ResultOK             = "ok"
	ResultNotFound       = "not_found"
	ResultDuplicateEmail = "duplicate_email"
	ResultError          = "error"
)

var (
	StoreOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "customer_store_operations_total",
		Help: "Total number of customer store operations",
	}, []string{"backend", "op", "result"})

	StoreOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "customer_store_operation_duration_seconds",
		Help:    "Duration of customer store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "op"})
)

type instrumentedStore struct {
	backend string
	next    store.CustomerStore
}

// InstrumentStore wraps next so every call is counted and timed under the
// given backend label. Errors pass through untouched.
func InstrumentStore(backend string, next store.CustomerStore) store.CustomerStore {
	return &instrumentedStore{backend: backend, next: next}
}

func (s *instrumentedStore) Create(ctx context.Context, in model.NewCustomer) (model.Customer, error) {
	defer s.observe("create", time.Now())()
	c, err := s.next.Create(ctx, in)
	s.count("create", err)
	return c, err
}

func (s *instrumentedStore) GetByID(ctx context.Context, id string) (model.Customer, error) {
	defer s.observe("get", time.Now())()
	c, err := s.next.GetByID(ctx, id)
	s.count("get", err)
	return c, err
}

func (s *instrumentedStore) List(ctx context.Context) ([]model.Customer, error) {
	defer s.observe("list", time.Now())()
	cs, err := s.next.List(ctx)
	s.count("list", err)
	return cs, err
}

func (s *instrumentedStore) Update(ctx context.Context, id string, patch model.CustomerPatch) (model.Customer, error) {
	defer s.observe("update", time.Now())()
	c, err := s.next.Update(ctx, id, patch)
	s.count("update", err)
	return c, err
}

func (s *instrumentedStore) observe(op string, start time.Time) func() {
	return func() {
		StoreOperationDuration.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
	}
}

func (s *instrumentedStore) count(op string, err error) {
	StoreOperationsTotal.WithLabelValues(s.backend, op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, store.ErrNotFound):
		return ResultNotFound
	case errors.Is(err, store.ErrDuplicateEmail):
		return ResultDuplicateEmail
	default:
		return ResultError
	}
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ResultInvalid marks requests rejected before reaching the store.
const ResultInvalid = "invalid"

// RouteUnmatched labels requests that matched no customer route, so probing
// clients cannot grow the label set.
const RouteUnmatched = "unmatched"

var (
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "customer_api_requests_total",
		Help: "Total number of customer API requests by route and outcome",
	}, []string{"method", "route", "code", "result"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "customer_api_request_duration_seconds",
		Help:    "Duration of customer API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// StatusResult classifies an API response status with the same result
// labels the store decorator uses.
func StatusResult(status int) string {
	switch {
	case status == http.StatusNotFound:
		return ResultNotFound
	case status == http.StatusConflict:
		return ResultDuplicateEmail
	case status >= http.StatusInternalServerError:
		return ResultError
	case status >= http.StatusBadRequest:
		return ResultInvalid
	default:
		return ResultOK
	}
}

// ObserveRequest records one finished API request. An empty route is
// recorded as RouteUnmatched.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = RouteUnmatched
	}
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status), StatusResult(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

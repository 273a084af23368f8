package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolStater is implemented by *pgxpool.Pool.
type PoolStater interface {
	Stat() *pgxpool.Stat
}

// RegisterPoolMetrics exposes connection pool statistics of the customer
// database as gauges on reg.
func RegisterPoolMetrics(reg prometheus.Registerer, pool PoolStater) error {
	gauges := []struct {
		name string
		help string
		fn   func(*pgxpool.Stat) int32
	}{
		{"customer_db_pool_acquired_conns", "Number of currently acquired connections in the pool", (*pgxpool.Stat).AcquiredConns},
		{"customer_db_pool_idle_conns", "Number of idle connections in the pool", (*pgxpool.Stat).IdleConns},
		{"customer_db_pool_total_conns", "Total number of connections in the pool", (*pgxpool.Stat).TotalConns},
		{"customer_db_pool_max_conns", "Maximum number of connections in the pool", (*pgxpool.Stat).MaxConns},
	}

	for _, g := range gauges {
		fn := g.fn
		collector := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: g.name,
			Help: g.help,
		}, func() float64 {
			return float64(fn(pool.Stat()))
		})
		if err := reg.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

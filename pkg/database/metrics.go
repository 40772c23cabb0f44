package database

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/event"
)

// poolMetric is one pool statistic exported by a statsCollector.
type poolMetric struct {
	desc      *prometheus.Desc
	valueType prometheus.ValueType
	value     func() float64
}

// statsCollector exports a fixed set of pool statistics read at scrape time.
type statsCollector struct {
	service string
	metrics []poolMetric
}

func (c *statsCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

func (c *statsCollector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.metrics {
		ch <- prometheus.MustNewConstMetric(m.desc, m.valueType, m.value(), c.service)
	}
}

func newPoolMetric(name, help string, vt prometheus.ValueType, value func() float64) poolMetric {
	return poolMetric{
		desc:      prometheus.NewDesc(name, help, []string{"service"}, nil),
		valueType: vt,
		value:     value,
	}
}

// NewPgxPoolCollector exports pgxpool statistics as db_pool_* metrics.
func NewPgxPoolCollector(pool *pgxpool.Pool, service string) prometheus.Collector {
	stat := func() *pgxpool.Stat { return pool.Stat() }
	return &statsCollector{
		service: service,
		metrics: []poolMetric{
			newPoolMetric("db_pool_acquired_connections", "Number of currently acquired connections",
				prometheus.GaugeValue, func() float64 { return float64(stat().AcquiredConns()) }),
			newPoolMetric("db_pool_idle_connections", "Number of currently idle connections",
				prometheus.GaugeValue, func() float64 { return float64(stat().IdleConns()) }),
			newPoolMetric("db_pool_total_connections", "Total number of connections in the pool",
				prometheus.GaugeValue, func() float64 { return float64(stat().TotalConns()) }),
			newPoolMetric("db_pool_max_connections", "Maximum number of connections allowed",
				prometheus.GaugeValue, func() float64 { return float64(stat().MaxConns()) }),
			newPoolMetric("db_pool_acquire_count_total", "Total number of connection acquires",
				prometheus.CounterValue, func() float64 { return float64(stat().AcquireCount()) }),
			newPoolMetric("db_pool_acquire_duration_seconds_total", "Total time spent acquiring connections",
				prometheus.CounterValue, func() float64 { return stat().AcquireDuration().Seconds() }),
			newPoolMetric("db_pool_empty_acquire_count_total", "Acquires that had to wait for a connection",
				prometheus.CounterValue, func() float64 { return float64(stat().EmptyAcquireCount()) }),
			newPoolMetric("db_pool_canceled_acquire_count_total", "Acquires canceled by their context",
				prometheus.CounterValue, func() float64 { return float64(stat().CanceledAcquireCount()) }),
		},
	}
}

// RedisPoolStater is implemented by *redis.Client.
type RedisPoolStater interface {
	PoolStats() *redis.PoolStats
}

// NewRedisPoolCollector exports go-redis pool statistics as redis_pool_* metrics.
func NewRedisPoolCollector(client RedisPoolStater, service string) prometheus.Collector {
	return &statsCollector{
		service: service,
		metrics: []poolMetric{
			newPoolMetric("redis_pool_hits_total", "Free connections found in the pool",
				prometheus.CounterValue, func() float64 { return float64(client.PoolStats().Hits) }),
			newPoolMetric("redis_pool_misses_total", "Free connections not found in the pool",
				prometheus.CounterValue, func() float64 { return float64(client.PoolStats().Misses) }),
			newPoolMetric("redis_pool_timeouts_total", "Waits for a connection that timed out",
				prometheus.CounterValue, func() float64 { return float64(client.PoolStats().Timeouts) }),
			newPoolMetric("redis_pool_total_connections", "Total connections in the pool",
				prometheus.GaugeValue, func() float64 { return float64(client.PoolStats().TotalConns) }),
			newPoolMetric("redis_pool_idle_connections", "Idle connections in the pool",
				prometheus.GaugeValue, func() float64 { return float64(client.PoolStats().IdleConns) }),
		},
	}
}

var mongoPoolEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mongo_pool_events_total",
		Help: "MongoDB connection pool events by type",
	},
	[]string{"service", "type"},
)

// MongoPoolMonitor returns a driver pool monitor that counts connection pool
// events. Register MongoPoolEvents to expose them.
func MongoPoolMonitor(service string) *event.PoolMonitor {
	return &event.PoolMonitor{
		Event: func(e *event.PoolEvent) {
			mongoPoolEvents.WithLabelValues(service, e.Type).Inc()
		},
	}
}

// MongoPoolEvents is the collector fed by MongoPoolMonitor.
func MongoPoolEvents() prometheus.Collector {
	return mongoPoolEvents
}

package database

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/event"
)

type fakeRedisStats struct {
	stats redis.PoolStats
}

func (f *fakeRedisStats) PoolStats() *redis.PoolStats {
	s := f.stats
	return &s
}

func TestRedisPoolCollector(t *testing.T) {
	stats := &fakeRedisStats{stats: redis.PoolStats{Hits: 7, Misses: 2, TotalConns: 4, IdleConns: 3}}
	c := NewRedisPoolCollector(stats, "swagshop")

	expected := `
# HELP redis_pool_hits_total Free connections found in the pool
# TYPE redis_pool_hits_total counter
redis_pool_hits_total{service="swagshop"} 7
# HELP redis_pool_idle_connections Idle connections in the pool
# TYPE redis_pool_idle_connections gauge
redis_pool_idle_connections{service="swagshop"} 3
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"redis_pool_hits_total", "redis_pool_idle_connections"))
	assert.Equal(t, 5, testutil.CollectAndCount(c))

	stats.stats.Hits = 9
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(`
# HELP redis_pool_hits_total Free connections found in the pool
# TYPE redis_pool_hits_total counter
redis_pool_hits_total{service="swagshop"} 9
`), "redis_pool_hits_total"))
}

func TestPgxPoolCollector_Describe(t *testing.T) {
	c := NewPgxPoolCollector(nil, "swagshop")

	var names []string
	ch := make(chan *prometheus.Desc, 16)
	c.Describe(ch)
	close(ch)
	for d := range ch {
		names = append(names, d.String())
	}

	require.Len(t, names, 8)
	assert.Contains(t, strings.Join(names, " "), "db_pool_acquired_connections")
	assert.Contains(t, strings.Join(names, " "), "db_pool_canceled_acquire_count_total")
}

func TestMongoPoolMonitor(t *testing.T) {
	monitor := MongoPoolMonitor("mongo-test")
	monitor.Event(&event.PoolEvent{Type: event.GetSucceeded})
	monitor.Event(&event.PoolEvent{Type: event.GetSucceeded})
	monitor.Event(&event.PoolEvent{Type: event.ConnectionClosed})

	assert.Equal(t, float64(2), testutil.ToFloat64(mongoPoolEvents.WithLabelValues("mongo-test", event.GetSucceeded)))
	assert.Equal(t, float64(1), testutil.ToFloat64(mongoPoolEvents.WithLabelValues("mongo-test", event.ConnectionClosed)))
	assert.Same(t, mongoPoolEvents, MongoPoolEvents())
}

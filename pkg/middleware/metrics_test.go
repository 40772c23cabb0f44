package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func metricsRouter(service string, status int) *chi.Mux {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics(service))
	r.Put("/wishlist/product/add", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	r.Get("/product", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	return r
}

func TestPrometheusMetrics_CountsByRoutePattern(t *testing.T) {
	r := metricsRouter("count-svc", http.StatusOK)
	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/wishlist/product/add", nil))
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("count-svc", "PUT", "/wishlist/product/add", "200"))
	assert.Equal(t, float64(3), got)
}

func TestPrometheusMetrics_CapturesStatus(t *testing.T) {
	r := metricsRouter("status-svc", http.StatusInternalServerError)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/wishlist/product/add", nil))

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("status-svc", "PUT", "/wishlist/product/add", "500"))
	assert.Equal(t, float64(1), got)
}

func TestPrometheusMetrics_DefaultStatusIs200(t *testing.T) {
	r := metricsRouter("default-svc", http.StatusOK)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/product", nil))

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("default-svc", "GET", "/product", "200"))
	assert.Equal(t, float64(1), got)
}

func TestPrometheusMetrics_Unmatched(t *testing.T) {
	h := PrometheusMetrics("bare-svc")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere/123", nil))

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("bare-svc", "GET", "unmatched", "404"))
	assert.Equal(t, float64(1), got)
}

func TestPrometheusMetrics_InFlightGauge(t *testing.T) {
	var during float64
	h := PrometheusMetrics("inflight-svc")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(httpRequestsInFlight.WithLabelValues("inflight-svc"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, float64(1), during)
	assert.Equal(t, float64(0), testutil.ToFloat64(httpRequestsInFlight.WithLabelValues("inflight-svc")))
}

func TestPrometheusMetrics_DurationObserved(t *testing.T) {
	// The histogram is process-global, so count only the series this test adds.
	before := testutil.CollectAndCount(httpRequestDuration)

	r := metricsRouter("hist-"+uuid.NewString(), http.StatusOK)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/product", nil))
	assert.Equal(t, before+1, testutil.CollectAndCount(httpRequestDuration))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/product", nil))
	assert.Equal(t, before+1, testutil.CollectAndCount(httpRequestDuration), "same labels reuse the series")
}

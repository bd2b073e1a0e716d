package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.CacheLookup("exchange", OutcomeHit)
	m.CacheLookup("exchange", OutcomeHit)
	m.CacheLookup("history", OutcomeExpired)
	m.RemoteFetch("exchange", nil)
	m.RemoteFetch("exchange", errors.New("boom"))
	m.StoreWriteFailure("history")
	m.ObserveHTTPRequest("/rates/{base}/{target}", http.MethodGet, http.StatusOK, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("exchange", OutcomeHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("history", OutcomeExpired)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteFetchesTotal.WithLabelValues("exchange", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteFetchesTotal.WithLabelValues("exchange", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreWriteFailuresTotal.WithLabelValues("history")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/rates/{base}/{target}", "GET", "200")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.CacheLookup("exchange", OutcomeMiss)
		m.RemoteFetch("exchange", nil)
		m.StoreWriteFailure("exchange")
		m.ObserveHTTPRequest("/", http.MethodGet, http.StatusOK, time.Second)
	})
}

func TestMetricsHandler(t *testing.T) {
	// Separate instances must not collide on registration
	_ = NewMetrics()
	m := NewMetrics()
	m.CacheLookup("exchange", OutcomeMiss)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `rate_cache_lookups_total{kind="exchange",outcome="miss"} 1`)
}

package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSaleOperation(t *testing.T) {
	m := New(DefaultConfig("sales-management"))

	m.RecordSaleOperation("create", nil)
	m.RecordSaleOperation("create", nil)
	m.RecordSaleOperation("create", errors.New("conflict"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SaleOperations.WithLabelValues("sales-management", "create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SaleOperations.WithLabelValues("sales-management", "create", "error")))
}

func TestHTTPMetricsAndHandler(t *testing.T) {
	m := New(DefaultConfig("sales-management"))
	m.IncrementHTTPRequestsInFlight()
	m.RecordHTTPRequest(http.MethodGet, "/sales", http.StatusOK, 5*time.Millisecond)
	m.DecrementHTTPRequestsInFlight()
	m.RecordLineItemsWritten(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("sales-management", "GET", "/sales", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsInFlight))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.LineItemsWritten))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sales_http_requests_total")
}

func TestRegistryServesExtraCollectors(t *testing.T) {
	m := New(DefaultConfig("sales-management"))
	extra := prometheus.NewGauge(prometheus.GaugeOpts{Name: "sales_db_open_connections_test"})
	m.Registry().MustRegister(extra)
	extra.Set(4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "sales_db_open_connections_test 4")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Second)
		m.IncrementHTTPRequestsInFlight()
		m.DecrementHTTPRequestsInFlight()
		m.RecordSaleOperation("create", nil)
		m.RecordLineItemsWritten(1)
		m.ObserveSaleQuery(2)
	})
	assert.Nil(t, m.Registry())
}

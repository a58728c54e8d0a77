package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ordering/internal/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_HandlerExposesCollectors(t *testing.T) {
	m := metrics.New()
	m.ObserveRequest(http.MethodPost, "/api/v1/orders", http.StatusCreated, 12*time.Millisecond)
	m.OrderCreated()
	m.StatusChanged("CONFIRMED")
	m.CatalogCall(metrics.CatalogOutcomeOK)
	m.SetStaleOrders(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `ordering_http_requests_total{method="POST",route="/api/v1/orders",status="201"} 1`)
	assert.Contains(t, body, "ordering_orders_created_total 1")
	assert.Contains(t, body, `ordering_order_status_changes_total{status="CONFIRMED"} 1`)
	assert.Contains(t, body, `ordering_catalog_calls_total{outcome="ok"} 1`)
	assert.Contains(t, body, "ordering_stale_orders 3")
}

func TestMetrics_CountsPerOutcome(t *testing.T) {
	m := metrics.New()
	m.CatalogCall(metrics.CatalogOutcomeRetry)
	m.CatalogCall(metrics.CatalogOutcomeRetry)
	m.CatalogCall(metrics.CatalogOutcomeFailure)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "ordering_catalog_calls_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			counts[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{"retry": 2, "failure": 1}, counts)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.OrderCreated()
		m.StatusChanged("SHIPPED")
		m.CatalogCall(metrics.CatalogOutcomeOK)
		m.SetStaleOrders(1)
		m.ObserveRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)
	})
}

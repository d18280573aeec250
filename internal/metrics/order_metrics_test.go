package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOrderMetricsCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newOrderMetricsWithRegisterer(registry)

	m.RecordCreated()
	m.RecordCreated()
	m.RecordUpdated()
	m.RecordRejected("missing_customer")
	m.RecordStorageError()
	m.RecordOpDuration("create", 10*time.Millisecond)

	if got := testutil.ToFloat64(m.ordersCreated); got != 2 {
		t.Errorf("orders created = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ordersUpdated); got != 1 {
		t.Errorf("orders updated = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ordersRejected.WithLabelValues("missing_customer")); got != 1 {
		t.Errorf("orders rejected = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.storageErrors); got != 1 {
		t.Errorf("storage errors = %v, want 1", got)
	}
}

func TestOrderMetricsRepeatedRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := newOrderMetricsWithRegisterer(registry)
	second := newOrderMetricsWithRegisterer(registry)

	first.RecordCreated()
	second.RecordCreated()

	// Повторная регистрация переиспользует существующие коллекторы.
	if got := testutil.ToFloat64(second.ordersCreated); got != 2 {
		t.Errorf("orders created = %v, want 2", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *OrderMetrics
	m.RecordCreated()
	m.RecordUpdated()
	m.RecordRejected("x")
	m.RecordStorageError()
	m.RecordOpDuration("get", time.Millisecond)
}

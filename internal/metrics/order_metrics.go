package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики сервиса заказов.
type OrderMetrics struct {
	ordersCreated  prometheus.Counter
	ordersUpdated  prometheus.Counter
	ordersRejected *prometheus.CounterVec
	storageErrors  prometheus.Counter

	opDuration *prometheus.HistogramVec
}

// NewOrderMetrics регистрирует метрики в registry по умолчанию.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "estore_orders_created_total",
			Help: "Total number of order items created",
		}),
		ordersUpdated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "estore_orders_updated_total",
			Help: "Total number of order items updated",
		}),
		ordersRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "estore_orders_rejected_total",
			Help: "Total number of order operations rejected by validation",
		}, []string{"reason"}),
		storageErrors: registerCounter(registerer, prometheus.CounterOpts{
			Name: "estore_order_storage_errors_total",
			Help: "Total number of storage failures in the order service",
		}),
		opDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "estore_order_op_duration_seconds",
			Help:    "Duration of order service operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"op"}),
	}
}

// RecordCreated учитывает успешно созданную позицию.
func (m *OrderMetrics) RecordCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// RecordUpdated учитывает успешно обновлённую позицию.
func (m *OrderMetrics) RecordUpdated() {
	if m == nil {
		return
	}
	m.ordersUpdated.Inc()
}

// RecordRejected учитывает отклонённую операцию с причиной.
func (m *OrderMetrics) RecordRejected(reason string) {
	if m == nil {
		return
	}
	m.ordersRejected.WithLabelValues(reason).Inc()
}

// RecordStorageError учитывает ошибку хранилища.
func (m *OrderMetrics) RecordStorageError() {
	if m == nil {
		return
	}
	m.storageErrors.Inc()
}

// RecordOpDuration учитывает длительность операции.
func (m *OrderMetrics) RecordOpDuration(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.opDuration.WithLabelValues(op).Observe(d.Seconds())
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// Package metrics Prometheus-метрики сервиса.
// Все методы записи безопасны для nil-получателя: при выключенных метриках передаётся nil.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор коллекторов сервиса
type Metrics struct {
	registry    *prometheus.Registry
	serviceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrors      *prometheus.CounterVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec

	ReservationsCreated   *prometheus.CounterVec
	ReservationsCancelled *prometheus.CounterVec
	SlotConflicts         *prometheus.CounterVec
	ImportRows            *prometheus.CounterVec
}

// New регистрирует коллекторы в собственном реестре
func New(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry:    reg,
		serviceName: serviceName,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"service", "operation"}),

		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),

		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		ReservationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Total number of reservation slots created",
		}, []string{"service"}),

		ReservationsCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservations_cancelled_total",
			Help: "Total number of reservations cancelled",
		}, []string{"service", "mode"}),

		SlotConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservation_slot_conflicts_total",
			Help: "Total number of create requests rejected because of occupied slots",
		}, []string{"service"}),

		ImportRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "import_rows_total",
			Help: "Rows processed by bulk import",
		}, []string{"service", "kind", "outcome"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.ReservationsCreated,
		m.ReservationsCancelled,
		m.SlotConflicts,
		m.ImportRows,
	)

	return m
}

// Handler HTTP-обработчик для scrape
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry реестр коллекторов
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest записывает результат HTTP-запроса
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(seconds)
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(seconds)
	if err != nil {
		m.DBQueryErrors.WithLabelValues(m.serviceName, operation).Inc()
	}
}

// SetDBConnections обновляет показатели пула соединений
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.DBOpenConnections.WithLabelValues(m.serviceName).Set(float64(open))
	m.DBInUseConnections.WithLabelValues(m.serviceName).Set(float64(inUse))
	m.DBIdleConnections.WithLabelValues(m.serviceName).Set(float64(idle))
}

// IncReservationsCreated увеличивает счётчик созданных слотов
func (m *Metrics) IncReservationsCreated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ReservationsCreated.WithLabelValues(m.serviceName).Add(float64(n))
}

// IncReservationsCancelled увеличивает счётчик отмен; mode: single или range
func (m *Metrics) IncReservationsCancelled(mode string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ReservationsCancelled.WithLabelValues(m.serviceName, mode).Add(float64(n))
}

// IncSlotConflicts увеличивает счётчик отклонённых из-за конфликта запросов
func (m *Metrics) IncSlotConflicts() {
	if m == nil {
		return
	}
	m.SlotConflicts.WithLabelValues(m.serviceName).Inc()
}

// IncImportRows увеличивает счётчик строк импорта; outcome: committed или skipped
func (m *Metrics) IncImportRows(kind, outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ImportRows.WithLabelValues(m.serviceName, kind, outcome).Add(float64(n))
}

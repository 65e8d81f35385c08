package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resqwave_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resqwave_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Dispatch lifecycle
	AlertsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resqwave_alerts_created_total",
			Help: "Total number of alerts created",
		},
		[]string{"alert_type", "source"}, // source: rest, websocket, mqtt
	)

	AlertTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resqwave_alert_transitions_total",
			Help: "Total number of alert status transitions",
		},
		[]string{"to"},
	)

	AssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resqwave_terminal_assignments_total",
			Help: "Terminal assignment attempts by outcome",
		},
		[]string{"outcome"}, // success, conflict, error
	)

	// Cache
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resqwave_cache_requests_total",
			Help: "Read-through cache lookups by result",
		},
		[]string{"result"}, // hit, miss, error
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resqwave_cache_invalidations_total",
			Help: "Total number of tag invalidations",
		},
		[]string{"tag"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "resqwave_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resqwave_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Realtime
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resqwave_websocket_connections_active",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resqwave_websocket_messages_sent_total",
			Help: "Total number of WebSocket messages queued to clients",
		},
		[]string{"event"},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resqwave_websocket_messages_dropped_total",
			Help: "Messages dropped because the hub or a client buffer was full",
		},
	)

	// MQTT
	MQTTMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resqwave_mqtt_messages_total",
			Help: "Terminal MQTT messages by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
)

// RecordAPIRequest 记录一次API请求
func RecordAPIRequest(method, route string, status int, d time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/graphicode-dev/classroom/internal/param"
)

const (
	classroomNamespace = "classroom"

	clientSubsystem = "client"
	serverSubsystem = "stub"

	methodLabelName = "method"
	statusLabelName = "status"
	codeLabelName   = "code"
	kindLabelName   = "kind"
	routeLabelName  = "route"
)

var (
	// buckets are request latencies in milliseconds.
	buckets = prometheus.ExponentialBuckets(1, 2, 16)

	clientRegisterOnce sync.Once
	serverRegisterOnce sync.Once

	ClientRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: classroomNamespace,
			Subsystem: clientSubsystem,
			Name:      "requests_total",
			Help:      "API requests by method, HTTP status and error code",
		}, []string{methodLabelName, statusLabelName, codeLabelName})

	ClientRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: classroomNamespace,
			Subsystem: clientSubsystem,
			Name:      "request_latency",
			Help:      "latency of API requests in milliseconds, retries included",
			Buckets:   buckets,
		}, []string{methodLabelName})

	ClientRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: classroomNamespace,
			Subsystem: clientSubsystem,
			Name:      "retries_total",
			Help:      "request attempts that were retried",
		}, []string{methodLabelName})

	SerializationWarnings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: classroomNamespace,
			Subsystem: clientSubsystem,
			Name:      "serialization_warnings_total",
			Help:      "values skipped while encoding query strings and forms",
		}, []string{kindLabelName})

	ServerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: classroomNamespace,
			Subsystem: serverSubsystem,
			Name:      "requests_total",
			Help:      "requests served by the stub backend",
		}, []string{methodLabelName, routeLabelName, statusLabelName})

	ServerRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: classroomNamespace,
			Subsystem: serverSubsystem,
			Name:      "request_latency",
			Help:      "latency of stub backend requests in milliseconds",
			Buckets:   buckets,
		}, []string{methodLabelName, routeLabelName})
)

// RegisterClientMetrics registers the SDK collectors once.
func RegisterClientMetrics(r prometheus.Registerer) {
	clientRegisterOnce.Do(func() {
		r.MustRegister(ClientRequests)
		r.MustRegister(ClientRequestLatency)
		r.MustRegister(ClientRetries)
		r.MustRegister(SerializationWarnings)
	})
}

// RegisterServerMetrics registers the stub backend collectors once.
func RegisterServerMetrics(r prometheus.Registerer) {
	serverRegisterOnce.Do(func() {
		r.MustRegister(ServerRequests)
		r.MustRegister(ServerRequestLatency)
	})
}

func ObserveClientRequest(method string, status int, code string, elapsed time.Duration) {
	ClientRequests.WithLabelValues(method, strconv.Itoa(status), code).Inc()
	ClientRequestLatency.WithLabelValues(method).Observe(float64(elapsed.Milliseconds()))
}

func ObserveServerRequest(method, route string, status int, elapsed time.Duration) {
	ServerRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	ServerRequestLatency.WithLabelValues(method, route).Observe(float64(elapsed.Milliseconds()))
}

// WarningSink counts serializer warnings by kind.
func WarningSink() param.Sink {
	return param.SinkFunc(func(w param.Warning) {
		SerializationWarnings.WithLabelValues(w.Kind.String()).Inc()
	})
}

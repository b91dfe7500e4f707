package service

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Command outcomes recorded by ObserveCommand.
const (
	OutcomeOK     = "ok"
	OutcomeError  = "error"
	OutcomeDenied = "denied"
)

// pathLiterals are path segments kept verbatim when normalising resources.
var pathLiterals = map[string]struct{}{
	"api": {}, "auth": {}, "login": {}, "register": {},
	"students": {}, "courses": {}, "enrollments": {}, "grades": {},
	"finalize": {}, "student": {}, "transcript": {},
}

// MetricsService encapsulates Prometheus instrumentation for the client.
type MetricsService struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	commandTotal    *prometheus.CounterVec

	requestCount uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "siakad_http_request_duration_seconds",
		Help:    "Duration of API requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "resource", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "siakad_http_requests_total",
		Help: "Total number of API requests",
	}, []string{"method", "resource", "status"})

	commandDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "siakad_command_duration_seconds",
		Help:    "Duration of CLI commands in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"command"})

	commandTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "siakad_commands_total",
		Help: "CLI commands by outcome",
	}, []string{"command", "outcome"})

	registry.MustRegister(requestDuration, requestTotal, commandDuration, commandTotal)

	return &MetricsService{
		registry:        registry,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		commandDuration: commandDuration,
		commandTotal:    commandTotal,
	}
}

// Registry exposes the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records one API call. Status 0 marks a transport failure.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	resource := Resource(path)
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, resource, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, resource, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
}

// ObserveCommand records the outcome of one CLI command.
func (m *MetricsService) ObserveCommand(command, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.commandDuration.WithLabelValues(command).Observe(duration.Seconds())
	m.commandTotal.WithLabelValues(command, outcome).Inc()
}

// RequestCount returns how many API calls were observed.
func (m *MetricsService) RequestCount() uint64 {
	if m == nil {
		return 0
	}
	return atomic.LoadUint64(&m.requestCount)
}

// WriteTextfile flushes the registry in the node-exporter textfile format.
// An empty path disables the flush.
func (m *MetricsService) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// Resource collapses identifiers in path so label cardinality stays bounded.
func Resource(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if _, ok := pathLiterals[segment]; !ok {
			segments[i] = ":id"
		}
	}
	return "/" + strings.Join(segments, "/")
}

package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Assets is the number of assets in the inventory by status.
	Assets = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "inventory_assets",
			Help: "Number of assets in the inventory by status",
		},
		[]string{"status"},
	)

	// CommandsTotal counts dispatched terminal commands by name.
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_commands_total",
			Help: "Total number of terminal commands executed by command name",
		},
		[]string{"command"},
	)

	// ExportsTotal counts exports by format (csv, json) and trigger (command, api, schedule).
	ExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_exports_total",
			Help: "Total number of exports by format and trigger",
		},
		[]string{"format", "trigger"},
	)
)

var (
	uuidPathSegment    = regexp.MustCompile(`/[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}(/|$)`)
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

// knownCommands bounds the label values of CommandsTotal.
var knownCommands = map[string]bool{
	"help": true, "list": true, "search": true, "add": true, "edit": true,
	"retire": true, "export": true, "wipe": true,
}

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, Assets, CommandsTotal, ExportsTotal)
	})
}

// NormalizePath reduces cardinality by replacing UUID and numeric path segments with {id}.
// E.g. /assets/0b6c...-e1f2/retire -> /assets/{id}/retire.
func NormalizePath(path string) string {
	path = uuidPathSegment.ReplaceAllString(path, "/{id}$1")
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// SetAssetCounts publishes the per-status asset counts.
func SetAssetCounts(byStatus map[string]int) {
	Assets.Reset()
	for status, n := range byStatus {
		Assets.WithLabelValues(status).Set(float64(n))
	}
}

// IncCommand counts one dispatched command. Unknown names share the "unknown" label.
func IncCommand(name string) {
	if !knownCommands[name] {
		name = "unknown"
	}
	CommandsTotal.WithLabelValues(name).Inc()
}

// IncExport counts one export.
func IncExport(format, trigger string) {
	ExportsTotal.WithLabelValues(format, trigger).Inc()
}

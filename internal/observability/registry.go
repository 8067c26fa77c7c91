package observability

import "time"

// MetricsRegistry provides an interface for recording application metrics
// This replaces direct access to global Prometheus metrics with dependency injection
type MetricsRegistry interface {
	// HTTP Request metrics
	IncrementRequests(endpoint, method, status string)
	RecordRequestLatency(endpoint, method string, duration time.Duration)

	// Analytics metrics
	IncrementAnalyses(status string)

	// Allocation metrics
	IncrementAllocations(goal string)

	// Metrics store metrics
	IncrementSnapshots(platform string)
	IncrementStoreErrors()

	// Cache metrics
	IncrementCacheLookups(outcome string)

	// Insight store metrics
	IncrementInsights()

	// Platform sync metrics
	IncrementSyncCycles(outcome string)
}

// PrometheusRegistry implements MetricsRegistry using the existing global Prometheus metrics
type PrometheusRegistry struct{}

// NewPrometheusRegistry creates a new PrometheusRegistry
func NewPrometheusRegistry() *PrometheusRegistry {
	return &PrometheusRegistry{}
}

// HTTP Request metrics
func (r *PrometheusRegistry) IncrementRequests(endpoint, method, status string) {
	RequestCount.WithLabelValues(endpoint, method, status).Inc()
}

func (r *PrometheusRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {
	RequestLatency.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

// Analytics metrics
func (r *PrometheusRegistry) IncrementAnalyses(status string) {
	AnalysisCount.WithLabelValues(status).Inc()
}

// Allocation metrics
func (r *PrometheusRegistry) IncrementAllocations(goal string) {
	AllocationCount.WithLabelValues(goal).Inc()
}

// Metrics store metrics
func (r *PrometheusRegistry) IncrementSnapshots(platform string) {
	SnapshotCount.WithLabelValues(platform).Inc()
}

func (r *PrometheusRegistry) IncrementStoreErrors() {
	StoreErrors.Inc()
}

// Cache metrics
func (r *PrometheusRegistry) IncrementCacheLookups(outcome string) {
	CacheLookups.WithLabelValues(outcome).Inc()
}

// Insight store metrics
func (r *PrometheusRegistry) IncrementInsights() {
	InsightCount.Inc()
}

// Platform sync metrics
func (r *PrometheusRegistry) IncrementSyncCycles(outcome string) {
	SyncCount.WithLabelValues(outcome).Inc()
}

// NoOpRegistry implements MetricsRegistry with no-op methods for testing
type NoOpRegistry struct{}

// NewNoOpRegistry creates a new NoOpRegistry
func NewNoOpRegistry() *NoOpRegistry {
	return &NoOpRegistry{}
}

// HTTP Request metrics
func (r *NoOpRegistry) IncrementRequests(endpoint, method, status string)                    {}
func (r *NoOpRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {}

// Analytics metrics
func (r *NoOpRegistry) IncrementAnalyses(status string) {}

// Allocation metrics
func (r *NoOpRegistry) IncrementAllocations(goal string) {}

// Metrics store metrics
func (r *NoOpRegistry) IncrementSnapshots(platform string) {}
func (r *NoOpRegistry) IncrementStoreErrors()              {}

// Cache metrics
func (r *NoOpRegistry) IncrementCacheLookups(outcome string) {}

// Insight store metrics
func (r *NoOpRegistry) IncrementInsights() {}

// Platform sync metrics
func (r *NoOpRegistry) IncrementSyncCycles(outcome string) {}

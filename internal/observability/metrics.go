package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "declarafacil_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// DatabaseOperations tracks database operations
	DatabaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "declarafacil_database_operations_total",
			Help: "Number of database operations",
		},
		[]string{"operation", "status"},
	)

	// DocumentGenerations tracks batch document generation outcomes
	DocumentGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "declarafacil_document_generations_total",
			Help: "Number of document generation attempts by outcome",
		},
		[]string{"outcome"},
	)

	// ArtifactUploads tracks object storage uploads
	ArtifactUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "declarafacil_artifact_uploads_total",
			Help: "Number of artifact uploads to object storage",
		},
		[]string{"status"},
	)

	// CacheHits tracks cache hits/misses
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "declarafacil_cache_hits_total",
			Help: "Number of cache hits",
		},
		[]string{"operation"},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "declarafacil_active_connections",
			Help: "Number of active connections",
		},
	)
)

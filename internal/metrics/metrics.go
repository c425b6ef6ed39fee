package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	DocumentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_documents_processed_total",
			Help: "Total number of documents processed by the ingest worker",
		},
		[]string{"source_type", "status"},
	)

	ChunksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_chunks_created_total",
		Help: "Total number of chunks created from documents",
	})

	ChunkTruncations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_chunk_truncations_total",
		Help: "Number of documents whose chunk sequence hit the safety-valve ceiling",
	})

	// Query metrics
	GraphQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "graphdb_query_duration_seconds",
			Help: "Time spent executing graph database queries",
		},
		[]string{"query"},
	)

	GraphQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphdb_query_errors_total",
			Help: "Total number of failed graph database queries",
		},
		[]string{"query"},
	)
)

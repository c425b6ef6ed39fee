package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/docunet-ai/docunet/backend/internal/metrics"
	"github.com/docunet-ai/docunet/backend/pkg/chunk"
	"github.com/docunet-ai/docunet/backend/pkg/graphdb"
	"github.com/docunet-ai/docunet/backend/pkg/loader"
	"github.com/docunet-ai/docunet/backend/pkg/logger"
)

// IngestMessage is the payload of one ingestion job on the ingest queue.
type IngestMessage struct {
	JobID      string            `json:"job_id"`
	FileName   string            `json:"file_name"`
	Location   string            `json:"location"`
	SourceType loader.SourceType `json:"source_type"`
}

// IngestProcessor runs the ingestion pipeline for one message: load the
// source into pages, build the chunk sequence, persist it into the graph.
type IngestProcessor struct {
	registry *loader.Registry
	builder  *chunk.Builder
	graph    *graphdb.Client
}

// NewIngestProcessorParams contains the collaborators of an
// IngestProcessor.
type NewIngestProcessorParams struct {
	Registry *loader.Registry
	Builder  *chunk.Builder
	Graph    *graphdb.Client
}

// NewIngestProcessor creates an ingestion processor.
func NewIngestProcessor(params NewIngestProcessorParams) (*IngestProcessor, error) {
	if params.Registry == nil || params.Builder == nil || params.Graph == nil {
		return nil, fmt.Errorf("registry, builder and graph client are required")
	}
	return &IngestProcessor{
		registry: params.Registry,
		builder:  params.Builder,
		graph:    params.Graph,
	}, nil
}

// ProcessIngestMessage handles one ingestion job. A returned error sends
// the message into the retry flow; a document that failed is marked Failed
// in the graph on a best-effort basis.
func (p *IngestProcessor) ProcessIngestMessage(ctx context.Context, body string) error {
	var msg IngestMessage
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return fmt.Errorf("failed to decode ingest message: %w", err)
	}
	if msg.FileName == "" || msg.Location == "" {
		return fmt.Errorf("ingest message %q is missing file_name or location", msg.JobID)
	}

	logger.Info(
		"[Ingest] Processing document",
		"job_id", msg.JobID,
		"file_name", msg.FileName,
		"source_type", msg.SourceType,
	)

	if err := p.ingest(ctx, msg); err != nil {
		metrics.DocumentsProcessed.WithLabelValues(string(msg.SourceType), "failed").Inc()
		if statusErr := p.graph.UpdateDocumentStatus(msg.FileName, graphdb.StatusFailed); statusErr != nil {
			logger.Error(
				"[Ingest] Failed to mark document as failed",
				"file_name", msg.FileName,
				"err", statusErr,
			)
		}
		return err
	}

	metrics.DocumentsProcessed.WithLabelValues(string(msg.SourceType), "completed").Inc()
	return nil
}

func (p *IngestProcessor) ingest(ctx context.Context, msg IngestMessage) error {
	doc, err := p.registry.Load(ctx, loader.Source{
		FileName: msg.FileName,
		Location: msg.Location,
		Type:     msg.SourceType,
	})
	if err != nil {
		return err
	}

	chunks, err := p.builder.Build(ctx, doc)
	if err != nil {
		return err
	}
	metrics.ChunksCreated.Add(float64(len(chunks)))

	if err := p.graph.PersistChunks(msg.FileName, string(msg.SourceType), chunks); err != nil {
		return err
	}

	logger.Info(
		"[Ingest] Document ingested",
		"job_id", msg.JobID,
		"file_name", msg.FileName,
		"pages", len(doc.Pages),
		"chunks", len(chunks),
	)
	return nil
}

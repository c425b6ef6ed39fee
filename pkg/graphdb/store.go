package graphdb

import (
	"fmt"

	"github.com/docunet-ai/docunet/backend/internal/util"
	"github.com/docunet-ai/docunet/backend/pkg/common"
	"github.com/docunet-ai/docunet/backend/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v4/neo4j"
)

// Document ingestion states stored on the Document node.
const (
	StatusProcessing = "Processing"
	StatusCompleted  = "Completed"
	StatusFailed     = "Failed"
)

// PersistChunks writes a document node and its ordered chunk sequence in a
// single write transaction. Chunks link to the document via PART_OF, the
// document links to its first chunk via FIRST_CHUNK, and consecutive chunks
// link via NEXT_CHUNK. Re-running for the same document replaces chunk
// content by id and marks the document Completed.
func (c *Client) PersistChunks(fileName, sourceType string, chunks []common.Chunk) error {
	if fileName == "" {
		return fmt.Errorf("file name is required")
	}

	driver, err := c.newDriver()
	if err != nil {
		return err
	}
	defer driver.Close()

	session := c.newSession(driver, neo4j.AccessModeWrite)
	defer session.Close()

	rows := make([]any, 0, len(chunks))
	pairs := make([]any, 0, len(chunks))
	for i, chunk := range chunks {
		rows = append(rows, chunkRow(chunk, i+1))
		if i < len(chunks)-1 {
			pairs = append(pairs, map[string]any{
				"current": chunk.ID,
				"next":    chunks[i+1].ID,
			})
		}
	}

	_, err = session.WriteTransaction(func(tx neo4j.Transaction) (any, error) {
		if _, err := tx.Run(mergeDocumentQuery, map[string]any{
			"file_name":   fileName,
			"status":      StatusCompleted,
			"source_type": sourceType,
			"chunk_count": len(chunks),
		}); err != nil {
			return nil, err
		}

		if len(rows) == 0 {
			return nil, nil
		}

		if _, err := tx.Run(createChunksQuery, map[string]any{
			"file_name": fileName,
			"chunks":    rows,
		}); err != nil {
			return nil, err
		}

		if _, err := tx.Run(linkFirstChunkQuery, map[string]any{
			"file_name": fileName,
			"chunk_id":  chunks[0].ID,
		}); err != nil {
			return nil, err
		}

		if len(pairs) > 0 {
			if _, err := tx.Run(linkNextChunksQuery, map[string]any{
				"pairs": pairs,
			}); err != nil {
				return nil, err
			}
		}

		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist chunks for %q: %w", fileName, err)
	}

	logger.Info(
		"[GraphDB] Persisted chunk sequence",
		"file_name", fileName,
		"source_type", sourceType,
		"chunks", len(chunks),
	)
	return nil
}

// UpdateDocumentStatus sets the ingestion status on a document node,
// creating the node if ingestion fails before any chunk was written.
func (c *Client) UpdateDocumentStatus(fileName, status string) error {
	driver, err := c.newDriver()
	if err != nil {
		return err
	}
	defer driver.Close()

	session := c.newSession(driver, neo4j.AccessModeWrite)
	defer session.Close()

	_, err = session.Run(
		`MERGE (d:Document {fileName: $file_name})
		 ON CREATE SET d.createdAt = datetime()
		 SET d.status = $status, d.updatedAt = datetime()`,
		map[string]any{"file_name": fileName, "status": status},
	)
	if err != nil {
		return fmt.Errorf("failed to update status for %q: %w", fileName, err)
	}
	return nil
}

// chunkRow maps a chunk to the UNWIND row shape of createChunksQuery.
// Positional properties absent for the chunk's source kind stay nil, which
// clears them on the stored node.
func chunkRow(chunk common.Chunk, position int) map[string]any {
	row := map[string]any{
		"id":          chunk.ID,
		"text":        util.SanitizeGraphText(chunk.Content),
		"position":    position,
		"page_number": nil,
		"start_time":  nil,
		"end_time":    nil,
	}

	switch chunk.Meta.Kind {
	case common.SourceKindPaged:
		row["page_number"] = chunk.Meta.PageNumber
	case common.SourceKindTimed:
		row["start_time"] = chunk.Meta.Start.Seconds()
		row["end_time"] = chunk.Meta.End.Seconds()
	}

	return row
}

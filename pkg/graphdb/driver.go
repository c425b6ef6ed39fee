package graphdb

import (
	"fmt"
	"strconv"
	"time"

	"github.com/docunet-ai/docunet/backend/internal/config"
	"github.com/docunet-ai/docunet/backend/internal/metrics"
	"github.com/docunet-ai/docunet/backend/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v4/neo4j"
	"github.com/neo4j/neo4j-go-driver/v4/neo4j/dbtype"
)

// Client runs graph queries against Neo4j. A driver is acquired per call and
// released before the call returns, on success and on failure alike, so a
// failed request can never leak a connection.
type Client struct {
	cfg             config.Neo4jConfig
	graphChunkLimit int
	chunkPageSize   int64
}

// NewClientParams contains configuration for creating a Client.
type NewClientParams struct {
	Neo4j           config.Neo4jConfig
	GraphChunkLimit int
	ChunkPageSize   int
}

// NewClient creates a graph query client.
func NewClient(params NewClientParams) (*Client, error) {
	if params.Neo4j.URI == "" {
		return nil, fmt.Errorf("neo4j uri is required")
	}
	if params.GraphChunkLimit <= 0 {
		return nil, fmt.Errorf("graph chunk limit must be positive, got %d", params.GraphChunkLimit)
	}
	if params.ChunkPageSize <= 0 {
		return nil, fmt.Errorf("chunk page size must be positive, got %d", params.ChunkPageSize)
	}

	return &Client{
		cfg:             params.Neo4j,
		graphChunkLimit: params.GraphChunkLimit,
		chunkPageSize:   int64(params.ChunkPageSize),
	}, nil
}

func (c *Client) newDriver() (neo4j.Driver, error) {
	driver, err := neo4j.NewDriver(c.cfg.URI, neo4j.BasicAuth(c.cfg.Username, c.cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create driver for %s: %w", c.cfg.URI, err)
	}
	return driver, nil
}

func (c *Client) newSession(driver neo4j.Driver, mode neo4j.AccessMode) neo4j.Session {
	return driver.NewSession(neo4j.SessionConfig{
		DatabaseName: c.cfg.Database,
		AccessMode:   mode,
	})
}

// GraphResults returns the chunk-scoped entity subgraph for the given
// document names, with nodes and relationships deduplicated by element id.
func (c *Client) GraphResults(documentNames []string) (*GraphResult, error) {
	timer := time.Now()
	defer func() {
		metrics.GraphQueryDuration.WithLabelValues("graph").Observe(time.Since(timer).Seconds())
	}()

	driver, err := c.newDriver()
	if err != nil {
		metrics.GraphQueryErrors.WithLabelValues("graph").Inc()
		return nil, err
	}
	defer driver.Close()

	session := c.newSession(driver, neo4j.AccessModeRead)
	defer session.Close()

	query := fmt.Sprintf(graphQuery, c.graphChunkLimit)
	result, err := session.Run(query, map[string]any{
		"document_names": toAnySlice(documentNames),
	})
	if err != nil {
		metrics.GraphQueryErrors.WithLabelValues("graph").Inc()
		return nil, fmt.Errorf("graph query failed: %w", err)
	}

	records, err := collectRecords(result)
	if err != nil {
		metrics.GraphQueryErrors.WithLabelValues("graph").Inc()
		return nil, fmt.Errorf("graph query failed: %w", err)
	}

	nodes := ExtractNodes(records)
	relationships := ExtractRelationships(records)

	logger.Info(
		"[GraphDB] Assembled graph result",
		"documents", len(documentNames),
		"nodes", len(nodes),
		"relationships", len(relationships),
	)

	return &GraphResult{Nodes: nodes, Relationships: relationships}, nil
}

// ChunkTextResults returns one page of stored chunk text for a document.
// Page numbers past the last page yield an empty page with the correct
// total, not an error.
func (c *Client) ChunkTextResults(fileName string, pageNo int64) (*ChunkTextResult, error) {
	timer := time.Now()
	defer func() {
		metrics.GraphQueryDuration.WithLabelValues("chunk_text").Observe(time.Since(timer).Seconds())
	}()

	driver, err := c.newDriver()
	if err != nil {
		metrics.GraphQueryErrors.WithLabelValues("chunk_text").Inc()
		return nil, err
	}
	defer driver.Close()

	session := c.newSession(driver, neo4j.AccessModeRead)
	defer session.Close()

	countResult, err := session.Run(countChunksQuery, map[string]any{"file_name": fileName})
	if err != nil {
		metrics.GraphQueryErrors.WithLabelValues("chunk_text").Inc()
		return nil, fmt.Errorf("chunk count query failed for %q: %w", fileName, err)
	}
	countRecord, err := countResult.Single()
	if err != nil {
		metrics.GraphQueryErrors.WithLabelValues("chunk_text").Inc()
		return nil, fmt.Errorf("chunk count query failed for %q: %w", fileName, err)
	}
	totalChunks, _ := countRecord.Values[0].(int64)

	window := PageWindow(totalChunks, pageNo, c.chunkPageSize)

	result, err := session.Run(chunkTextQuery, map[string]any{
		"file_name": fileName,
		"skip":      window.Skip,
		"limit":     window.Limit,
	})
	if err != nil {
		metrics.GraphQueryErrors.WithLabelValues("chunk_text").Inc()
		return nil, fmt.Errorf("chunk text query failed for %q: %w", fileName, err)
	}

	items := make([]ChunkTextItem, 0, window.Limit)
	for result.Next() {
		record := result.Record()
		item := ChunkTextItem{}
		if text, ok := record.Values[0].(string); ok {
			item.Text = text
		}
		if position, ok := record.Values[1].(int64); ok {
			item.Position = position
		}
		if pageNumber, ok := record.Values[2].(int64); ok {
			item.PageNumber = pageNumber
		}
		items = append(items, item)
	}
	if err := result.Err(); err != nil {
		metrics.GraphQueryErrors.WithLabelValues("chunk_text").Inc()
		return nil, fmt.Errorf("chunk text query failed for %q: %w", fileName, err)
	}

	return &ChunkTextResult{PageItems: items, TotalPages: window.TotalPages}, nil
}

// VisualizeSchema returns the database schema as nodes and relationships.
func (c *Client) VisualizeSchema() (*SchemaResult, error) {
	timer := time.Now()
	defer func() {
		metrics.GraphQueryDuration.WithLabelValues("schema").Observe(time.Since(timer).Seconds())
	}()

	driver, err := c.newDriver()
	if err != nil {
		metrics.GraphQueryErrors.WithLabelValues("schema").Inc()
		return nil, err
	}
	defer driver.Close()

	session := c.newSession(driver, neo4j.AccessModeRead)
	defer session.Close()

	result, err := session.Run(schemaVisualizationQuery, nil)
	if err != nil {
		metrics.GraphQueryErrors.WithLabelValues("schema").Inc()
		return nil, fmt.Errorf("schema visualization query failed: %w", err)
	}

	records, err := collectRecords(result)
	if err != nil {
		metrics.GraphQueryErrors.WithLabelValues("schema").Inc()
		return nil, fmt.Errorf("schema visualization query failed: %w", err)
	}

	return &SchemaResult{
		Nodes:         ExtractNodes(records),
		Relationships: ExtractRelationships(records),
	}, nil
}

// CompletedDocuments returns the file names of all documents whose ingestion
// finished.
func (c *Client) CompletedDocuments() ([]string, error) {
	timer := time.Now()
	defer func() {
		metrics.GraphQueryDuration.WithLabelValues("documents").Observe(time.Since(timer).Seconds())
	}()

	driver, err := c.newDriver()
	if err != nil {
		metrics.GraphQueryErrors.WithLabelValues("documents").Inc()
		return nil, err
	}
	defer driver.Close()

	session := c.newSession(driver, neo4j.AccessModeRead)
	defer session.Close()

	result, err := session.Run(completedDocumentsQuery, nil)
	if err != nil {
		metrics.GraphQueryErrors.WithLabelValues("documents").Inc()
		return nil, fmt.Errorf("completed documents query failed: %w", err)
	}

	names := make([]string, 0)
	for result.Next() {
		if name, ok := result.Record().Values[0].(string); ok {
			names = append(names, name)
		}
	}
	if err := result.Err(); err != nil {
		metrics.GraphQueryErrors.WithLabelValues("documents").Inc()
		return nil, fmt.Errorf("completed documents query failed: %w", err)
	}

	return names, nil
}

// collectRecords drains a result and hydrates every row into the
// driver-independent Record shape the extractor consumes.
func collectRecords(result neo4j.Result) ([]Record, error) {
	var records []Record
	for result.Next() {
		records = append(records, hydrateRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// hydrateRecord reads the nodes and rels columns of one row. Relationship
// endpoints are resolved against the row's own node set; an endpoint the
// row does not carry stays unresolved, leaving the relationship with fewer
// than two endpoint nodes for the extractor to reject.
func hydrateRecord(record *neo4j.Record) Record {
	hydrated := Record{}

	nodesByID := make(map[int64]RawNode)
	if value, ok := record.Get("nodes"); ok {
		if list, ok := value.([]any); ok {
			for _, entry := range list {
				node, ok := entry.(dbtype.Node)
				if !ok {
					continue
				}
				raw := hydrateNode(node)
				nodesByID[node.Id] = raw
				hydrated.Nodes = append(hydrated.Nodes, raw)
			}
		}
	}

	relsKey := "rels"
	if _, ok := record.Get(relsKey); !ok {
		relsKey = "relationships"
	}
	if value, ok := record.Get(relsKey); ok {
		if list, ok := value.([]any); ok {
			for _, entry := range list {
				rel, ok := entry.(dbtype.Relationship)
				if !ok {
					continue
				}

				raw := RawRelationship{
					ElementID: strconv.FormatInt(rel.Id, 10),
					Type:      rel.Type,
				}
				if start, ok := nodesByID[rel.StartId]; ok {
					raw.Nodes = append(raw.Nodes, start)
				}
				if end, ok := nodesByID[rel.EndId]; ok {
					raw.Nodes = append(raw.Nodes, end)
				}
				hydrated.Relationships = append(hydrated.Relationships, raw)
			}
		}
	}

	return hydrated
}

func hydrateNode(node dbtype.Node) RawNode {
	return RawNode{
		ElementID:  strconv.FormatInt(node.Id, 10),
		Labels:     node.Labels,
		Properties: node.Props,
	}
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

package graphdb

// RawNode is a node as it appears inside one query record, before
// normalization.
type RawNode struct {
	ElementID  string
	Labels     []string
	Properties map[string]any
}

// RawRelationship is a relationship as it appears inside one query record.
// Nodes holds the hydrated endpoint nodes; a well-formed relationship has
// exactly two.
type RawRelationship struct {
	ElementID string
	Type      string
	Nodes     []RawNode
}

// Record is one hydrated row of a graph query result. Either field may be
// empty for rows that only carry scalar columns.
type Record struct {
	Nodes         []RawNode
	Relationships []RawRelationship
}

// Node is a normalized graph node ready for the API response.
type Node struct {
	ElementID  string         `json:"element_id"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
}

// Relationship is a normalized graph relationship ready for the API
// response. Endpoints reference Node.ElementID values.
type Relationship struct {
	ElementID          string `json:"element_id"`
	Type               string `json:"type"`
	StartNodeElementID string `json:"start_node_element_id"`
	EndNodeElementID   string `json:"end_node_element_id"`
}

// GraphResult is the assembled output of a graph retrieval call.
type GraphResult struct {
	Nodes         []Node         `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
}

// ChunkTextItem is one stored chunk row in a paginated chunk-text response.
type ChunkTextItem struct {
	Text       string `json:"text"`
	Position   int64  `json:"position"`
	PageNumber int64  `json:"pagenumber"`
}

// ChunkTextResult is one page of stored chunk text for a document.
type ChunkTextResult struct {
	PageItems  []ChunkTextItem `json:"pageitems"`
	TotalPages int64           `json:"total_pages"`
}

// SchemaResult is the raw output of the schema visualization query.
type SchemaResult struct {
	Nodes         []Node         `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
}

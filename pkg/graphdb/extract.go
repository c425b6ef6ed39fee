package graphdb

import (
	"time"

	"github.com/docunet-ai/docunet/backend/pkg/logger"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/neo4j/neo4j-go-driver/v4/neo4j/dbtype"
)

// wildcardLabel replaces a label set that is empty after dropping the
// internal entity marker.
const wildcardLabel = "*"

// entityMarkerLabel tags every extracted entity node in the graph and is
// noise for API consumers.
const entityMarkerLabel = "__Entity__"

// excludedProperties are large or opaque node properties stripped before a
// node leaves the assembly layer.
var excludedProperties = map[string]struct{}{
	"embedding": {},
	"text":      {},
	"summary":   {},
}

// ExtractNodes walks records in order and returns the normalized nodes,
// deduplicated by element id. The first occurrence of an id wins; later
// duplicates are dropped, not merged. Dedup state is scoped to this call.
func ExtractNodes(records []Record) []Node {
	nodes := make([]Node, 0)
	seen := mapset.NewThreadUnsafeSet[string]()

	for _, record := range records {
		for _, raw := range record.Nodes {
			if seen.Contains(raw.ElementID) {
				continue
			}
			seen.Add(raw.ElementID)
			nodes = append(nodes, normalizeNode(raw))
		}
	}

	return nodes
}

// ExtractRelationships walks records in order and returns the normalized
// relationships, deduplicated by element id. A relationship with fewer than
// two endpoint nodes is logged and skipped; extraction continues.
func ExtractRelationships(records []Record) []Relationship {
	relationships := make([]Relationship, 0)
	seen := mapset.NewThreadUnsafeSet[string]()

	for _, record := range records {
		for _, raw := range record.Relationships {
			if seen.Contains(raw.ElementID) {
				continue
			}
			seen.Add(raw.ElementID)

			if len(raw.Nodes) < 2 {
				logger.Warn(
					"[GraphDB] Skipping relationship without two endpoint nodes",
					"element_id", raw.ElementID,
					"type", raw.Type,
					"endpoints", len(raw.Nodes),
				)
				continue
			}

			relationships = append(relationships, Relationship{
				ElementID:          raw.ElementID,
				Type:               raw.Type,
				StartNodeElementID: raw.Nodes[0].ElementID,
				EndNodeElementID:   raw.Nodes[1].ElementID,
			})
		}
	}

	return relationships
}

func normalizeNode(raw RawNode) Node {
	labels := make([]string, 0, len(raw.Labels))
	for _, label := range raw.Labels {
		if label == entityMarkerLabel {
			continue
		}
		labels = append(labels, label)
	}
	if len(labels) == 0 {
		labels = append(labels, wildcardLabel)
	}

	properties := make(map[string]any, len(raw.Properties))
	for key, value := range raw.Properties {
		if _, excluded := excludedProperties[key]; excluded {
			continue
		}
		properties[key] = normalizeValue(value)
	}

	return Node{
		ElementID:  raw.ElementID,
		Labels:     labels,
		Properties: properties,
	}
}

// normalizeValue converts driver temporal values into ISO-8601 strings so
// responses serialize the same regardless of the stored temporal flavor.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case dbtype.Date:
		return v.String()
	case dbtype.LocalDateTime:
		return v.String()
	case dbtype.Time:
		return v.String()
	case dbtype.LocalTime:
		return v.String()
	default:
		return value
	}
}

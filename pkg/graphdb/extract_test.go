package graphdb

import (
	"reflect"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v4/neo4j"
	"github.com/neo4j/neo4j-go-driver/v4/neo4j/dbtype"
)

func TestExtractNodesDedup(t *testing.T) {
	records := []Record{
		{Nodes: []RawNode{
			{ElementID: "n1", Labels: []string{"Person"}},
			{ElementID: "n2", Labels: []string{"Company"}},
		}},
		{Nodes: []RawNode{
			{ElementID: "n1", Labels: []string{"Person"}, Properties: map[string]any{"late": true}},
		}},
	}

	nodes := ExtractNodes(records)
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}

	var n1Count int
	for _, node := range nodes {
		if node.ElementID == "n1" {
			n1Count++
			// First occurrence wins, the later duplicate's properties must
			// not leak in.
			if _, ok := node.Properties["late"]; ok {
				t.Error("duplicate node overwrote the first occurrence")
			}
		}
	}
	if n1Count != 1 {
		t.Fatalf("node n1 emitted %d times, want 1", n1Count)
	}
}

func TestExtractNodesEmptyRecords(t *testing.T) {
	records := []Record{
		{},
		{Nodes: []RawNode{{ElementID: "n1", Labels: []string{"Person"}}}},
		{},
	}

	nodes := ExtractNodes(records)
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
}

func TestNormalizeNodeLabels(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   []string
	}{
		{
			name:   "marker dropped",
			labels: []string{"__Entity__", "Person"},
			want:   []string{"Person"},
		},
		{
			name:   "only marker becomes wildcard",
			labels: []string{"__Entity__"},
			want:   []string{"*"},
		},
		{
			name:   "no labels becomes wildcard",
			labels: nil,
			want:   []string{"*"},
		},
		{
			name:   "plain labels untouched",
			labels: []string{"Document"},
			want:   []string{"Document"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := normalizeNode(RawNode{ElementID: "n1", Labels: tt.labels})
			if !reflect.DeepEqual(node.Labels, tt.want) {
				t.Fatalf("labels = %v, want %v", node.Labels, tt.want)
			}
		})
	}
}

func TestNormalizeNodeProperties(t *testing.T) {
	raw := RawNode{
		ElementID: "n1",
		Labels:    []string{"Chunk"},
		Properties: map[string]any{
			"embedding": []float64{0.1, 0.2},
			"text":      "raw chunk text",
			"summary":   "a summary",
			"position":  int64(3),
			"fileName":  "report.pdf",
		},
	}

	node := normalizeNode(raw)
	for _, key := range []string{"embedding", "text", "summary"} {
		if _, ok := node.Properties[key]; ok {
			t.Errorf("property %q should be filtered out", key)
		}
	}
	if node.Properties["position"] != int64(3) {
		t.Errorf("position = %v, want 3", node.Properties["position"])
	}
	if node.Properties["fileName"] != "report.pdf" {
		t.Errorf("fileName = %v, want report.pdf", node.Properties["fileName"])
	}
}

func TestNormalizeValueTemporal(t *testing.T) {
	instant := time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)

	got := normalizeValue(instant)
	if got != "2024-05-17T09:30:00Z" {
		t.Errorf("datetime = %v, want 2024-05-17T09:30:00Z", got)
	}

	date := normalizeValue(dbtype.Date(instant))
	if date != "2024-05-17" {
		t.Errorf("date = %v, want 2024-05-17", date)
	}

	if normalizeValue("plain") != "plain" {
		t.Error("non-temporal value was altered")
	}
	if normalizeValue(int64(7)) != int64(7) {
		t.Error("integer value was altered")
	}
}

func TestExtractRelationships(t *testing.T) {
	alice := RawNode{ElementID: "n1", Labels: []string{"Person"}}
	acme := RawNode{ElementID: "n2", Labels: []string{"Company"}}

	records := []Record{
		{Relationships: []RawRelationship{
			{ElementID: "r1", Type: "WORKS_AT", Nodes: []RawNode{alice, acme}},
		}},
		{Relationships: []RawRelationship{
			{ElementID: "r1", Type: "WORKS_AT", Nodes: []RawNode{alice, acme}},
			{ElementID: "r2", Type: "KNOWS", Nodes: []RawNode{alice, alice}},
		}},
	}

	rels := ExtractRelationships(records)
	if len(rels) != 2 {
		t.Fatalf("got %d relationships, want 2", len(rels))
	}
	if rels[0].ElementID != "r1" || rels[0].StartNodeElementID != "n1" || rels[0].EndNodeElementID != "n2" {
		t.Fatalf("unexpected first relationship: %+v", rels[0])
	}
}

func TestExtractRelationshipsMalformedSkipped(t *testing.T) {
	alice := RawNode{ElementID: "n1", Labels: []string{"Person"}}
	acme := RawNode{ElementID: "n2", Labels: []string{"Company"}}

	records := []Record{
		{Relationships: []RawRelationship{
			{ElementID: "r1", Type: "WORKS_AT", Nodes: []RawNode{alice}},
			{ElementID: "r2", Type: "OWNS", Nodes: []RawNode{acme, alice}},
		}},
	}

	rels := ExtractRelationships(records)
	if len(rels) != 1 {
		t.Fatalf("got %d relationships, want 1", len(rels))
	}
	if rels[0].ElementID != "r2" {
		t.Fatalf("surviving relationship = %q, want r2", rels[0].ElementID)
	}
}

func TestHydrateRecordResolvesEndpoints(t *testing.T) {
	record := &neo4j.Record{
		Keys: []string{"nodes", "rels"},
		Values: []any{
			[]any{
				dbtype.Node{Id: 1, Labels: []string{"Person"}, Props: map[string]any{"name": "alice"}},
				dbtype.Node{Id: 2, Labels: []string{"Company"}},
			},
			[]any{
				dbtype.Relationship{Id: 10, StartId: 1, EndId: 2, Type: "WORKS_AT"},
				dbtype.Relationship{Id: 11, StartId: 1, EndId: 99, Type: "KNOWS"},
			},
		},
	}

	raw := hydrateRecord(record)

	if len(raw.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(raw.Nodes))
	}
	if len(raw.Relationships) != 2 {
		t.Fatalf("got %d relationships, want 2", len(raw.Relationships))
	}
	if len(raw.Relationships[0].Nodes) != 2 {
		t.Errorf("resolved relationship has %d endpoints, want 2", len(raw.Relationships[0].Nodes))
	}
	// Endpoint 99 is not in the record, the relationship stays malformed and
	// the extractor drops it.
	if len(raw.Relationships[1].Nodes) != 1 {
		t.Errorf("dangling relationship has %d endpoints, want 1", len(raw.Relationships[1].Nodes))
	}
	if rels := ExtractRelationships([]Record{raw}); len(rels) != 1 {
		t.Errorf("extractor kept %d relationships, want 1", len(rels))
	}
}

package graphdb

import (
	"testing"
	"time"

	"github.com/docunet-ai/docunet/backend/pkg/common"
)

func TestChunkRow(t *testing.T) {
	tests := []struct {
		name     string
		chunk    common.Chunk
		position int
		check    func(t *testing.T, row map[string]any)
	}{
		{
			name: "paged chunk",
			chunk: common.Chunk{
				ID:      "c1",
				Content: "page content",
				Meta:    common.ChunkMeta{Kind: common.SourceKindPaged, PageNumber: 4},
			},
			position: 1,
			check: func(t *testing.T, row map[string]any) {
				if row["page_number"] != 4 {
					t.Errorf("page_number = %v, want 4", row["page_number"])
				}
				if row["start_time"] != nil || row["end_time"] != nil {
					t.Error("paged chunk must not carry time properties")
				}
			},
		},
		{
			name: "timed chunk",
			chunk: common.Chunk{
				ID:      "c2",
				Content: "transcript piece",
				Meta: common.ChunkMeta{
					Kind:  common.SourceKindTimed,
					Start: 30 * time.Second,
					End:   90 * time.Second,
				},
			},
			position: 2,
			check: func(t *testing.T, row map[string]any) {
				if row["start_time"] != 30.0 || row["end_time"] != 90.0 {
					t.Errorf("time range = %v..%v, want 30..90", row["start_time"], row["end_time"])
				}
				if row["page_number"] != nil {
					t.Error("timed chunk must not carry a page number")
				}
			},
		},
		{
			name: "generic chunk",
			chunk: common.Chunk{
				ID:      "c3",
				Content: "plain text",
				Meta:    common.ChunkMeta{Kind: common.SourceKindGeneric},
			},
			position: 3,
			check: func(t *testing.T, row map[string]any) {
				if row["page_number"] != nil || row["start_time"] != nil || row["end_time"] != nil {
					t.Error("generic chunk must not carry positional properties")
				}
			},
		},
		{
			name: "text sanitized",
			chunk: common.Chunk{
				ID:      "c4",
				Content: "broken\x00text",
				Meta:    common.ChunkMeta{Kind: common.SourceKindGeneric},
			},
			position: 4,
			check: func(t *testing.T, row map[string]any) {
				if row["text"] != "brokentext" {
					t.Errorf("text = %q, want NUL stripped", row["text"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := chunkRow(tt.chunk, tt.position)
			if row["id"] != tt.chunk.ID {
				t.Errorf("id = %v, want %v", row["id"], tt.chunk.ID)
			}
			if row["position"] != tt.position {
				t.Errorf("position = %v, want %v", row["position"], tt.position)
			}
			tt.check(t, row)
		})
	}
}

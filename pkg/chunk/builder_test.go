package chunk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/docunet-ai/docunet/backend/pkg/common"
)

// pipeSplitter splits on "|" so tests control piece boundaries exactly.
type pipeSplitter struct{}

func (pipeSplitter) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return strings.Split(text, "|"), nil
}

type fixedResolver struct {
	duration time.Duration
	err      error
	lastID   string
}

func (r *fixedResolver) VideoDuration(ctx context.Context, videoID string) (time.Duration, error) {
	r.lastID = videoID
	return r.duration, r.err
}

func newTestBuilder(t *testing.T, splitter TextSplitter, resolver DurationResolver) *Builder {
	t.Helper()
	builder, err := NewBuilder(NewBuilderParams{
		Splitter:          splitter,
		Resolver:          resolver,
		TokenChunkSize:    100,
		MaxTokenChunkSize: 100000,
	})
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	return builder
}

func TestBuildEmptyInput(t *testing.T) {
	builder := newTestBuilder(t, pipeSplitter{}, nil)

	_, err := builder.Build(context.Background(), common.Document{FileName: "empty.pdf"})
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "empty.pdf") {
		t.Fatalf("error should name the document: %v", err)
	}
}

func TestBuildPaged(t *testing.T) {
	builder := newTestBuilder(t, pipeSplitter{}, nil)

	doc := common.Document{
		FileName: "report.pdf",
		Pages: []common.Page{
			{Content: "p1a|p1b", Number: 1},
			{Content: "p2a", Number: 2},
			{Content: "p3a|p3b|p3c", Number: 3},
		},
	}

	chunks, err := builder.Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantContents := []string{"p1a", "p1b", "p2a", "p3a", "p3b", "p3c"}
	wantPages := []int{1, 1, 2, 3, 3, 3}
	if len(chunks) != len(wantContents) {
		t.Fatalf("got %d chunks, want %d", len(chunks), len(wantContents))
	}
	for i, chunk := range chunks {
		if chunk.Content != wantContents[i] {
			t.Errorf("chunk %d content = %q, want %q", i, chunk.Content, wantContents[i])
		}
		if chunk.Meta.Kind != common.SourceKindPaged {
			t.Errorf("chunk %d kind = %q, want paged", i, chunk.Meta.Kind)
		}
		if chunk.Meta.PageNumber != wantPages[i] {
			t.Errorf("chunk %d page = %d, want %d", i, chunk.Meta.PageNumber, wantPages[i])
		}
		if chunk.ID == "" {
			t.Errorf("chunk %d has no id", i)
		}
	}
}

func TestBuildGeneric(t *testing.T) {
	builder := newTestBuilder(t, pipeSplitter{}, nil)

	doc := common.Document{
		FileName: "notes.txt",
		Pages: []common.Page{
			{Content: "a|b"},
			{Content: "c"},
		},
	}

	chunks, err := builder.Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.Meta.Kind != common.SourceKindGeneric {
			t.Errorf("chunk %d kind = %q, want generic", i, chunk.Meta.Kind)
		}
		if chunk.Meta.PageNumber != 0 || chunk.Meta.Start != 0 || chunk.Meta.End != 0 {
			t.Errorf("chunk %d has positional metadata %+v, want none", i, chunk.Meta)
		}
	}
}

func TestBuildTimedContinuous(t *testing.T) {
	tests := []struct {
		name  string
		pages []common.Page
	}{
		{
			name: "single page",
			pages: []common.Page{
				{
					Content: "aaaa|bbbb|cccc|dddd",
					Length:  10 * time.Minute,
					Source:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				},
			},
		},
		{
			name: "second page empty",
			pages: []common.Page{
				{
					Content: "aaaa|bbbb|cccc|dddd",
					Length:  10 * time.Minute,
					Source:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				},
				{Content: "   ", Length: time.Minute},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fixedResolver{duration: 8 * time.Minute}
			builder := newTestBuilder(t, pipeSplitter{}, resolver)

			chunks, err := builder.Build(context.Background(), common.Document{
				FileName: "talk.mp4",
				Pages:    tt.pages,
			})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if resolver.lastID != "dQw4w9WgXcQ" {
				t.Fatalf("resolver got id %q, want dQw4w9WgXcQ", resolver.lastID)
			}
			if len(chunks) != 4 {
				t.Fatalf("got %d chunks, want 4", len(chunks))
			}

			if chunks[0].Meta.Start != 0 {
				t.Errorf("first chunk starts at %v, want 0", chunks[0].Meta.Start)
			}
			if chunks[len(chunks)-1].Meta.End != 8*time.Minute {
				t.Errorf("last chunk ends at %v, want 8m", chunks[len(chunks)-1].Meta.End)
			}
			for i := 1; i < len(chunks); i++ {
				if chunks[i].Meta.Start != chunks[i-1].Meta.End {
					t.Errorf("chunk %d starts at %v, want previous end %v", i, chunks[i].Meta.Start, chunks[i-1].Meta.End)
				}
			}
		})
	}
}

func TestBuildTimedContinuousBadIdentifier(t *testing.T) {
	builder := newTestBuilder(t, pipeSplitter{}, &fixedResolver{duration: time.Minute})

	_, err := builder.Build(context.Background(), common.Document{
		FileName: "talk.mp4",
		Pages: []common.Page{
			{Content: "aaaa", Length: time.Minute, Source: "https://example.com/no-video-here"},
		},
	})
	if !errors.Is(err, ErrIdentifierExtraction) {
		t.Fatalf("expected ErrIdentifierExtraction, got %v", err)
	}
	if !strings.Contains(err.Error(), "talk.mp4") {
		t.Fatalf("error should name the document: %v", err)
	}
}

func TestBuildTimedSegmented(t *testing.T) {
	builder := newTestBuilder(t, pipeSplitter{}, nil)

	doc := common.Document{
		FileName: "album",
		Pages: []common.Page{
			{Content: "aaaa|bbbb", Length: 60 * time.Second},
			{Content: "cccc", Length: 30 * time.Second},
		},
	}

	chunks, err := builder.Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}

	if chunks[0].Meta.Start != 0 || chunks[1].Meta.End != 60*time.Second {
		t.Errorf("first segment ranges wrong: %+v, %+v", chunks[0].Meta, chunks[1].Meta)
	}
	if chunks[2].Meta.Start != 60*time.Second || chunks[2].Meta.End != 90*time.Second {
		t.Errorf("second segment range = %+v, want [60s, 90s)", chunks[2].Meta)
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].Meta.Start < chunks[i-1].Meta.End {
			t.Errorf("chunk %d overlaps previous: %+v after %+v", i, chunks[i].Meta, chunks[i-1].Meta)
		}
	}
}

// manySplitter yields a fixed number of pieces regardless of input.
type manySplitter struct{ n int }

func (s manySplitter) Split(text string) ([]string, error) {
	pieces := make([]string, s.n)
	for i := range pieces {
		pieces[i] = fmt.Sprintf("piece-%d", i)
	}
	return pieces, nil
}

func TestBuildSafetyValveTruncation(t *testing.T) {
	// MAX_TOKEN_CHUNK_SIZE=1000 and token_chunk_size=100 give a ceiling of
	// 10, so at most 100 chunks survive.
	builder, err := NewBuilder(NewBuilderParams{
		Splitter:          manySplitter{n: 150},
		TokenChunkSize:    100,
		MaxTokenChunkSize: 1000,
	})
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}

	chunks, err := builder.Build(context.Background(), common.Document{
		FileName: "huge.txt",
		Pages:    []common.Page{{Content: "ignored"}},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(chunks) != 100 {
		t.Fatalf("got %d chunks, want exactly 100", len(chunks))
	}
	if chunks[0].Content != "piece-0" || chunks[99].Content != "piece-99" {
		t.Fatalf("truncation did not preserve order: first %q, last %q", chunks[0].Content, chunks[99].Content)
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		want    string
		wantErr bool
	}{
		{
			name:   "watch url",
			source: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want:   "dQw4w9WgXcQ",
		},
		{
			name:   "extra query params",
			source: "https://www.youtube.com/watch?t=42&v=abcDEF12345&feature=share",
			want:   "abcDEF12345",
		},
		{
			name:    "no marker",
			source:  "https://youtu.be/dQw4w9WgXcQ",
			wantErr: true,
		},
		{
			name:    "identifier too short",
			source:  "https://www.youtube.com/watch?v=short",
			wantErr: true,
		},
		{
			name:    "empty",
			source:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.source)
			if tt.wantErr {
				if !errors.Is(err, ErrIdentifierExtraction) {
					t.Fatalf("expected ErrIdentifierExtraction, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractVideoID() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("ExtractVideoID() = %q, want %q", got, tt.want)
			}
		})
	}
}

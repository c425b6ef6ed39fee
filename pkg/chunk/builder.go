package chunk

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/docunet-ai/docunet/backend/internal/metrics"
	"github.com/docunet-ai/docunet/backend/pkg/common"
	"github.com/docunet-ai/docunet/backend/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	// ErrEmptyInput is returned when a document has no pages at all.
	ErrEmptyInput = errors.New("document has no pages")

	// ErrIdentifierExtraction is returned when the video identifier cannot
	// be recovered from a continuous timed source.
	ErrIdentifierExtraction = errors.New("could not extract video identifier")
)

var videoIDRe = regexp.MustCompile(`(?:v=)([0-9A-Za-z_-]{11})`)

// ExtractVideoID recovers the 11-character video identifier following a
// `v=` marker in a URL-like source string.
func ExtractVideoID(source string) (string, error) {
	match := videoIDRe.FindStringSubmatch(source)
	if match == nil {
		return "", fmt.Errorf("%w from %q", ErrIdentifierExtraction, source)
	}
	return match[1], nil
}

// DurationResolver looks up the total duration of a video by its identifier.
// It is consulted only for single-segment timed sources, whose pages carry
// no usable duration themselves.
type DurationResolver interface {
	VideoDuration(ctx context.Context, videoID string) (time.Duration, error)
}

// Builder turns a document's pages into a bounded, ordered chunk sequence
// with source-appropriate positional metadata. The strategy (paged, timed,
// generic) is decided once per document from its first page.
type Builder struct {
	splitter TextSplitter
	resolver DurationResolver

	tokenChunkSize    int
	maxTokenChunkSize int
}

// NewBuilderParams contains configuration for creating a Builder.
//
// Splitter is optional; when nil a TokenSplitter over TokenChunkSize and
// ChunkOverlap is created. Resolver is required only for documents that are
// single-segment timed sources.
type NewBuilderParams struct {
	Splitter TextSplitter
	Resolver DurationResolver

	TokenChunkSize    int
	ChunkOverlap      int
	MaxTokenChunkSize int
}

// NewBuilder creates a chunk builder.
func NewBuilder(params NewBuilderParams) (*Builder, error) {
	if params.TokenChunkSize <= 0 {
		return nil, fmt.Errorf("token chunk size must be positive, got %d", params.TokenChunkSize)
	}
	if params.MaxTokenChunkSize <= 0 {
		return nil, fmt.Errorf("max token chunk size must be positive, got %d", params.MaxTokenChunkSize)
	}

	splitter := params.Splitter
	if splitter == nil {
		tokenSplitter, err := NewTokenSplitter(NewTokenSplitterParams{
			TokenChunkSize: params.TokenChunkSize,
			ChunkOverlap:   params.ChunkOverlap,
		})
		if err != nil {
			return nil, err
		}
		splitter = tokenSplitter
	}

	return &Builder{
		splitter:          splitter,
		resolver:          params.Resolver,
		tokenChunkSize:    params.TokenChunkSize,
		maxTokenChunkSize: params.MaxTokenChunkSize,
	}, nil
}

// Build splits a document into chunks. Chunk order is stable and matches the
// order of (page, intra-page piece) pairs. The total chunk count is capped at
// floor(MaxTokenChunkSize/TokenChunkSize) x 10; hitting the cap truncates the
// tail and records a warning, it is not an error.
func (b *Builder) Build(ctx context.Context, doc common.Document) ([]common.Chunk, error) {
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("document %q: %w", doc.FileName, ErrEmptyInput)
	}

	kind := doc.Kind
	if kind == "" {
		kind = common.DetectKind(doc.Pages)
	}

	var chunks []common.Chunk
	var err error
	switch kind {
	case common.SourceKindPaged:
		chunks, err = b.buildPaged(doc.Pages)
	case common.SourceKindTimed:
		chunks, err = b.buildTimed(ctx, doc)
	default:
		chunks, err = b.buildGeneric(doc.Pages)
	}
	if err != nil {
		return nil, err
	}

	ceiling := b.maxTokenChunkSize / b.tokenChunkSize
	limit := ceiling * 10
	if len(chunks) > limit {
		logger.Warn(
			"[Chunk] Truncating chunk sequence to safety-valve ceiling",
			"file_name", doc.FileName,
			"chunks", len(chunks),
			"limit", limit,
		)
		metrics.ChunkTruncations.Inc()
		chunks = chunks[:limit]
	}

	return chunks, nil
}

func (b *Builder) buildPaged(pages []common.Page) ([]common.Chunk, error) {
	var chunks []common.Chunk
	for i, page := range pages {
		pieces, err := b.splitter.Split(page.Content)
		if err != nil {
			return nil, err
		}
		for _, piece := range pieces {
			chunk, err := newChunk(piece, common.ChunkMeta{
				Kind:       common.SourceKindPaged,
				PageNumber: i + 1,
			})
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

func (b *Builder) buildGeneric(pages []common.Page) ([]common.Chunk, error) {
	var chunks []common.Chunk
	for _, page := range pages {
		pieces, err := b.splitter.Split(page.Content)
		if err != nil {
			return nil, err
		}
		for _, piece := range pieces {
			chunk, err := newChunk(piece, common.ChunkMeta{Kind: common.SourceKindGeneric})
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

func (b *Builder) buildTimed(ctx context.Context, doc common.Document) ([]common.Chunk, error) {
	pages := doc.Pages

	// A single page, or a second page with no content, means one continuous
	// timed source whose total duration has to be resolved externally.
	continuous := len(pages) == 1 ||
		(len(pages) > 1 && strings.TrimSpace(pages[1].Content) == "")
	if continuous {
		return b.buildTimedContinuous(ctx, doc)
	}

	segments := make([][]string, len(pages))
	durations := make([]time.Duration, len(pages))
	for i, page := range pages {
		pieces, err := b.splitter.Split(page.Content)
		if err != nil {
			return nil, err
		}
		segments[i] = pieces
		durations[i] = page.Length
	}

	ranges := SegmentRanges(segments, durations)

	var chunks []common.Chunk
	for i, pieces := range segments {
		for j, piece := range pieces {
			chunk, err := newChunk(piece, common.ChunkMeta{
				Kind:  common.SourceKindTimed,
				Start: ranges[i][j].Start,
				End:   ranges[i][j].End,
			})
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

func (b *Builder) buildTimedContinuous(ctx context.Context, doc common.Document) ([]common.Chunk, error) {
	first := doc.Pages[0]

	videoID, err := ExtractVideoID(first.Source)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", doc.FileName, err)
	}

	if b.resolver == nil {
		return nil, fmt.Errorf("document %q: no duration resolver configured for video source", doc.FileName)
	}
	total, err := b.resolver.VideoDuration(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("document %q: failed to resolve video duration: %w", doc.FileName, err)
	}

	pieces, err := b.splitter.Split(first.Content)
	if err != nil {
		return nil, err
	}

	ranges := ProportionalRanges(pieces, total)

	chunks := make([]common.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunk, err := newChunk(piece, common.ChunkMeta{
			Kind:  common.SourceKindTimed,
			Start: ranges[i].Start,
			End:   ranges[i].End,
		})
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func newChunk(content string, meta common.ChunkMeta) (common.Chunk, error) {
	id, err := gonanoid.New()
	if err != nil {
		return common.Chunk{}, err
	}
	return common.Chunk{
		ID:      id,
		Content: content,
		Meta:    meta,
	}, nil
}

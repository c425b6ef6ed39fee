package chunk

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const splitterEncoding = "cl100k_base"

// TextSplitter segments a single page's content into size-bounded pieces.
// Implementations must be deterministic and side-effect free.
type TextSplitter interface {
	Split(text string) ([]string, error)
}

// TokenSplitter splits text into overlapping fixed-size token windows.
// Consecutive windows share ChunkOverlap tokens; the last window may be
// shorter than TokenChunkSize.
type TokenSplitter struct {
	chunkSize int
	overlap   int
	encoding  *tiktoken.Tiktoken
}

// NewTokenSplitterParams contains configuration for creating a TokenSplitter.
type NewTokenSplitterParams struct {
	TokenChunkSize int
	ChunkOverlap   int
}

// NewTokenSplitter creates a splitter over the cl100k_base token encoding.
func NewTokenSplitter(params NewTokenSplitterParams) (*TokenSplitter, error) {
	if params.TokenChunkSize <= 0 {
		return nil, fmt.Errorf("token chunk size must be positive, got %d", params.TokenChunkSize)
	}
	if params.ChunkOverlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", params.ChunkOverlap)
	}
	if params.ChunkOverlap >= params.TokenChunkSize {
		return nil, fmt.Errorf(
			"chunk overlap (%d) must be smaller than token chunk size (%d)",
			params.ChunkOverlap, params.TokenChunkSize,
		)
	}

	enc, err := tiktoken.GetEncoding(splitterEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding: %w", err)
	}

	return &TokenSplitter{
		chunkSize: params.TokenChunkSize,
		overlap:   params.ChunkOverlap,
		encoding:  enc,
	}, nil
}

// Split segments text into token windows. Empty or whitespace-only input
// yields no pieces. The same input always produces the same output.
func (s *TokenSplitter) Split(text string) ([]string, error) {
	tokens := s.encoding.Encode(text, nil, nil)
	if len(tokens) == 0 {
		return nil, nil
	}

	step := s.chunkSize - s.overlap
	var pieces []string
	for start := 0; start < len(tokens); start += step {
		end := min(start+s.chunkSize, len(tokens))
		pieces = append(pieces, s.encoding.Decode(tokens[start:end]))
		if end == len(tokens) {
			break
		}
	}

	return pieces, nil
}

package common

import "time"

// SourceKind identifies the chunking strategy for a document. It is decided
// once per document from the first page a loader produced and never
// re-inspected per page.
type SourceKind string

const (
	// SourceKindPaged marks documents whose pages carry a page number
	// (PDFs and other paginated formats). Chunk boundaries never cross
	// a page boundary and every chunk is tagged with its page number.
	SourceKindPaged SourceKind = "paged"

	// SourceKindTimed marks transcripts of time-based media. Pages carry a
	// segment duration and chunks receive proportional start/end ranges.
	SourceKindTimed SourceKind = "timed"

	// SourceKindGeneric marks plain documents without positional metadata.
	SourceKindGeneric SourceKind = "generic"
)

// Page is one unit of raw loaded content: a PDF page, a transcript segment,
// or a whole document. Pages are produced by a loader and are immutable once
// handed to the chunk builder.
//
// Number is the 1-based page index for paged sources and zero otherwise.
// Length is the segment duration for timed sources and zero otherwise.
// Source is the origin of the page (URL or file path); for single-segment
// timed sources it carries the video URL used to resolve the total duration.
type Page struct {
	Content string        `json:"content"`
	Number  int           `json:"number,omitempty"`
	Length  time.Duration `json:"length,omitempty"`
	Source  string        `json:"source,omitempty"`
}

// Document is an ordered page sequence plus the metadata needed to ingest it.
type Document struct {
	FileName string     `json:"file_name"`
	Kind     SourceKind `json:"kind"`
	Pages    []Page     `json:"pages"`
}

// Chunk is a bounded unit of document content plus positional metadata, the
// unit of downstream indexing. Chunks are created once, never mutated, and
// ordered by source position.
type Chunk struct {
	ID      string    `json:"id"`
	Content string    `json:"content"`
	Meta    ChunkMeta `json:"meta"`
}

// ChunkMeta carries the source-appropriate positional metadata of a chunk.
// Exactly the fields matching Kind are meaningful: PageNumber for paged
// sources, Start/End for timed sources, neither for generic ones.
type ChunkMeta struct {
	Kind       SourceKind    `json:"kind"`
	PageNumber int           `json:"page_number,omitempty"`
	Start      time.Duration `json:"start,omitempty"`
	End        time.Duration `json:"end,omitempty"`
}

// DetectKind derives the chunking strategy from the first page of a document.
// Loaders that paginate set Number, transcript loaders set Length; documents
// with neither fall back to the generic strategy.
func DetectKind(pages []Page) SourceKind {
	if len(pages) == 0 {
		return SourceKindGeneric
	}
	first := pages[0]
	if first.Number > 0 {
		return SourceKindPaged
	}
	if first.Length > 0 {
		return SourceKindTimed
	}
	return SourceKindGeneric
}

package loader

import (
	"context"
	"fmt"

	"github.com/docunet-ai/docunet/backend/pkg/common"
)

// SourceType identifies where a document's raw content comes from.
type SourceType string

const (
	SourceTypeLocal     SourceType = "local"
	SourceTypeS3        SourceType = "s3"
	SourceTypeWeb       SourceType = "web"
	SourceTypeWikipedia SourceType = "wikipedia"
	SourceTypeYouTube   SourceType = "youtube"
)

// Source describes one document to load. Location is a file path, S3 object
// key, URL, or article title depending on Type.
type Source struct {
	FileName string     `json:"file_name"`
	Location string     `json:"location"`
	Type     SourceType `json:"type"`
}

// PageLoader turns a source into an ordered page sequence. Implementations
// decide pagination: PDF loaders emit one page per PDF page, transcript
// loaders emit timed segments, plain loaders emit a single page.
type PageLoader interface {
	LoadPages(ctx context.Context, source Source) ([]common.Page, error)
}

// FileFetcher retrieves the raw bytes of a source location. Implementations
// load from the local filesystem or object storage; format-specific loaders
// compose over them.
type FileFetcher interface {
	FetchFile(ctx context.Context, location string) ([]byte, error)
}

// CacheKey derives the dedup key for in-flight and cached fetches of a
// source.
func CacheKey(source Source) string {
	return string(source.Type) + ":" + source.Location
}

// Registry dispatches a source to the loader registered for its type.
type Registry struct {
	loaders map[SourceType]PageLoader
}

// NewRegistry creates an empty loader registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[SourceType]PageLoader)}
}

// Register binds a loader to a source type, replacing any previous binding.
func (r *Registry) Register(sourceType SourceType, pageLoader PageLoader) {
	r.loaders[sourceType] = pageLoader
}

// Load resolves a source into a document with its chunking strategy
// detected from the loaded pages.
func (r *Registry) Load(ctx context.Context, source Source) (common.Document, error) {
	pageLoader, ok := r.loaders[source.Type]
	if !ok {
		return common.Document{}, fmt.Errorf("no loader registered for source type %q", source.Type)
	}

	pages, err := pageLoader.LoadPages(ctx, source)
	if err != nil {
		return common.Document{}, fmt.Errorf("failed to load %q: %w", source.FileName, err)
	}

	return common.Document{
		FileName: source.FileName,
		Kind:     common.DetectKind(pages),
		Pages:    pages,
	}, nil
}

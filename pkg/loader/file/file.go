package file

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/docunet-ai/docunet/backend/pkg/common"
	"github.com/docunet-ai/docunet/backend/pkg/loader"
	"github.com/docunet-ai/docunet/backend/pkg/loader/doc"
	"github.com/docunet-ai/docunet/backend/pkg/loader/pdf"
)

// PageLoader dispatches a fetched file to the format loader matching its
// extension: PDFs keep per-page structure, everything else is handled as a
// plain document.
type PageLoader struct {
	pdf *pdf.PageLoader
	doc *doc.PageLoader
}

// NewPageLoader creates a format-dispatching loader over a raw file
// fetcher.
func NewPageLoader(fetcher loader.FileFetcher) *PageLoader {
	return &PageLoader{
		pdf: pdf.NewPageLoader(fetcher),
		doc: doc.NewPageLoader(fetcher),
	}
}

// LoadPages loads a file through the loader for its extension.
func (l *PageLoader) LoadPages(ctx context.Context, source loader.Source) ([]common.Page, error) {
	if strings.EqualFold(filepath.Ext(source.Location), ".pdf") {
		return l.pdf.LoadPages(ctx, source)
	}
	return l.doc.LoadPages(ctx, source)
}

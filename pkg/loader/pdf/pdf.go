package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/docunet-ai/docunet/backend/pkg/common"
	"github.com/docunet-ai/docunet/backend/pkg/loader"
	"github.com/docunet-ai/docunet/backend/pkg/logger"

	"github.com/ledongthuc/pdf"
)

// PageLoader extracts text from PDF files page by page. Every PDF page
// becomes one common.Page with its 1-based number, so chunk boundaries
// later never cross a page boundary.
type PageLoader struct {
	fetcher loader.FileFetcher
}

// NewPageLoader creates a PDF loader over a raw file fetcher.
func NewPageLoader(fetcher loader.FileFetcher) *PageLoader {
	return &PageLoader{fetcher: fetcher}
}

// LoadPages fetches and parses a PDF. Pages that fail text extraction are
// logged and emitted empty to keep page numbering aligned with the source
// document.
func (l *PageLoader) LoadPages(ctx context.Context, source loader.Source) ([]common.Page, error) {
	content, err := l.fetcher.FetchFile(ctx, source.Location)
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	totalPages := reader.NumPage()
	if totalPages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	pages := make([]common.Page, 0, totalPages)
	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		page := reader.Page(pageIndex)

		var text string
		if !page.V.IsNull() {
			text, err = page.GetPlainText(nil)
			if err != nil {
				logger.Warn(
					"[Loader] Failed to extract text from pdf page",
					"file_name", source.FileName,
					"page", pageIndex,
					"error", err,
				)
				text = ""
			}
		}

		pages = append(pages, common.Page{
			Content: text,
			Number:  pageIndex,
			Source:  source.Location,
		})
	}

	return pages, nil
}

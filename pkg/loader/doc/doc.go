package doc

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/docunet-ai/docunet/backend/pkg/common"
	"github.com/docunet-ai/docunet/backend/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// PageLoader extracts text from Word documents and plain text files. The
// whole document becomes a single page without positional metadata, the
// generic chunking strategy.
type PageLoader struct {
	fetcher loader.FileFetcher

	cache   map[string]string
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewPageLoader creates a document loader over a raw file fetcher.
func NewPageLoader(fetcher loader.FileFetcher) *PageLoader {
	return &PageLoader{
		fetcher: fetcher,
		cache:   make(map[string]string),
	}
}

// LoadPages fetches a document and extracts its text. Word documents are
// parsed from their XML body, everything else is treated as plain text with
// invalid UTF-8 replaced.
func (l *PageLoader) LoadPages(ctx context.Context, source loader.Source) ([]common.Page, error) {
	key := loader.CacheKey(source)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return l.pages(cached, source), nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		content, err := l.fetcher.FetchFile(ctx, source.Location)
		if err != nil {
			return nil, err
		}

		var text string
		if strings.EqualFold(filepath.Ext(source.Location), ".docx") {
			text, err = parseDocx(content)
			if err != nil {
				return nil, err
			}
		} else {
			text = strings.ToValidUTF8(string(content), "�")
		}

		l.cacheMu.Lock()
		l.cache[key] = text
		l.cacheMu.Unlock()

		return text, nil
	})
	if err != nil {
		return nil, err
	}

	return l.pages(result.(string), source), nil
}

func (l *PageLoader) pages(text string, source loader.Source) []common.Page {
	return []common.Page{{
		Content: text,
		Source:  source.Location,
	}}
}

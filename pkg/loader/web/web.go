package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/docunet-ai/docunet/backend/pkg/common"
	"github.com/docunet-ai/docunet/backend/pkg/loader"

	"codeberg.org/readeck/go-readability/v2"
	"golang.org/x/sync/singleflight"
)

// PageLoader fetches web pages and extracts their readable text. HTML
// responses go through readability to strip navigation and boilerplate;
// anything else is taken verbatim. The page content becomes a single
// generic page.
type PageLoader struct {
	client *http.Client

	cache   map[string]string
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewPageLoader creates a web loader using the given HTTP client, or
// http.DefaultClient when nil.
func NewPageLoader(client *http.Client) *PageLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &PageLoader{
		client: client,
		cache:  make(map[string]string),
	}
}

// LoadPages fetches a URL and extracts its main text content. Results are
// cached per URL and concurrent fetches are collapsed.
func (l *PageLoader) LoadPages(ctx context.Context, source loader.Source) ([]common.Page, error) {
	key := loader.CacheKey(source)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return pages(cached, source), nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.Location, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch url: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, source.Location)
		}

		var text string
		if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
			pageURL, err := url.Parse(source.Location)
			if err != nil {
				return nil, fmt.Errorf("failed to parse url: %w", err)
			}
			article, err := readability.FromReader(resp.Body, pageURL)
			if err != nil {
				return nil, fmt.Errorf("failed to parse html: %w", err)
			}
			var builder strings.Builder
			if err := article.RenderText(&builder); err != nil {
				return nil, fmt.Errorf("failed to render article text: %w", err)
			}
			text = builder.String()
		} else {
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, fmt.Errorf("failed to read response body: %w", err)
			}
			text = string(body)
		}

		l.cacheMu.Lock()
		l.cache[key] = text
		l.cacheMu.Unlock()

		return text, nil
	})
	if err != nil {
		return nil, err
	}

	return pages(result.(string), source), nil
}

func pages(text string, source loader.Source) []common.Page {
	return []common.Page{{
		Content: text,
		Source:  source.Location,
	}}
}

package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/docunet-ai/docunet/backend/internal/util"
	"github.com/docunet-ai/docunet/backend/pkg/common"
	"github.com/docunet-ai/docunet/backend/pkg/loader"
)

// maxContentChars bounds the extracted article size.
const maxContentChars = 100000

// maxRetries bounds how often a failed API query is repeated.
const maxRetries = 3

// PageLoader fetches Wikipedia articles as plain text through the MediaWiki
// query API. The article becomes a single generic page.
type PageLoader struct {
	client   *http.Client
	language string
}

// NewPageLoaderParams contains configuration for creating a Wikipedia
// loader.
type NewPageLoaderParams struct {
	Client   *http.Client
	Language string
}

// NewPageLoader creates a Wikipedia loader. Language defaults to "en".
func NewPageLoader(params NewPageLoaderParams) *PageLoader {
	client := params.Client
	if client == nil {
		client = http.DefaultClient
	}
	language := params.Language
	if language == "" {
		language = "en"
	}
	return &PageLoader{client: client, language: language}
}

// LoadPages fetches the plain-text extract of the article named by the
// source location.
func (l *PageLoader) LoadPages(ctx context.Context, source loader.Source) ([]common.Page, error) {
	title := strings.TrimSpace(source.Location)
	if title == "" {
		return nil, fmt.Errorf("wikipedia article title is empty")
	}

	endpoint := fmt.Sprintf("https://%s.wikipedia.org/w/api.php", l.language)
	query := url.Values{
		"action":      {"query"},
		"prop":        {"extracts"},
		"explaintext": {"1"},
		"format":      {"json"},
		"redirects":   {"1"},
		"titles":      {title},
	}

	body, err := util.RetryWithContext(ctx, maxRetries, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to query wikipedia: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d from wikipedia", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}

	extract, err := parseExtract(body)
	if err != nil {
		return nil, fmt.Errorf("article %q: %w", title, err)
	}

	if len(extract) > maxContentChars {
		extract = extract[:maxContentChars]
	}

	return []common.Page{{
		Content: extract,
		Source:  endpoint + "?titles=" + url.QueryEscape(title),
	}}, nil
}

type queryResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
			Missing *any   `json:"missing,omitempty"`
		} `json:"pages"`
	} `json:"query"`
}

// parseExtract pulls the plain-text extract out of a MediaWiki query
// response. The pages object is keyed by page id; a "-1" key marks a
// missing article.
func parseExtract(body []byte) (string, error) {
	var response queryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to decode wikipedia response: %w", err)
	}

	for id, page := range response.Query.Pages {
		if id == "-1" || page.Missing != nil {
			return "", fmt.Errorf("article not found")
		}
		if page.Extract == "" {
			return "", fmt.Errorf("article has no extractable text")
		}
		return page.Extract, nil
	}

	return "", fmt.Errorf("empty wikipedia response")
}

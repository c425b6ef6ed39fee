package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/docunet-ai/docunet/backend/pkg/chunk"
	"github.com/docunet-ai/docunet/backend/pkg/common"
	"github.com/docunet-ai/docunet/backend/pkg/loader"
)

// PageLoader fetches YouTube transcripts through the timedtext endpoint.
// The whole transcript becomes a single timed page carrying the watch URL,
// so the chunk builder can recover the video id and resolve the exact
// duration externally.
type PageLoader struct {
	client   *http.Client
	language string
}

// NewPageLoaderParams contains configuration for creating a YouTube loader.
type NewPageLoaderParams struct {
	Client   *http.Client
	Language string
}

// NewPageLoader creates a YouTube transcript loader. Language defaults to
// "en".
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

// LoadPages fetches the transcript of the video referenced by the source
// location, which must be a watch URL carrying a v= parameter.
func (l *PageLoader) LoadPages(ctx context.Context, source loader.Source) ([]common.Page, error) {
	videoID, err := chunk.ExtractVideoID(source.Location)
	if err != nil {
		return nil, err
	}

	endpoint := "https://video.google.com/timedtext?" + url.Values{
		"lang": {l.language},
		"v":    {videoID},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching transcript for %s", resp.StatusCode, videoID)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	text, length, err := parseTranscript(body)
	if err != nil {
		return nil, fmt.Errorf("video %s: %w", videoID, err)
	}

	return []common.Page{{
		Content: text,
		Length:  length,
		Source:  source.Location,
	}}, nil
}

type transcript struct {
	Texts []transcriptText `xml:"text"`
}

type transcriptText struct {
	Start   string `xml:"start,attr"`
	Dur     string `xml:"dur,attr"`
	Content string `xml:",chardata"`
}

// parseTranscript joins a timedtext document into one text body and derives
// the covered duration from the last caption's start plus its duration.
func parseTranscript(body []byte) (string, time.Duration, error) {
	var doc transcript
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", 0, fmt.Errorf("failed to decode transcript: %w", err)
	}
	if len(doc.Texts) == 0 {
		return "", 0, fmt.Errorf("transcript is empty")
	}

	parts := make([]string, 0, len(doc.Texts))
	var end float64
	for _, entry := range doc.Texts {
		content := strings.TrimSpace(entry.Content)
		if content != "" {
			parts = append(parts, content)
		}

		start, _ := strconv.ParseFloat(entry.Start, 64)
		dur, _ := strconv.ParseFloat(entry.Dur, 64)
		if start+dur > end {
			end = start + dur
		}
	}

	if len(parts) == 0 {
		return "", 0, fmt.Errorf("transcript has no text")
	}

	return strings.Join(parts, " "), time.Duration(end * float64(time.Second)), nil
}

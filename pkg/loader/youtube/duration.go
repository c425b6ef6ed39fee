package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"
)

// DurationResolver resolves the total length of a video through the YouTube
// Data API. It satisfies the chunk builder's resolver contract for
// continuous timed sources.
type DurationResolver struct {
	client *http.Client
	apiKey string
}

// NewDurationResolverParams contains configuration for creating a
// DurationResolver.
type NewDurationResolverParams struct {
	Client *http.Client
	APIKey string
}

// NewDurationResolver creates a duration resolver.
func NewDurationResolver(params NewDurationResolverParams) (*DurationResolver, error) {
	if params.APIKey == "" {
		return nil, fmt.Errorf("youtube api key is required")
	}
	client := params.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &DurationResolver{client: client, apiKey: params.APIKey}, nil
}

// VideoDuration looks up a video's contentDetails duration.
func (r *DurationResolver) VideoDuration(ctx context.Context, videoID string) (time.Duration, error) {
	endpoint := "https://www.googleapis.com/youtube/v3/videos?" + url.Values{
		"part": {"contentDetails"},
		"id":   {videoID},
		"key":  {r.apiKey},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to query video details: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d from video details api", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read video details: %w", err)
	}

	return parseVideoDuration(body, videoID)
}

type videoListResponse struct {
	Items []struct {
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

func parseVideoDuration(body []byte, videoID string) (time.Duration, error) {
	var response videoListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return 0, fmt.Errorf("failed to decode video details: %w", err)
	}
	if len(response.Items) == 0 {
		return 0, fmt.Errorf("video %s not found", videoID)
	}
	return ParseISODuration(response.Items[0].ContentDetails.Duration)
}

var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseISODuration parses the ISO-8601 duration flavor the video API emits,
// e.g. "PT1H2M10S" or "P1DT30M".
func ParseISODuration(value string) (time.Duration, error) {
	match := isoDurationRe.FindStringSubmatch(value)
	if match == nil || value == "P" || value == "PT" {
		return 0, fmt.Errorf("invalid duration %q", value)
	}

	days, _ := strconv.ParseInt(zeroIfEmpty(match[1]), 10, 64)
	hours, _ := strconv.ParseInt(zeroIfEmpty(match[2]), 10, 64)
	minutes, _ := strconv.ParseInt(zeroIfEmpty(match[3]), 10, 64)
	seconds, _ := strconv.ParseFloat(zeroIfEmpty(match[4]), 64)

	total := time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second))
	return total, nil
}

func zeroIfEmpty(value string) string {
	if value == "" {
		return "0"
	}
	return value
}

package limitless

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/takak2166/limitless2md/internal/logger"
	"github.com/takak2166/limitless2md/internal/models"
)

const (
	// pageSize is the fixed number of lifelogs requested per page
	pageSize = 10
	// maxRetries bounds rate-limit retries per logical request, beyond
	// the first attempt
	maxRetries = 5
)

// ErrRateLimitExhausted is returned when the API keeps responding 429
// past the retry budget. Callers treat it like any other fetch failure.
var ErrRateLimitExhausted = errors.New("rate limited by lifelogs API after all retries")

// Config carries everything the client needs. The API key is explicit
// here so a settings change mid-run cannot leak into an active sync.
type Config struct {
	APIKey   string
	BaseURL  string
	Timezone string
	// HTTPClient overrides the default client, used by tests
	HTTPClient *http.Client
}

// Client fetches lifelogs from the Limitless API, one day at a time
type Client struct {
	apiKey     string
	baseURL    string
	timezone   string
	httpClient *http.Client
	sleep      func(time.Duration)
}

// NewClient creates a Client from the given configuration
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		timezone:   cfg.Timezone,
		httpClient: httpClient,
		sleep:      time.Sleep,
	}
}

// FetchDay retrieves every lifelog recorded on the given calendar day,
// in ascending chronological order, following pagination cursors until
// the API reports no further page.
func (c *Client) FetchDay(ctx context.Context, day time.Time) ([]models.Lifelog, error) {
	date := day.Format("2006-01-02")

	var lifelogs []models.Lifelog
	cursor := ""
	for {
		page, err := c.fetchPage(ctx, date, cursor)
		if err != nil {
			return nil, err
		}
		lifelogs = append(lifelogs, page.Data.Lifelogs...)

		cursor = page.Meta.Lifelogs.NextCursor
		if cursor == "" {
			break
		}
		logger.Debug("Following pagination cursor", map[string]interface{}{
			"date":  date,
			"count": len(lifelogs),
		})
	}

	return lifelogs, nil
}

// fetchPage issues one page request, retrying on 429 per the retry policy
func (c *Client) fetchPage(ctx context.Context, date, cursor string) (*models.LifelogsResponse, error) {
	for attempt := 0; ; attempt++ {
		resp, err := c.doRequest(ctx, date, cursor)
		if err != nil {
			return nil, fmt.Errorf("request lifelogs: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := resp.Header.Get("Retry-After")
			drain(resp)

			if attempt >= maxRetries {
				return nil, fmt.Errorf("%w (date %s)", ErrRateLimitExhausted, date)
			}

			delay := retryDelay(retryAfter, attempt)
			logger.Debug("Rate limited, backing off", map[string]interface{}{
				"date":        date,
				"attempt":     attempt,
				"delay":       delay.String(),
				"retry_after": retryAfter,
			})
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			c.sleep(delay)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			drain(resp)
			return nil, fmt.Errorf("lifelogs API returned status %d", resp.StatusCode)
		}

		var page models.LifelogsResponse
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode lifelogs response: %w", err)
		}
		return &page, nil
	}
}

// doRequest builds and sends a single GET /v1/lifelogs request
func (c *Client) doRequest(ctx context.Context, date, cursor string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/lifelogs", nil)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("date", date)
	q.Set("timezone", c.timezone)
	q.Set("includeMarkdown", "true")
	q.Set("includeHeadings", "true")
	q.Set("direction", "asc")
	q.Set("limit", strconv.Itoa(pageSize))
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("X-API-Key", c.apiKey)

	return c.httpClient.Do(req)
}

// retryDelay computes how long to wait before the next attempt. An integer
// Retry-After header wins, then an HTTP-date header (clamped to now), then
// exponential backoff: 1s, 2s, 4s, 8s, 16s.
func retryDelay(retryAfter string, attempt int) time.Duration {
	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil {
			return time.Duration(secs) * time.Second
		}
		if at, err := http.ParseTime(retryAfter); err == nil {
			delay := time.Until(at)
			if delay < 0 {
				delay = 0
			}
			return delay
		}
	}
	return time.Second << attempt
}

// drain discards the body so the connection can be reused
func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"ketf/internal/config"
	"ketf/internal/connectors/file"
)

const maxAttempts = 5

// Client downloads a published responses export (CSV or an HTML table) over
// HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	limiter    *RateLimiter
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		url:        cfg.SourceURL,
		httpClient: &http.Client{Timeout: time.Duration(cfg.SourceTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.SourceRateLimitRPS),
	}
}

func (c *Client) FetchRows(ctx context.Context) ([][]string, error) {
	body, contentType, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if strings.Contains(strings.ToLower(contentType), "html") {
		return file.ParseHTMLTable(string(body))
	}
	return file.ParseCSV(body)
}

func (c *Client) fetch(ctx context.Context) ([]byte, string, error) {
	if strings.TrimSpace(c.url) == "" {
		return nil, "", errors.New("missing SOURCE_URL")
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.WaitTurn(ctx); err != nil {
			return nil, "", err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, "", err
		}
		req.Header.Set("Accept", "text/csv, text/html;q=0.9, */*;q=0.5")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, "", ctx.Err()
			}
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < maxAttempts {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				if err := sleepCtx(ctx, backoff); err != nil {
					return nil, "", err
				}
				lastErr = fmt.Errorf("source status %d", resp.StatusCode)
				continue
			}
			return nil, "", fmt.Errorf("source error: status=%d body=%s", resp.StatusCode, truncate(string(body), 200))
		}
		return body, resp.Header.Get("Content-Type"), nil
	}

	if lastErr == nil {
		lastErr = errors.New("source request failed")
	}
	return nil, "", lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

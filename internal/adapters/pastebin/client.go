// Package pastebin posts text to the Pastebin API.
package pastebin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"placelog/internal/adapters/observability"
)

const (
	DefaultURL = "https://pastebin.com/api/api_post.php"

	privacyPrivate  = "1"
	maxResponseBody = 64 << 10
)

type Client struct {
	endpoint string
	hc       *http.Client
	key      string
	rl       *rate.Limiter
}

func New(endpoint, key string, timeout time.Duration, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("pastebin API key is required")
	}
	if endpoint == "" {
		endpoint = DefaultURL
	}
	if rps <= 0 {
		rps = 1
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		hc:       &http.Client{Timeout: timeout},
		key:      key,
		rl:       rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// Publish creates a private paste and returns the response body verbatim.
// Pastebin reports API errors as plain text with a 200 status, so the body
// may be a URL or an error message; validating it is the caller's job.
func (c *Client) Publish(ctx context.Context, title, text string) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}
	form := url.Values{}
	form.Set("api_dev_key", c.key)
	form.Set("api_option", "paste")
	form.Set("api_paste_code", text)
	form.Set("api_paste_private", privacyPrivate)
	if title != "" {
		form.Set("api_paste_name", title)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "placelog/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("pastebin", "api_post", 0, time.Since(start))
		log.Warn().Err(err).Str("service", "pastebin").Msg("paste request failed")
		return "", fmt.Errorf("pastebin: %w", err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("pastebin", "api_post", resp.StatusCode, time.Since(start))

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", fmt.Errorf("pastebin: read body: %w", err)
	}
	return string(b), nil
}

// Package translate wraps the Google Cloud Translation v2 API.
package translate

import (
	"context"
	"errors"
	"fmt"
	"time"

	gtranslate "cloud.google.com/go/translate"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	"placelog/internal/adapters/observability"
)

// Client translates into one fixed target language with source auto-detection.
type Client struct {
	c       *gtranslate.Client
	target  language.Tag
	timeout time.Duration
}

func New(ctx context.Context, key, endpoint, target string, timeout time.Duration) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("translate API key is required")
	}
	tag, err := language.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target language %q: %w", target, err)
	}
	opts := []option.ClientOption{option.WithAPIKey(key)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	c, err := gtranslate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create translate client: %w", err)
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{c: c, target: tag, timeout: timeout}, nil
}

func (c *Client) Target() language.Tag { return c.target }

// Translate returns text in the target language. Plain-text format keeps
// quotes and ampersands from coming back as HTML entities.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	ts, err := c.c.Translate(ctx, []string{text}, c.target, &gtranslate.Options{Format: gtranslate.Text})
	if err != nil {
		observability.ObserveExternal("translate", "translate", 0, time.Since(start))
		log.Warn().Err(err).Str("service", "translate").Msg("translation failed")
		return "", fmt.Errorf("translation failed: %w", err)
	}
	observability.ObserveExternal("translate", "translate", 200, time.Since(start))
	if len(ts) == 0 {
		return "", errors.New("no translation returned")
	}
	return ts[0].Text, nil
}

func (c *Client) Close() error { return c.c.Close() }

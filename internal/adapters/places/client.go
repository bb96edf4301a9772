// Package places talks to the Google Places web service.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"placelog/internal/adapters/observability"
	"placelog/internal/domain"
)

const (
	DefaultBase   = "https://maps.googleapis.com/maps/api/place"
	photoMaxWidth = "800"

	findFields    = "place_id,formatted_address"
	detailsFields = "name,formatted_address,rating,photos,reviews,geometry"
)

var ErrUnauthorized = errors.New("places: unauthorized")

type Client struct {
	base string
	hc   *http.Client
	key  string
	lang string
	rl   *rate.Limiter
}

func New(base, key, lang string, timeout time.Duration, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("places API key is required")
	}
	if base == "" {
		base = DefaultBase
	}
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
		key:  key,
		lang: lang,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type findResponse struct {
	Status       string             `json:"status"`
	Candidates   []domain.Candidate `json:"candidates"`
	ErrorMessage string             `json:"error_message,omitempty"`
}

// FindPlace runs a text query and returns the candidates in API order.
// ZERO_RESULTS is not an error; it yields an empty slice.
func (c *Client) FindPlace(ctx context.Context, input string) ([]domain.Candidate, error) {
	q := url.Values{}
	q.Set("input", input)
	q.Set("inputtype", "textquery")
	q.Set("fields", findFields)
	q.Set("language", c.lang)
	q.Set("key", c.key)

	var out findResponse
	if err := c.get(ctx, "findplacefromtext", c.base+"/findplacefromtext/json?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	if out.ErrorMessage != "" {
		log.Warn().Str("service", "places").Str("status", out.Status).Str("error", out.ErrorMessage).Msg("find place rejected")
	}
	return out.Candidates, nil
}

// Details fetches the detail envelope. The vendor status is returned as-is
// so callers decide what a non-OK status means.
func (c *Client) Details(ctx context.Context, placeID string) (domain.PlaceDetails, error) {
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", detailsFields)
	q.Set("language", c.lang)
	q.Set("key", c.key)

	var out domain.PlaceDetails
	err := c.get(ctx, "details", c.base+"/details/json?"+q.Encode(), &out)
	return out, err
}

// PhotoURL builds the photo-fetch URL for a photo reference.
func (c *Client) PhotoURL(ref string) string {
	q := url.Values{}
	q.Set("maxwidth", photoMaxWidth)
	q.Set("photoreference", ref)
	q.Set("key", c.key)
	return c.base + "/photo?" + q.Encode()
}

// get performs a single GET (no retries) and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "placelog/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("places", endpoint, 0, time.Since(start))
		// the URL carries the key; log the endpoint only
		log.Warn().Str("service", "places").Str("endpoint", endpoint).Msg("request failed")
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("places %s: request failed", endpoint)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("places", endpoint, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("places %s: decode: %w", endpoint, err)
		}
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("places %s: bad status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

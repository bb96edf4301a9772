package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"placelog/internal/domain"
)

const DefaultPasteHost = "pastebin.com"

// Markers shown in place of prose that could not be generated.
const (
	SummaryUnavailable     = "(summary unavailable)"
	SuggestionsUnavailable = "(suggestions unavailable)"
)

type Publisher struct {
	paste domain.PasteClient
	host  string
}

// NewPublisher validates returned links against host; an empty host accepts any http(s) URL.
func NewPublisher(p domain.PasteClient, host string) *Publisher {
	return &Publisher{paste: p, host: strings.ToLower(host)}
}

// Publish posts the session's document and returns the validated paste URL.
// A body that is not a link comes back as *domain.PasteResponseError.
func (p *Publisher) Publish(ctx context.Context, s domain.Session) (string, error) {
	if s.Place == nil {
		return "", domain.ErrNotAnalyzed
	}
	body, err := p.paste.Publish(ctx, s.Place.Name, Document(s))
	if err != nil {
		return "", fmt.Errorf("publish paste: %w", err)
	}
	return ValidatePasteURL(body, p.host)
}

// ValidatePasteURL accepts only an absolute http(s) URL with a path, on host
// (or a subdomain of it) when host is set.
func ValidatePasteURL(body, host string) (string, error) {
	raw := strings.TrimSpace(body)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" ||
		strings.Trim(u.Path, "/") == "" || strings.ContainsAny(raw, " \n\t") {
		return "", &domain.PasteResponseError{Body: raw}
	}
	if host != "" {
		h := strings.ToLower(u.Hostname())
		if h != host && !strings.HasSuffix(h, "."+host) {
			return "", &domain.PasteResponseError{Body: raw}
		}
	}
	return raw, nil
}

// Document renders the shareable plain-text snapshot of a session.
func Document(s domain.Session) string {
	var b strings.Builder
	if s.Place != nil {
		b.WriteString(s.Place.Name)
		b.WriteString("\n")
		b.WriteString(s.Place.FormattedAddress)
		b.WriteString("\n")
	}
	b.WriteString("\n[Summary]\n")
	switch {
	case s.Summary.Usable():
		b.WriteString(s.Summary.Text)
	case s.Summary != nil:
		b.WriteString(SummaryUnavailable)
	}
	b.WriteString("\n\n[Reviews]\n")
	if s.Reviews != nil {
		for _, r := range s.Reviews.Items {
			fmt.Fprintf(&b, "%s ⭐ %s · %s\n%s\n\n", r.AuthorOrDefault(), r.RatingText(), r.Time, r.Text)
		}
	}
	return b.String()
}

package domain

import (
	"context"
	"time"
)

// PlacesClient is the vendor-level places API.
type PlacesClient interface {
	FindPlace(ctx context.Context, input string) ([]Candidate, error)
	Details(ctx context.Context, placeID string) (PlaceDetails, error)
	PhotoURL(ref string) string
}

// Candidate is one find-place hit.
type Candidate struct {
	PlaceID          string `json:"place_id"`
	FormattedAddress string `json:"formatted_address"`
}

// PlaceDetails is the details envelope; Status is the vendor status string.
type PlaceDetails struct {
	Status string       `json:"status"`
	Result DetailResult `json:"result"`
}

type DetailResult struct {
	Name             string      `json:"name"`
	FormattedAddress string      `json:"formatted_address"`
	Rating           *float64    `json:"rating,omitempty"`
	Geometry         Geometry    `json:"geometry"`
	Photos           []Photo     `json:"photos,omitempty"`
	Reviews          []RawReview `json:"reviews,omitempty"`
}

type Photo struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

// TextTranslator translates a single text, detecting the source language.
type TextTranslator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// TextGenerator sends one user prompt to a chat model.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// PasteClient posts a private paste and returns the raw response body.
type PasteClient interface {
	Publish(ctx context.Context, title, text string) (string, error)
}

type SessionStore interface {
	Get(ctx context.Context, id string) (Session, error)
	Put(ctx context.Context, s Session, ttl time.Duration) error
	// Update applies fn to the stored session and writes the result atomically.
	// fn may run more than once and must only touch the session it is given.
	// When fn fails nothing is written and the session as read is returned with the error.
	Update(ctx context.Context, id string, ttl time.Duration, fn func(*Session) error) (Session, error)
	Del(ctx context.Context, id string) error
}

type HistoryRepository interface {
	RecordAnalysis(ctx context.Context, e HistoryEntry) (int64, error)
	RecordShare(ctx context.Context, sessionID, placeID, url string) error
	ListRecent(ctx context.Context, limit int) ([]HistoryEntry, error)
}

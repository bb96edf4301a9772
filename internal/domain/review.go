package domain

import "strconv"

// RawReview is a review as returned by the places API.
type RawReview struct {
	AuthorName              string   `json:"author_name"`
	Rating                  *float64 `json:"rating,omitempty"`
	RelativeTimeDescription string   `json:"relative_time_description"`
	Text                    string   `json:"text"`
}

type Placeholder string

const (
	PlaceholderNone              Placeholder = ""
	PlaceholderNoReviews         Placeholder = "no_reviews"
	PlaceholderTranslationFailed Placeholder = "translation_failed"
)

// TranslatedReview keeps the source review's metadata next to the translated text.
type TranslatedReview struct {
	Author      string      `json:"author,omitempty"`
	Rating      *float64    `json:"rating,omitempty"`
	Time        string      `json:"time,omitempty"`
	Text        string      `json:"text"`
	Placeholder Placeholder `json:"placeholder,omitempty"`
}

const (
	AnonymousAuthor = "Anonymous"
	NoRating        = "N/A"

	NoReviewsText         = "No reviews could be translated."
	TranslationFailedText = "Translation failed."
)

func (r TranslatedReview) AuthorOrDefault() string {
	if r.Author == "" {
		return AnonymousAuthor
	}
	return r.Author
}

func (r TranslatedReview) RatingText() string {
	if r.Rating == nil {
		return NoRating
	}
	return strconv.FormatFloat(*r.Rating, 'f', -1, 64)
}

// ReviewTranslation is the outcome of translating a place's reviews.
// Degraded results still carry placeholder items so callers can render them.
type ReviewTranslation struct {
	Items    []TranslatedReview `json:"items"`
	Degraded bool               `json:"degraded,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// TextResult is generated prose that may have failed softly.
type TextResult struct {
	Text     string `json:"text,omitempty"`
	Degraded bool   `json:"degraded,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Usable reports whether the text can be fed into a follow-up prompt.
func (t *TextResult) Usable() bool {
	return t != nil && !t.Degraded && t.Text != ""
}

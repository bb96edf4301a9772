package app

import (
	"strings"

	"placelog/internal/domain"
)

// MaxPhotos is how many photo URLs a place record carries.
const MaxPhotos = 3

func mapPlace(placeID string, r domain.DetailResult, photoURL func(ref string) string) domain.PlaceRecord {
	rec := domain.PlaceRecord{
		PlaceID:          placeID,
		Name:             strings.TrimSpace(r.Name),
		FormattedAddress: strings.TrimSpace(r.FormattedAddress),
		Rating:           r.Rating,
		Geometry:         r.Geometry,
		Reviews:          r.Reviews,
	}
	rec.PhotoURLs = photoURLs(r.Photos, photoURL)
	return rec
}

// photoURLs keeps API order and silently drops photos past MaxPhotos.
func photoURLs(photos []domain.Photo, photoURL func(ref string) string) []string {
	if len(photos) == 0 {
		return nil
	}
	n := min(len(photos), MaxPhotos)
	out := make([]string, 0, n)
	for _, p := range photos[:n] {
		out = append(out, photoURL(p.PhotoReference))
	}
	return out
}

func translatedFrom(r domain.RawReview, text string) domain.TranslatedReview {
	return domain.TranslatedReview{
		Author: strings.TrimSpace(r.AuthorName),
		Rating: r.Rating,
		Time:   r.RelativeTimeDescription,
		Text:   text,
	}
}

func placeholderReviews(kind domain.Placeholder, text string, n int) []domain.TranslatedReview {
	out := make([]domain.TranslatedReview, n)
	for i := range out {
		out[i] = domain.TranslatedReview{Text: text, Placeholder: kind}
	}
	return out
}

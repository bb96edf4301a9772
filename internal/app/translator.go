package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"placelog/internal/adapters/observability"
	"placelog/internal/domain"
)

// MaxReviews is how many reviews are considered for translation.
const MaxReviews = 5

type ReviewTranslator struct {
	tr domain.TextTranslator
}

func NewReviewTranslator(tr domain.TextTranslator) *ReviewTranslator {
	return &ReviewTranslator{tr: tr}
}

// Translate never fails: a backend error yields MaxReviews "translation failed"
// placeholders regardless of input length, and an input with nothing to
// translate yields a single "no reviews" placeholder.
func (t *ReviewTranslator) Translate(ctx context.Context, reviews []domain.RawReview) domain.ReviewTranslation {
	if len(reviews) > MaxReviews {
		reviews = reviews[:MaxReviews]
	}

	out := make([]domain.TranslatedReview, 0, len(reviews))
	for _, r := range reviews {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		text, err := t.tr.Translate(ctx, r.Text)
		if err != nil {
			log.Warn().Err(err).Msg("review translation degraded")
			observability.ObserveDegraded("translator")
			return domain.ReviewTranslation{
				Items:    placeholderReviews(domain.PlaceholderTranslationFailed, domain.TranslationFailedText, MaxReviews),
				Degraded: true,
				Error:    err.Error(),
			}
		}
		out = append(out, translatedFrom(r, text))
	}

	if len(out) == 0 {
		return domain.ReviewTranslation{
			Items: placeholderReviews(domain.PlaceholderNoReviews, domain.NoReviewsText, 1),
		}
	}
	return domain.ReviewTranslation{Items: out}
}

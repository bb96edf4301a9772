package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"placelog/internal/adapters/observability"
	"placelog/internal/domain"
)

const (
	SummaryMaxTokens     = 100
	SuggestionsMaxTokens = 200
)

const summaryPrompt = `Place name: %s
Address: %s
Describe what this place feels like: its mood, its atmosphere and what surrounds it. Write an evocative, richly descriptive account in %s.
`

const suggestPrompt = `Recommend 3 well-known places, anywhere in the world, that are similar to the place below.

Place name: %s
Address: %s
Description: %s

Recommend exactly 3 places and put only the place names in bold. Answer in %s.
`

type NarrativeGenerator struct {
	gen      domain.TextGenerator
	langName string
}

// NewNarrativeGenerator writes prose in the given target language.
func NewNarrativeGenerator(gen domain.TextGenerator, target language.Tag) *NarrativeGenerator {
	name := display.English.Tags().Name(target)
	if name == "" {
		name = target.String()
	}
	return &NarrativeGenerator{gen: gen, langName: name}
}

// Summarize describes the place. Failures come back as a degraded result.
func (n *NarrativeGenerator) Summarize(ctx context.Context, p domain.PlaceRecord) domain.TextResult {
	prompt := fmt.Sprintf(summaryPrompt, p.Name, p.FormattedAddress, n.langName)
	return n.run(ctx, "summary", prompt, SummaryMaxTokens)
}

// SuggestSimilar proposes three comparable places. An empty prior summary is fine.
func (n *NarrativeGenerator) SuggestSimilar(ctx context.Context, p domain.PlaceRecord, priorSummary string) domain.TextResult {
	prompt := fmt.Sprintf(suggestPrompt, p.Name, p.FormattedAddress, priorSummary, n.langName)
	return n.run(ctx, "suggestions", prompt, SuggestionsMaxTokens)
}

func (n *NarrativeGenerator) run(ctx context.Context, kind, prompt string, maxTokens int) domain.TextResult {
	text, err := n.gen.Generate(ctx, prompt, maxTokens)
	if err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("narrative generation degraded")
		observability.ObserveDegraded(kind)
		return domain.TextResult{Degraded: true, Error: err.Error()}
	}
	return domain.TextResult{Text: text}
}

package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"placelog/internal/app"
	"placelog/internal/domain"
)

// ---- resolver ----

func TestResolve_ZeroCandidates(t *testing.T) {
	r := app.NewPlaceResolver(&fakePlaces{})
	_, err := r.Resolve(context.Background(), "Atlantis")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_DetailsStatusNotOK(t *testing.T) {
	for _, status := range []string{"NOT_FOUND", "INVALID_REQUEST", "REQUEST_DENIED", ""} {
		p := &fakePlaces{
			cands:   []domain.Candidate{{PlaceID: "x"}},
			details: map[string]domain.PlaceDetails{"x": {Status: status}},
		}
		_, err := app.NewPlaceResolver(p).Resolve(context.Background(), "somewhere")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("status %q: expected ErrNotFound, got %v", status, err)
		}
	}
}

func TestResolve_TransportFailuresAreNotFound(t *testing.T) {
	p := &fakePlaces{findErr: errors.New("connection reset")}
	if _, err := app.NewPlaceResolver(p).Resolve(context.Background(), "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("find failure: expected ErrNotFound, got %v", err)
	}

	p = &fakePlaces{cands: []domain.Candidate{{PlaceID: "x"}}, detErr: errors.New("bad json")}
	if _, err := app.NewPlaceResolver(p).Resolve(context.Background(), "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("details failure: expected ErrNotFound, got %v", err)
	}
}

func TestResolve_EiffelTowerKeepsThreePhotosInOrder(t *testing.T) {
	p := placesWith("eiffel", "Eiffel Tower", domain.DetailResult{
		FormattedAddress: "Champ de Mars, 5 Av. Anatole France, Paris",
		Rating:           pfloat(4.7),
		Geometry:         domain.Geometry{Location: domain.Location{Lat: 48.8584, Lng: 2.2945}},
		Photos:           photos(5),
	})

	rec, err := app.NewPlaceResolver(p).Resolve(context.Background(), "Eiffel Tower")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := []string{"https://photos.test/ref-1", "https://photos.test/ref-2", "https://photos.test/ref-3"}
	if len(rec.PhotoURLs) != len(want) {
		t.Fatalf("expected %d photo urls, got %v", len(want), rec.PhotoURLs)
	}
	for i := range want {
		if rec.PhotoURLs[i] != want[i] {
			t.Fatalf("photo %d: want %s, got %s", i, want[i], rec.PhotoURLs[i])
		}
	}
	if rec.PlaceID != "eiffel" || rec.Name != "Eiffel Tower" || *rec.Rating != 4.7 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestResolve_NoPhotos(t *testing.T) {
	p := placesWith("a", "Quiet Alley", domain.DetailResult{})
	rec, err := app.NewPlaceResolver(p).Resolve(context.Background(), "Quiet Alley")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rec.PhotoURLs != nil {
		t.Fatalf("expected no photo urls, got %v", rec.PhotoURLs)
	}
}

// ---- translator ----

func TestTranslate_SkipsBlankText(t *testing.T) {
	tr := &fakeTranslator{}
	out := app.NewReviewTranslator(tr).Translate(context.Background(), []domain.RawReview{
		{Text: ""},
		{AuthorName: "Ana", Text: "Great!"},
	})
	if out.Degraded || len(out.Items) != 1 {
		t.Fatalf("expected exactly 1 review, got %+v", out)
	}
	if out.Items[0].Author != "Ana" || out.Items[0].Text != "KO:Great!" || out.Items[0].Placeholder != domain.PlaceholderNone {
		t.Fatalf("unexpected review: %+v", out.Items[0])
	}
}

func TestTranslate_FirstFiveOnlyInOrder(t *testing.T) {
	in := []domain.RawReview{
		review("a", "one"), review("b", "   "), review("c", "three"),
		review("d", "four"), review("e", "five"), review("f", "six"), review("g", "seven"),
	}
	tr := &fakeTranslator{}
	out := app.NewReviewTranslator(tr).Translate(context.Background(), in)

	if len(tr.calls) != 4 {
		t.Fatalf("expected 4 backend calls, got %v", tr.calls)
	}
	got := []string{}
	for _, r := range out.Items {
		got = append(got, r.Author)
	}
	if strings.Join(got, ",") != "a,c,d,e" {
		t.Fatalf("unexpected authors/order: %v", got)
	}
	if out.Items[1].Time != "a week ago" || *out.Items[1].Rating != 5 {
		t.Fatalf("metadata not preserved: %+v", out.Items[1])
	}
}

func TestTranslate_NothingTranslatable(t *testing.T) {
	out := app.NewReviewTranslator(&fakeTranslator{}).Translate(context.Background(), []domain.RawReview{{Text: " \n"}})
	if len(out.Items) != 1 || out.Items[0].Placeholder != domain.PlaceholderNoReviews || out.Degraded {
		t.Fatalf("expected single no-reviews placeholder, got %+v", out)
	}
}

func TestTranslate_BackendFailureYieldsFivePlaceholders(t *testing.T) {
	for _, n := range []int{1, 2, 5, 7} {
		in := make([]domain.RawReview, n)
		for i := range in {
			in[i] = review("x", "text")
		}
		out := app.NewReviewTranslator(&fakeTranslator{failOn: "*"}).Translate(context.Background(), in)
		if !out.Degraded || out.Error == "" {
			t.Fatalf("n=%d: expected degraded result, got %+v", n, out)
		}
		if len(out.Items) != app.MaxReviews {
			t.Fatalf("n=%d: expected %d placeholders, got %d", n, app.MaxReviews, len(out.Items))
		}
		for _, r := range out.Items {
			if r.Placeholder != domain.PlaceholderTranslationFailed {
				t.Fatalf("n=%d: unexpected item %+v", n, r)
			}
		}
	}
}

func TestTranslate_FailureMidwayDiscardsPartialResults(t *testing.T) {
	in := []domain.RawReview{review("a", "ok"), review("b", "boom")}
	out := app.NewReviewTranslator(&fakeTranslator{failOn: "boom"}).Translate(context.Background(), in)
	if !out.Degraded || len(out.Items) != app.MaxReviews || out.Items[0].Placeholder != domain.PlaceholderTranslationFailed {
		t.Fatalf("expected all placeholders, got %+v", out)
	}
}

// ---- narrative ----

func TestNarrative_PromptsAndBudgets(t *testing.T) {
	gen := &fakeGenerator{}
	n := app.NewNarrativeGenerator(gen, language.Korean)
	place := domain.PlaceRecord{Name: "Eiffel Tower", FormattedAddress: "Paris"}

	sum := n.Summarize(context.Background(), place)
	if sum.Degraded || sum.Text == "" {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	sug := n.SuggestSimilar(context.Background(), place, "an iron lattice tower")
	if sug.Degraded || sug.Text == "" {
		t.Fatalf("unexpected suggestions: %+v", sug)
	}

	if gen.tokens[0] != app.SummaryMaxTokens || gen.tokens[1] != app.SuggestionsMaxTokens {
		t.Fatalf("unexpected token budgets: %v", gen.tokens)
	}
	for _, want := range []string{"Eiffel Tower", "Paris", "Korean"} {
		if !strings.Contains(gen.prompts[0], want) {
			t.Fatalf("summary prompt missing %q:\n%s", want, gen.prompts[0])
		}
	}
	for _, want := range []string{"Eiffel Tower", "Paris", "an iron lattice tower", "3"} {
		if !strings.Contains(gen.prompts[1], want) {
			t.Fatalf("suggest prompt missing %q:\n%s", want, gen.prompts[1])
		}
	}
}

func TestNarrative_SuggestWithoutSummary(t *testing.T) {
	gen := &fakeGenerator{}
	n := app.NewNarrativeGenerator(gen, language.English)
	res := n.SuggestSimilar(context.Background(), domain.PlaceRecord{Name: "Bukchon", FormattedAddress: "Seoul"}, "")
	if res.Degraded {
		t.Fatalf("empty prior summary must not fail: %+v", res)
	}
	if !strings.Contains(gen.prompts[0], "Description: \n") {
		t.Fatalf("expected empty description line:\n%s", gen.prompts[0])
	}
}

func TestNarrative_FailureIsDegraded(t *testing.T) {
	n := app.NewNarrativeGenerator(&fakeGenerator{err: errors.New("rate limited")}, language.Korean)
	res := n.Summarize(context.Background(), domain.PlaceRecord{Name: "x"})
	if !res.Degraded || res.Text != "" || !strings.Contains(res.Error, "rate limited") {
		t.Fatalf("expected degraded result, got %+v", res)
	}
}

// ---- publisher ----

func TestValidatePasteURL(t *testing.T) {
	cases := []struct {
		body string
		ok   bool
	}{
		{"https://pastebin.com/AbCd1234", true},
		{"  https://pastebin.com/AbCd1234\n", true},
		{"Bad API request, invalid api_dev_key", false},
		{"Post limit, maximum pastes per 24h reached", false},
		{"https://pastebin.com/", false},
		{"ftp://pastebin.com/x", false},
		{"https://evil.test/AbCd1234", false},
		{"", false},
	}
	for _, c := range cases {
		got, err := app.ValidatePasteURL(c.body, app.DefaultPasteHost)
		if c.ok && (err != nil || got != strings.TrimSpace(c.body)) {
			t.Fatalf("%q: expected ok, got %q %v", c.body, got, err)
		}
		if !c.ok && !errors.Is(err, domain.ErrInvalidPasteResponse) {
			t.Fatalf("%q: expected ErrInvalidPasteResponse, got %v", c.body, err)
		}
	}
}

func TestPublisher_RejectsAPIErrorBody(t *testing.T) {
	const apiErr = "Bad API request, invalid api_dev_key"
	paste := &fakePaste{body: apiErr}
	pub := app.NewPublisher(paste, app.DefaultPasteHost)

	_, err := pub.Publish(context.Background(), domain.Session{Place: &domain.PlaceRecord{Name: "Eiffel Tower"}})
	var perr *domain.PasteResponseError
	if !errors.As(err, &perr) || perr.Body != apiErr {
		t.Fatalf("expected PasteResponseError carrying the body, got %v", err)
	}
	if paste.title != "Eiffel Tower" {
		t.Fatalf("expected paste title, got %q", paste.title)
	}
}

func TestDocument_Format(t *testing.T) {
	s := domain.Session{
		Place:   &domain.PlaceRecord{Name: "Eiffel Tower", FormattedAddress: "Paris"},
		Summary: &domain.TextResult{Text: "Iron and sky."},
		Reviews: &domain.ReviewTranslation{Items: []domain.TranslatedReview{
			{Author: "Ana", Rating: pfloat(5), Time: "a week ago", Text: "좋아요"},
			{Text: "번역"},
		}},
	}
	want := "Eiffel Tower\nParis\n\n[Summary]\nIron and sky.\n\n[Reviews]\n" +
		"Ana ⭐ 5 · a week ago\n좋아요\n\n" +
		"Anonymous ⭐ N/A · \n번역\n\n"
	if got := app.Document(s); got != want {
		t.Fatalf("unexpected document:\n%q\nwant\n%q", got, want)
	}
}

func TestDocument_DegradedSummary(t *testing.T) {
	s := domain.Session{
		Place:   &domain.PlaceRecord{Name: "x", FormattedAddress: "y"},
		Summary: &domain.TextResult{Degraded: true, Error: "boom"},
	}
	if got := app.Document(s); !strings.Contains(got, "[Summary]\n(summary unavailable)\n") {
		t.Fatalf("expected unavailable marker:\n%s", got)
	}
}

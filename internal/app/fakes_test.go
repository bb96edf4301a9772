package app_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"placelog/internal/domain"
)

// ---- fakes ----

type fakePlaces struct {
	cands   []domain.Candidate
	findErr error
	details map[string]domain.PlaceDetails
	detErr  error

	findCalls int
}

func (f *fakePlaces) FindPlace(ctx context.Context, input string) ([]domain.Candidate, error) {
	f.findCalls++
	return f.cands, f.findErr
}

func (f *fakePlaces) Details(ctx context.Context, placeID string) (domain.PlaceDetails, error) {
	if f.detErr != nil {
		return domain.PlaceDetails{}, f.detErr
	}
	return f.details[placeID], nil
}

func (f *fakePlaces) PhotoURL(ref string) string { return "https://photos.test/" + ref }

type fakeTranslator struct {
	failOn string // fail when the input equals this text; "*" fails everything
	calls  []string
}

func (f *fakeTranslator) Translate(ctx context.Context, text string) (string, error) {
	f.calls = append(f.calls, text)
	if f.failOn == "*" || (f.failOn != "" && f.failOn == text) {
		return "", errors.New("quota exceeded")
	}
	return "KO:" + text, nil
}

type fakeGenerator struct {
	mu      sync.Mutex
	err     error
	prompts []string
	tokens  []int

	// prompts containing holdOn signal entered, then wait for release
	holdOn  string
	entered chan struct{}
	release chan struct{}
	ctxErrs []error
}

// hold makes the generator block on prompts containing substr until the
// returned func is called.
func (f *fakeGenerator) hold(substr string) (entered <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holdOn = substr
	f.entered = make(chan struct{}, 8)
	f.release = make(chan struct{})
	var once sync.Once
	rel := f.release
	return f.entered, func() { once.Do(func() { close(rel) }) }
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.tokens = append(f.tokens, maxTokens)
	n := len(f.prompts)
	held := f.holdOn != "" && strings.Contains(prompt, f.holdOn)
	entered, release := f.entered, f.release
	f.mu.Unlock()

	if held {
		entered <- struct{}{}
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("generated #%d", n), nil
}

// count reports how many prompts contained substr.
func (f *fakeGenerator) count(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.prompts {
		if strings.Contains(p, substr) {
			n++
		}
	}
	return n
}

type fakePaste struct {
	body  string
	err   error
	title string
	text  string
}

func (f *fakePaste) Publish(ctx context.Context, title, text string) (string, error) {
	f.title, f.text = title, text
	return f.body, f.err
}

type fakeHistory struct {
	analyses []domain.HistoryEntry
	shares   []string
}

func (f *fakeHistory) RecordAnalysis(ctx context.Context, e domain.HistoryEntry) (int64, error) {
	f.analyses = append(f.analyses, e)
	return int64(len(f.analyses)), nil
}

func (f *fakeHistory) RecordShare(ctx context.Context, sessionID, placeID, url string) error {
	f.shares = append(f.shares, url)
	return nil
}

func (f *fakeHistory) ListRecent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	return f.analyses, nil
}

// ---- fixtures ----

func pfloat(f float64) *float64 { return &f }

func photos(n int) []domain.Photo {
	out := make([]domain.Photo, n)
	for i := range out {
		out[i] = domain.Photo{PhotoReference: fmt.Sprintf("ref-%d", i+1)}
	}
	return out
}

func review(author, text string) domain.RawReview {
	return domain.RawReview{AuthorName: author, Rating: pfloat(5), RelativeTimeDescription: "a week ago", Text: text}
}

// placesWith returns a places fake that resolves any query to a single place.
func placesWith(id, name string, res domain.DetailResult) *fakePlaces {
	res.Name = name
	return &fakePlaces{
		cands:   []domain.Candidate{{PlaceID: id}},
		details: map[string]domain.PlaceDetails{id: {Status: "OK", Result: res}},
	}
}

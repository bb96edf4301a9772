package domain

import "time"

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseAnalyzing Phase = "analyzing"
	PhaseAnalyzed  Phase = "analyzed"
)

// FewReviewsThreshold marks places whose review sample is too small to judge.
const FewReviewsThreshold = 3

// Session is the per-user state carried between actions.
type Session struct {
	ID          string             `json:"id"`
	Phase       Phase              `json:"phase"`
	Query       string             `json:"query,omitempty"`
	Place       *PlaceRecord       `json:"place,omitempty"`
	Summary     *TextResult        `json:"summary,omitempty"`
	Reviews     *ReviewTranslation `json:"reviews,omitempty"`
	FewReviews  bool               `json:"few_reviews,omitempty"`
	Suggestions *TextResult        `json:"suggestions,omitempty"`
	Share       *ShareResult       `json:"share,omitempty"`
	// Revision changes whenever the analyzed place is replaced or dropped.
	Revision    int64              `json:"revision"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ShareResult holds either a validated paste URL or the reason it was rejected.
type ShareResult struct {
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// ClearAnalysis drops everything derived from the previously analyzed place.
func (s *Session) ClearAnalysis() {
	s.Query = ""
	s.Place = nil
	s.Summary = nil
	s.Reviews = nil
	s.FewReviews = false
	s.Suggestions = nil
	s.Share = nil
}

// HistoryEntry is one row of the optional analysis log.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Query     string    `json:"query"`
	PlaceID   string    `json:"place_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Rating    *float64  `json:"rating,omitempty"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Summary   string    `json:"summary,omitempty"`
	ShareURL  string    `json:"share_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

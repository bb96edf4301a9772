// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"placelog/internal/app"
	"placelog/internal/domain"
)

const (
	maxUploadBytes = 10 << 20
	defaultHistory = 20
)

type Handlers struct {
	S        *app.SessionService
	validate *validator.Validate
}

func NewHandlers(s *app.SessionService) *Handlers {
	return &Handlers{S: s, validate: validator.New()}
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// AnalyzeRequest is the JSON body of an analyze action. Multipart forms carry
// the same field plus an optional "image" file.
type AnalyzeRequest struct {
	Place string `json:"place" validate:"max=200"`
}

type historyQuery struct {
	Limit int `validate:"min=1,max=200"`
}

// sessionView adds presentation fields to the stored session.
type sessionView struct {
	domain.Session
	MapsURL    string `json:"maps_url,omitempty"`
	AddressURL string `json:"address_url,omitempty"`
	Notice     string `json:"notice,omitempty"`
}

const fewReviewsNotice = "Fewer than 3 reviews are available; treat the impression with care."

func newSessionView(s domain.Session) sessionView {
	v := sessionView{Session: s}
	if s.Place != nil {
		v.MapsURL = s.Place.MapsURL()
		v.AddressURL = s.Place.AddressURL()
	}
	if s.FewReviews {
		v.Notice = fewReviewsNotice
	}
	// copies so the stored session is never mutated
	if s.Summary != nil && s.Summary.Degraded {
		sum := *s.Summary
		sum.Text = app.SummaryUnavailable
		v.Summary = &sum
	}
	if s.Suggestions != nil && s.Suggestions.Degraded {
		sug := *s.Suggestions
		sug.Text = app.SuggestionsUnavailable
		v.Suggestions = &sug
	}
	return v
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)
		r.Get("/{id}", h.getSession)
		r.Delete("/{id}", h.deleteSession)
		r.Post("/{id}/analyze", h.analyze)
		r.Post("/{id}/recommend", h.recommend)
		r.Post("/{id}/save", h.save)
		r.Post("/{id}/reset", h.reset)
	})
	s.mux.Get("/v1/history", h.history)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeProblem(w, http.StatusNotFound, "Session Not Found", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", domain.ErrNotFound.Error())
	case errors.Is(err, domain.ErrInputMissing):
		writeProblem(w, http.StatusBadRequest, "Input Missing", err.Error())
	case errors.Is(err, domain.ErrPhotoAnalysisUnavailable):
		writeProblem(w, http.StatusUnprocessableEntity, "Photo Analysis Unavailable", err.Error())
	case errors.Is(err, domain.ErrNotAnalyzed):
		writeProblem(w, http.StatusConflict, "Not Analyzed", "analyze a place first")
	case errors.Is(err, domain.ErrSessionChanged):
		writeProblem(w, http.StatusConflict, "Session Changed", err.Error())
	case errors.Is(err, domain.ErrHistoryDisabled):
		writeProblem(w, http.StatusNotImplemented, "History Disabled", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) createSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.S.Create(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, newSessionView(sess))
}

func (h *Handlers) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.S.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	etag, body := calcETagAndBody(newSessionView(sess))
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getSession body")
	}
}

func (h *Handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.S.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) analyze(w http.ResponseWriter, r *http.Request) {
	in, err := h.decodeAnalyze(w, r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	sess, err := h.S.Analyze(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(sess))
}

// decodeAnalyze accepts a JSON body or a multipart form with an optional image.
// The image content is not inspected; only its presence matters.
func (h *Handlers) decodeAnalyze(w http.ResponseWriter, r *http.Request) (app.AnalyzeInput, error) {
	var req AnalyzeRequest
	hasImage := false

	ct := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "multipart/form-data"):
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return app.AnalyzeInput{}, err
		}
		req.Place = r.FormValue("place")
		if f, _, err := r.FormFile("image"); err == nil {
			hasImage = true
			_ = f.Close()
		}
	case strings.HasPrefix(ct, "application/x-www-form-urlencoded"):
		req.Place = r.PostFormValue("place")
	default:
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
			return app.AnalyzeInput{}, errors.New("body must be JSON like {\"place\": \"...\"}")
		}
	}

	if err := h.validate.Struct(req); err != nil {
		return app.AnalyzeInput{}, errors.New("place must be at most 200 characters")
	}
	return app.AnalyzeInput{Place: req.Place, HasImage: hasImage}, nil
}

func (h *Handlers) recommend(w http.ResponseWriter, r *http.Request) {
	sess, err := h.S.Recommend(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(sess))
}

func (h *Handlers) save(w http.ResponseWriter, r *http.Request) {
	sess, err := h.S.Save(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(sess))
}

func (h *Handlers) reset(w http.ResponseWriter, r *http.Request) {
	sess, err := h.S.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(sess))
}

func (h *Handlers) history(w http.ResponseWriter, r *http.Request) {
	q := historyQuery{Limit: defaultHistory}
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		q.Limit = l
	}
	if err := h.validate.Struct(q); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
		return
	}

	out, err := h.S.History(r.Context(), q.Limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if out == nil {
		out = []domain.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"placelog/internal/domain"
)

// AnalyzeInput is what the user submitted with an analyze action.
type AnalyzeInput struct {
	Place    string
	HasImage bool
}

// SessionService drives the per-session state machine:
// idle -> analyzing -> analyzed, with recommend and save available once analyzed.
type SessionService struct {
	store     domain.SessionStore
	resolver  *PlaceResolver
	reviews   *ReviewTranslator
	narrative *NarrativeGenerator
	publisher *Publisher
	history   domain.HistoryRepository // optional
	ttl       time.Duration

	// coalesces duplicate in-flight actions on the same session
	sf            singleflight.Group
	actionTimeout time.Duration
	now           func() time.Time
	newID         func() string
}

// ActionTimeout bounds one coalesced action, independent of the callers waiting on it.
const ActionTimeout = 2 * time.Minute

func NewSessionService(
	store domain.SessionStore,
	resolver *PlaceResolver,
	reviews *ReviewTranslator,
	narrative *NarrativeGenerator,
	publisher *Publisher,
	history domain.HistoryRepository,
	ttl time.Duration,
) *SessionService {
	return &SessionService{
		store:         store,
		resolver:      resolver,
		reviews:       reviews,
		narrative:     narrative,
		publisher:     publisher,
		history:       history,
		ttl:           ttl,
		actionTimeout: ActionTimeout,
		now:           func() time.Time { return time.Now().UTC() },
		newID:         uuid.NewString,
	}
}

func (s *SessionService) Create(ctx context.Context) (domain.Session, error) {
	now := s.now()
	sess := domain.Session{ID: s.newID(), Phase: domain.PhaseIdle, CreatedAt: now, UpdatedAt: now}
	if err := s.store.Put(ctx, sess, s.ttl); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (domain.Session, error) {
	return s.store.Get(ctx, id)
}

func (s *SessionService) Delete(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	return s.store.Del(ctx, id)
}

// Reset drops the analyzed place and returns the session to idle.
func (s *SessionService) Reset(ctx context.Context, id string) (domain.Session, error) {
	return s.do(ctx, id, "reset", func(ctx context.Context) (domain.Session, error) {
		return s.store.Update(ctx, id, s.ttl, func(sess *domain.Session) error {
			sess.ClearAnalysis()
			sess.Phase = domain.PhaseIdle
			sess.Revision++
			sess.UpdatedAt = s.now()
			return nil
		})
	})
}

// Analyze resolves the place and recomputes the summary and translated reviews.
// Anything cached for a previously analyzed place is cleared first.
func (s *SessionService) Analyze(ctx context.Context, id string, in AnalyzeInput) (domain.Session, error) {
	place := strings.TrimSpace(in.Place)
	if place == "" {
		if in.HasImage {
			return domain.Session{}, domain.ErrPhotoAnalysisUnavailable
		}
		return domain.Session{}, domain.ErrInputMissing
	}
	return s.do(ctx, id, "analyze:"+place, func(ctx context.Context) (domain.Session, error) {
		return s.analyze(ctx, id, place)
	})
}

func (s *SessionService) analyze(ctx context.Context, id, place string) (domain.Session, error) {
	sess, err := s.store.Update(ctx, id, s.ttl, func(sess *domain.Session) error {
		sess.ClearAnalysis()
		sess.Query = place
		sess.Phase = domain.PhaseAnalyzing
		sess.Revision++
		sess.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}
	rev := sess.Revision

	rec, err := s.resolver.Resolve(ctx, place)
	if err != nil {
		cur, cerr := s.commit(ctx, id, rev, func(sess *domain.Session) { sess.Phase = domain.PhaseIdle })
		if cerr != nil && !errors.Is(cerr, domain.ErrSessionChanged) {
			log.Error().Err(cerr).Str("session", id).Msg("persist idle session failed")
			cur = sess
			cur.Phase = domain.PhaseIdle
		}
		return cur, err
	}

	summary := s.narrative.Summarize(ctx, rec)
	var tr *domain.ReviewTranslation
	if len(rec.Reviews) > 0 {
		res := s.reviews.Translate(ctx, rec.Reviews)
		tr = &res
	}

	sess, err = s.commit(ctx, id, rev, func(sess *domain.Session) {
		sess.Place = &rec
		sess.Summary = &summary
		sess.Reviews = tr
		sess.FewReviews = tr != nil && len(rec.Reviews) < domain.FewReviewsThreshold
		sess.Phase = domain.PhaseAnalyzed
	})
	if err != nil {
		return sess, err
	}
	s.recordAnalysis(ctx, sess)
	return sess, nil
}

// Recommend caches three similar places for the analyzed place.
// A failed generation is cached as a degraded result, not returned as an error.
func (s *SessionService) Recommend(ctx context.Context, id string) (domain.Session, error) {
	return s.do(ctx, id, "recommend", func(ctx context.Context) (domain.Session, error) {
		sess, err := s.analyzed(ctx, id)
		if err != nil {
			return domain.Session{}, err
		}
		prior := ""
		if sess.Summary.Usable() {
			prior = sess.Summary.Text
		}
		res := s.narrative.SuggestSimilar(ctx, *sess.Place, prior)
		return s.commit(ctx, id, sess.Revision, func(sess *domain.Session) { sess.Suggestions = &res })
	})
}

// Save publishes the cached summary and reviews. The outcome, link or
// rejection reason, is recorded on the session; the session stays analyzed.
func (s *SessionService) Save(ctx context.Context, id string) (domain.Session, error) {
	return s.do(ctx, id, "save", func(ctx context.Context) (domain.Session, error) {
		sess, err := s.analyzed(ctx, id)
		if err != nil {
			return domain.Session{}, err
		}
		share := &domain.ShareResult{}
		link, err := s.publisher.Publish(ctx, sess)
		if err != nil {
			log.Warn().Err(err).Str("session", id).Msg("publish rejected")
			share.Error = err.Error()
		} else {
			share.URL = link
		}
		sess, err = s.commit(ctx, id, sess.Revision, func(sess *domain.Session) { sess.Share = share })
		if err != nil {
			return sess, err
		}
		if share.URL != "" && s.history != nil {
			if err := s.history.RecordShare(ctx, sess.ID, sess.Place.PlaceID, share.URL); err != nil {
				log.Warn().Err(err).Str("session", id).Msg("record share failed")
			}
		}
		return sess, nil
	})
}

func (s *SessionService) History(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if s.history == nil {
		return nil, domain.ErrHistoryDisabled
	}
	return s.history.ListRecent(ctx, limit)
}

func (s *SessionService) analyzed(ctx context.Context, id string) (domain.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if sess.Phase != domain.PhaseAnalyzed || sess.Place == nil {
		return domain.Session{}, domain.ErrNotAnalyzed
	}
	return sess, nil
}

// commit writes fn's changes only while the session still holds revision rev.
// Once another analyze or reset has replaced the place, the stored session is
// returned untouched with ErrSessionChanged.
func (s *SessionService) commit(ctx context.Context, id string, rev int64, fn func(*domain.Session)) (domain.Session, error) {
	sess, err := s.store.Update(ctx, id, s.ttl, func(sess *domain.Session) error {
		if sess.Revision != rev {
			return domain.ErrSessionChanged
		}
		fn(sess)
		sess.UpdatedAt = s.now()
		return nil
	})
	if errors.Is(err, domain.ErrSessionChanged) {
		log.Debug().Str("session", id).Int64("revision", rev).Int64("current", sess.Revision).Msg("dropped stale result")
	}
	return sess, err
}

// do coalesces duplicate in-flight actions. The shared work runs detached from
// any single caller so one disconnect cannot fail the others; each caller still
// stops waiting when its own ctx ends.
func (s *SessionService) do(ctx context.Context, id, action string, fn func(context.Context) (domain.Session, error)) (domain.Session, error) {
	ch := s.sf.DoChan(id+"|"+action, func() (any, error) {
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.actionTimeout)
		defer cancel()
		return fn(wctx)
	})
	select {
	case <-ctx.Done():
		return domain.Session{}, ctx.Err()
	case r := <-ch:
		if r.Shared {
			log.Debug().Str("session", id).Str("action", action).Msg("coalesced duplicate action")
		}
		sess, _ := r.Val.(domain.Session)
		return sess, r.Err
	}
}

func (s *SessionService) recordAnalysis(ctx context.Context, sess domain.Session) {
	if s.history == nil || sess.Place == nil {
		return
	}
	e := domain.HistoryEntry{
		SessionID: sess.ID,
		Query:     sess.Query,
		PlaceID:   sess.Place.PlaceID,
		Name:      sess.Place.Name,
		Address:   sess.Place.FormattedAddress,
		Rating:    sess.Place.Rating,
		Lat:       sess.Place.Geometry.Location.Lat,
		Lng:       sess.Place.Geometry.Location.Lng,
	}
	if sess.Summary.Usable() {
		e.Summary = sess.Summary.Text
	}
	if _, err := s.history.RecordAnalysis(ctx, e); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Str("session", sess.ID).Msg("record analysis failed")
	}
}

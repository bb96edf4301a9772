package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"placelog/internal/domain"
)

const statusOK = "OK"

type PlaceResolver struct {
	places domain.PlacesClient
}

func NewPlaceResolver(p domain.PlacesClient) *PlaceResolver {
	return &PlaceResolver{places: p}
}

// Resolve looks a free-text name up in two steps (find candidate, fetch details).
// Every failure, including transport and decode errors, surfaces as domain.ErrNotFound.
func (r *PlaceResolver) Resolve(ctx context.Context, name string) (domain.PlaceRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.PlaceRecord{}, domain.ErrInputMissing
	}

	cands, err := r.places.FindPlace(ctx, name)
	if err != nil {
		log.Warn().Err(err).Str("query", name).Msg("find place failed")
		return domain.PlaceRecord{}, fmt.Errorf("%w: find %q: %v", domain.ErrNotFound, name, err)
	}
	if len(cands) == 0 || cands[0].PlaceID == "" {
		return domain.PlaceRecord{}, fmt.Errorf("%w: no candidates for %q", domain.ErrNotFound, name)
	}

	placeID := cands[0].PlaceID
	d, err := r.places.Details(ctx, placeID)
	if err != nil {
		log.Warn().Err(err).Str("place_id", placeID).Msg("place details failed")
		return domain.PlaceRecord{}, fmt.Errorf("%w: details %s: %v", domain.ErrNotFound, placeID, err)
	}
	if d.Status != statusOK {
		return domain.PlaceRecord{}, fmt.Errorf("%w: details status %s", domain.ErrNotFound, d.Status)
	}

	return mapPlace(placeID, d.Result, r.places.PhotoURL), nil
}

package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"placelog/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// Repo is the analysis history log.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) RecordAnalysis(ctx context.Context, e domain.HistoryEntry) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertAnalysisSQL,
		e.SessionID,
		e.Query,
		e.PlaceID,
		e.Name,
		e.Address,
		valF64(e.Rating),
		e.Lat,
		e.Lng,
		valStr(e.Summary),
	)
	if err != nil {
		return 0, fmt.Errorf("insert analysis: %w", err)
	}
	return res.LastInsertId()
}

func (r *Repo) RecordShare(ctx context.Context, sessionID, placeID, url string) error {
	if _, err := r.db.ExecContext(ctx, updateShareSQL, url, sessionID, placeID); err != nil {
		return fmt.Errorf("record share: %w", err)
	}
	return nil
}

func (r *Repo) ListRecent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, listRecentSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.HistoryEntry, 0, limit)
	for rows.Next() {
		var e domain.HistoryEntry
		var rating sql.NullFloat64
		var summary, shareURL sql.NullString
		if err := rows.Scan(
			&e.ID,
			&e.SessionID,
			&e.Query,
			&e.PlaceID,
			&e.Name,
			&e.Address,
			&rating,
			&e.Lat, &e.Lng,
			&summary,
			&shareURL,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		if rating.Valid {
			v := rating.Float64
			e.Rating = &v
		}
		e.Summary = summary.String
		e.ShareURL = shareURL.String
		out = append(out, e)
	}
	return out, rows.Err()
}

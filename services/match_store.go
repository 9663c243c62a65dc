package services

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"livescore-service/database"
	"livescore-service/pkg/common"
)

// MatchStore persists the latest known state of every observed match.
type MatchStore struct {
	db *sqlx.DB
}

func NewMatchStore(db *sqlx.DB) *MatchStore {
	return &MatchStore{db: db}
}

// Upsert inserts a match row or refreshes score, status and updated_at
// for an existing one. Applying the same snapshot twice only touches
// updated_at; concurrent writes for the same match_id resolve to the
// last statement applied.
func (s *MatchStore) Upsert(m *database.Match) error {
	query := `
		INSERT INTO matches (match_id, home_team, away_team, home_score, away_score, status, start_time, league, venue)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (match_id)
		DO UPDATE SET
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			status = EXCLUDED.status,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := s.db.Exec(query,
		m.MatchID,
		m.HomeTeam,
		m.AwayTeam,
		m.HomeScore,
		m.AwayScore,
		m.Status,
		m.StartTime,
		m.League,
		m.Venue,
	)
	if err != nil {
		return common.NewAppError("STORAGE_FAILED", fmt.Sprintf("failed to upsert match %d", m.MatchID), err)
	}

	return nil
}

// ListRecent returns the most recently started matches, newest first.
func (s *MatchStore) ListRecent(limit int) ([]database.Match, error) {
	query := `
		SELECT id, match_id, home_team, away_team, home_score, away_score,
		       status, start_time, league, venue, created_at, updated_at
		FROM matches
		ORDER BY start_time DESC
		LIMIT $1
	`

	matches := []database.Match{}
	if err := s.db.Select(&matches, query, limit); err != nil {
		return nil, common.NewAppError("STORAGE_FAILED", "failed to list matches", err)
	}

	return matches, nil
}

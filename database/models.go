package database

import (
	"time"
)

// Match is one row of the matches table, keyed by the upstream match ID.
type Match struct {
	ID        int64     `db:"id" json:"id"`
	MatchID   int64     `db:"match_id" json:"match_id"`
	HomeTeam  string    `db:"home_team" json:"home_team"`
	AwayTeam  string    `db:"away_team" json:"away_team"`
	HomeScore *int      `db:"home_score" json:"home_score"`
	AwayScore *int      `db:"away_score" json:"away_score"`
	Status    string    `db:"status" json:"status"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	League    string    `db:"league" json:"league"`
	Venue     string    `db:"venue" json:"venue"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

package services

import (
	"livescore-service/database"
	"livescore-service/logger"
	"livescore-service/sportsapi"
)

// EventLiveMatchesUpdate is emitted to every connected session after
// each sync cycle, carrying the full live-match list.
const EventLiveMatchesUpdate = "liveMatchesUpdate"

// Broadcaster delivers an event to every consumer of a fan-out channel.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

// MatchSource is the slice of the upstream API the sync cycle needs.
type MatchSource interface {
	GetLiveMatches() ([]sportsapi.Fixture, error)
}

// MatchUpserter is the slice of the store the sync cycle needs.
type MatchUpserter interface {
	Upsert(m *database.Match) error
}

// SyncService runs the fetch-upsert-broadcast cycle that keeps the
// matches table and connected clients in line with the upstream API.
// It holds no state of its own and is safe to invoke concurrently.
type SyncService struct {
	source       MatchSource
	store        MatchUpserter
	broadcasters []Broadcaster
}

func NewSyncService(source MatchSource, store MatchUpserter, broadcasters ...Broadcaster) *SyncService {
	return &SyncService{
		source:       source,
		store:        store,
		broadcasters: broadcasters,
	}
}

// SyncLiveMatches fetches the current live-match list, upserts each
// match, and broadcasts the fetched list. A failed upsert is logged and
// skipped; the broadcast always carries what the upstream returned, so
// connected clients are never blocked by a persistence hiccup.
func (s *SyncService) SyncLiveMatches() ([]sportsapi.Fixture, error) {
	fixtures, err := s.source.GetLiveMatches()
	if err != nil {
		return nil, err
	}

	for i := range fixtures {
		match := MatchFromFixture(&fixtures[i])
		if err := s.store.Upsert(match); err != nil {
			logger.Errorf("[Sync] Failed to upsert match %d: %v", match.MatchID, err)
		}
	}

	for _, b := range s.broadcasters {
		b.Broadcast(EventLiveMatchesUpdate, fixtures)
	}

	return fixtures, nil
}

// MatchFromFixture flattens an upstream fixture into a matches row.
func MatchFromFixture(f *sportsapi.Fixture) *database.Match {
	return &database.Match{
		MatchID:   f.Fixture.ID,
		HomeTeam:  f.Teams.Home.Name,
		AwayTeam:  f.Teams.Away.Name,
		HomeScore: f.Goals.Home,
		AwayScore: f.Goals.Away,
		Status:    f.Fixture.Status.Short,
		StartTime: f.Fixture.Date,
		League:    f.League.Name,
		Venue:     f.Fixture.Venue.Name,
	}
}

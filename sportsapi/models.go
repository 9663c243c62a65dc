package sportsapi

import (
	"time"
)

// Fixture is one match record as returned by the fixtures endpoints
type Fixture struct {
	Fixture FixtureInfo `json:"fixture"`
	League  League      `json:"league"`
	Teams   Teams       `json:"teams"`
	Goals   Goals       `json:"goals"`
	Score   Score       `json:"score"`
}

// FixtureInfo holds the scheduling and status details of a fixture
type FixtureInfo struct {
	ID        int64       `json:"id"`
	Referee   string      `json:"referee"`
	Timezone  string      `json:"timezone"`
	Date      time.Time   `json:"date"`
	Timestamp int64       `json:"timestamp"`
	Status    MatchStatus `json:"status"`
	Venue     Venue       `json:"venue"`
}

// MatchStatus is the upstream match phase (NS, 1H, HT, 2H, FT, ...)
type MatchStatus struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

// Venue is where a fixture is played
type Venue struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

// League identifies the competition a fixture belongs to
type League struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
	Season  int    `json:"season"`
	Round   string `json:"round"`
}

// Team is one side of a fixture
type Team struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Winner *bool  `json:"winner,omitempty"`
}

// Teams pairs the two sides of a fixture
type Teams struct {
	Home Team `json:"home"`
	Away Team `json:"away"`
}

// Goals holds a score pair; nil before kickoff
type Goals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Score breaks the result down by match phase
type Score struct {
	Halftime  Goals `json:"halftime"`
	Fulltime  Goals `json:"fulltime"`
	Extratime Goals `json:"extratime"`
	Penalty   Goals `json:"penalty"`
}

// TeamStatistics holds the per-team numbers for one fixture
type TeamStatistics struct {
	Team       Team        `json:"team"`
	Statistics []StatValue `json:"statistics"`
}

// StatValue is a single named statistic; values can be numbers or
// strings ("54%"), so they stay untyped
type StatValue struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// MatchEvent is a goal, card or substitution within a fixture
type MatchEvent struct {
	Time     EventTime   `json:"time"`
	Team     Team        `json:"team"`
	Player   EventPlayer `json:"player"`
	Assist   EventPlayer `json:"assist"`
	Type     string      `json:"type"`
	Detail   string      `json:"detail"`
	Comments *string     `json:"comments"`
}

// EventTime is the match minute an event occurred at
type EventTime struct {
	Elapsed int  `json:"elapsed"`
	Extra   *int `json:"extra"`
}

// EventPlayer identifies the player involved in an event
type EventPlayer struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
}

// PlayerProfile is one player record with their season statistics
type PlayerProfile struct {
	Player     Player             `json:"player"`
	Statistics []PlayerStatistics `json:"statistics"`
}

// Player holds the biographical details of a player
type Player struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Age         int    `json:"age"`
	Nationality string `json:"nationality"`
	Height      string `json:"height"`
	Weight      string `json:"weight"`
	Injured     bool   `json:"injured"`
	Photo       string `json:"photo"`
}

// PlayerStatistics is one team/league line of a player's season
type PlayerStatistics struct {
	Team    Team          `json:"team"`
	League  League        `json:"league"`
	Games   PlayerGames   `json:"games"`
	Shots   PlayerShots   `json:"shots"`
	Goals   PlayerGoals   `json:"goals"`
	Passes  PlayerPasses  `json:"passes"`
	Tackles PlayerTackles `json:"tackles"`
	Cards   PlayerCards   `json:"cards"`
}

type PlayerGames struct {
	Appearences *int   `json:"appearences"`
	Lineups     *int   `json:"lineups"`
	Minutes     *int   `json:"minutes"`
	Position    string `json:"position"`
	Rating      string `json:"rating"`
	Captain     bool   `json:"captain"`
}

type PlayerShots struct {
	Total *int `json:"total"`
	On    *int `json:"on"`
}

type PlayerGoals struct {
	Total    *int `json:"total"`
	Conceded *int `json:"conceded"`
	Assists  *int `json:"assists"`
	Saves    *int `json:"saves"`
}

type PlayerPasses struct {
	Total    *int `json:"total"`
	Key      *int `json:"key"`
	Accuracy *int `json:"accuracy"`
}

type PlayerTackles struct {
	Total         *int `json:"total"`
	Blocks        *int `json:"blocks"`
	Interceptions *int `json:"interceptions"`
}

type PlayerCards struct {
	Yellow    *int `json:"yellow"`
	Yellowred *int `json:"yellowred"`
	Red       *int `json:"red"`
}

package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"livescore-service/database"
)

type MatchStoreTestSuite struct {
	suite.Suite
	db    *sqlx.DB
	mock  sqlmock.Sqlmock
	store *MatchStore
}

func (suite *MatchStoreTestSuite) SetupTest() {
	mockDB, mock, err := sqlmock.New()
	require.NoError(suite.T(), err)

	suite.db = sqlx.NewDb(mockDB, "sqlmock")
	suite.mock = mock
	suite.store = NewMatchStore(suite.db)
}

func (suite *MatchStoreTestSuite) TearDownTest() {
	suite.db.Close()
}

func intPtr(v int) *int {
	return &v
}

func sampleMatch() *database.Match {
	return &database.Match{
		MatchID:   101,
		HomeTeam:  "Manchester United",
		AwayTeam:  "Liverpool",
		HomeScore: intPtr(1),
		AwayScore: intPtr(0),
		Status:    "1H",
		StartTime: time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC),
		League:    "Premier League",
		Venue:     "Old Trafford",
	}
}

func (suite *MatchStoreTestSuite) expectUpsert(m *database.Match) {
	suite.mock.ExpectExec(`INSERT INTO matches`).
		WithArgs(m.MatchID, m.HomeTeam, m.AwayTeam, m.HomeScore, m.AwayScore,
			m.Status, m.StartTime, m.League, m.Venue).
		WillReturnResult(sqlmock.NewResult(1, 1))
}

func (suite *MatchStoreTestSuite) TestUpsert() {
	m := sampleMatch()
	suite.expectUpsert(m)

	err := suite.store.Upsert(m)

	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

// Re-applying the same snapshot issues the same statement again; the
// ON CONFLICT clause makes the second write a no-op beyond updated_at.
func (suite *MatchStoreTestSuite) TestUpsertIdempotent() {
	m := sampleMatch()
	suite.expectUpsert(m)
	suite.expectUpsert(m)

	require.NoError(suite.T(), suite.store.Upsert(m))
	require.NoError(suite.T(), suite.store.Upsert(m))

	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *MatchStoreTestSuite) TestUpsertDistinctMatches() {
	m1 := sampleMatch()
	m2 := sampleMatch()
	m2.MatchID = 102
	m2.HomeTeam = "Arsenal"
	m2.AwayTeam = "Tottenham"

	suite.expectUpsert(m1)
	suite.expectUpsert(m2)

	require.NoError(suite.T(), suite.store.Upsert(m1))
	require.NoError(suite.T(), suite.store.Upsert(m2))

	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *MatchStoreTestSuite) TestUpsertFailure() {
	m := sampleMatch()
	dbErr := errors.New("connection reset")

	suite.mock.ExpectExec(`INSERT INTO matches`).
		WillReturnError(dbErr)

	err := suite.store.Upsert(m)

	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, dbErr)
	assert.Contains(suite.T(), err.Error(), "failed to upsert match 101")
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *MatchStoreTestSuite) TestListRecent() {
	now := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
	columns := []string{
		"id", "match_id", "home_team", "away_team", "home_score", "away_score",
		"status", "start_time", "league", "venue", "created_at", "updated_at",
	}

	rows := sqlmock.NewRows(columns).
		AddRow(2, 102, "Arsenal", "Tottenham", nil, nil, "NS", now.Add(time.Hour), "Premier League", "Emirates Stadium", now, now).
		AddRow(1, 101, "Manchester United", "Liverpool", 1, 0, "1H", now, "Premier League", "Old Trafford", now, now)

	suite.mock.ExpectQuery(`SELECT (.+) FROM matches`).
		WithArgs(20).
		WillReturnRows(rows)

	matches, err := suite.store.ListRecent(20)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), matches, 2)

	// Newest start_time first
	assert.Equal(suite.T(), int64(102), matches[0].MatchID)
	assert.Nil(suite.T(), matches[0].HomeScore)

	assert.Equal(suite.T(), int64(101), matches[1].MatchID)
	require.NotNil(suite.T(), matches[1].HomeScore)
	assert.Equal(suite.T(), 1, *matches[1].HomeScore)
	assert.Equal(suite.T(), "1H", matches[1].Status)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *MatchStoreTestSuite) TestListRecentFailure() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM matches`).
		WithArgs(20).
		WillReturnError(errors.New("relation does not exist"))

	matches, err := suite.store.ListRecent(20)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), matches)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func TestMatchStoreTestSuite(t *testing.T) {
	suite.Run(t, new(MatchStoreTestSuite))
}

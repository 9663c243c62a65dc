package sportsapi

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"livescore-service/pkg/common"
)

// GetLiveMatches retrieves every fixture currently in play
func (c *Client) GetLiveMatches() ([]Fixture, error) {
	params := url.Values{}
	params.Set("live", "all")

	body, err := c.get("/fixtures", params)
	if err != nil {
		return nil, err
	}

	var response struct {
		Results  int       `json:"results"`
		Response []Fixture `json:"response"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return response.Response, nil
}

// GetMatchByID retrieves a single fixture. Returns common.ErrNotFound
// when the upstream has no fixture with that ID.
func (c *Client) GetMatchByID(matchID int64) (*Fixture, error) {
	params := url.Values{}
	params.Set("id", strconv.FormatInt(matchID, 10))

	body, err := c.get("/fixtures", params)
	if err != nil {
		return nil, err
	}

	var response struct {
		Results  int       `json:"results"`
		Response []Fixture `json:"response"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(response.Response) == 0 {
		return nil, common.ErrNotFound
	}

	return &response.Response[0], nil
}

// GetMatchStatistics retrieves the per-team statistics for a fixture
func (c *Client) GetMatchStatistics(matchID int64) ([]TeamStatistics, error) {
	params := url.Values{}
	params.Set("fixture", strconv.FormatInt(matchID, 10))

	body, err := c.get("/fixtures/statistics", params)
	if err != nil {
		return nil, err
	}

	var response struct {
		Results  int              `json:"results"`
		Response []TeamStatistics `json:"response"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return response.Response, nil
}

// GetMatchEvents retrieves the goal, card and substitution events of a fixture
func (c *Client) GetMatchEvents(matchID int64) ([]MatchEvent, error) {
	params := url.Values{}
	params.Set("fixture", strconv.FormatInt(matchID, 10))

	body, err := c.get("/fixtures/events", params)
	if err != nil {
		return nil, err
	}

	var response struct {
		Results  int          `json:"results"`
		Response []MatchEvent `json:"response"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return response.Response, nil
}

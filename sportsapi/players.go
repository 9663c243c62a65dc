package sportsapi

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"livescore-service/pkg/common"
)

// GetPlayer retrieves a player's profile for the current season.
// Returns common.ErrNotFound when the upstream has no such player.
func (c *Client) GetPlayer(playerID int64) (*PlayerProfile, error) {
	params := url.Values{}
	params.Set("id", strconv.FormatInt(playerID, 10))
	params.Set("season", strconv.Itoa(time.Now().Year()))

	body, err := c.get("/players", params)
	if err != nil {
		return nil, err
	}

	var response struct {
		Results  int             `json:"results"`
		Response []PlayerProfile `json:"response"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(response.Response) == 0 {
		return nil, common.ErrNotFound
	}

	return &response.Response[0], nil
}

// GetPlayerStats retrieves a player's season statistics. A player that
// exists but has no statistics yields an empty slice, not an error.
func (c *Client) GetPlayerStats(playerID int64) ([]PlayerStatistics, error) {
	profile, err := c.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}

	if profile.Statistics == nil {
		return []PlayerStatistics{}, nil
	}

	return profile.Statistics, nil
}

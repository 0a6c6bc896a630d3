// Package nhl provides a minimal client for the NHL api-web API.
package nhl

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nolantphillips/nhl-predictors/internal/model"
)

// DefaultBaseURL is the root endpoint for the NHL api-web API.
const DefaultBaseURL = "https://api-web.nhle.com/v1"

// gameTypePreseason is the schedule gameType code for exhibition games.
const gameTypePreseason = 1

// Client is a minimal NHL api-web client. The API is public and needs no
// authentication; retry and rate-limit policy is the server's concern.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client against the given base URL. Empty baseURL and
// zero timeout fall back to the production endpoint and 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// get performs a GET request and JSON-decodes the response body into out.
func (c *Client) get(path string, out any) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode response: %w", path, err)
	}
	return nil
}

// TeamAbbrevs returns the abbreviations of all teams in the current
// standings.
func (c *Client) TeamAbbrevs() ([]string, error) {
	var resp struct {
		Standings []struct {
			TeamAbbrev struct {
				Default string `json:"default"`
			} `json:"teamAbbrev"`
		} `json:"standings"`
	}
	if err := c.get("/standings/now", &resp); err != nil {
		return nil, err
	}
	abbrevs := make([]string, 0, len(resp.Standings))
	for _, s := range resp.Standings {
		if s.TeamAbbrev.Default != "" {
			abbrevs = append(abbrevs, s.TeamAbbrev.Default)
		}
	}
	return abbrevs, nil
}

// TeamSeasonGames returns the ids of the team's non-exhibition games for one
// season (e.g. 20242025).
func (c *Client) TeamSeasonGames(abbrev string, season int) ([]int64, error) {
	var resp struct {
		Games []struct {
			ID       int64 `json:"id"`
			GameType int   `json:"gameType"`
		} `json:"games"`
	}
	path := fmt.Sprintf("/club-schedule-season/%s/%d", abbrev, season)
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	var ids []int64
	for _, g := range resp.Games {
		if g.GameType == gameTypePreseason {
			continue
		}
		ids = append(ids, g.ID)
	}
	return ids, nil
}

// PlayByPlay returns the home/away team ids and the ordered play sequence
// for one game.
func (c *Client) PlayByPlay(gameID int64) (*model.GameFeed, error) {
	var resp struct {
		ID       int64 `json:"id"`
		HomeTeam struct {
			ID int64 `json:"id"`
		} `json:"homeTeam"`
		AwayTeam struct {
			ID int64 `json:"id"`
		} `json:"awayTeam"`
		Plays []model.PlayEvent `json:"plays"`
	}
	if err := c.get(fmt.Sprintf("/gamecenter/%d/play-by-play", gameID), &resp); err != nil {
		return nil, err
	}
	return &model.GameFeed{
		ID:         gameID,
		HomeTeamID: resp.HomeTeam.ID,
		AwayTeamID: resp.AwayTeam.ID,
		Plays:      resp.Plays,
	}, nil
}

// PlayerStats returns a player's identity and role-specific career stat:
// save percentage for goaltenders, shooting percentage for skaters. The stat
// is nil when the league has no career figure for the player.
func (c *Client) PlayerStats(playerID int64) (model.PlayerStats, error) {
	var resp struct {
		FirstName struct {
			Default string `json:"default"`
		} `json:"firstName"`
		LastName struct {
			Default string `json:"default"`
		} `json:"lastName"`
		Position      string `json:"position"`
		ShootsCatches string `json:"shootsCatches"`
		FeaturedStats struct {
			RegularSeason struct {
				Career struct {
					SavePctg     *float64 `json:"savePctg"`
					ShootingPctg *float64 `json:"shootingPctg"`
				} `json:"career"`
			} `json:"regularSeason"`
		} `json:"featuredStats"`
	}
	if err := c.get(fmt.Sprintf("/player/%d/landing", playerID), &resp); err != nil {
		return model.PlayerStats{}, err
	}

	ps := model.PlayerStats{
		Name:     resp.FirstName.Default + " " + resp.LastName.Default,
		Position: resp.Position,
		Hand:     resp.ShootsCatches,
	}
	career := resp.FeaturedStats.RegularSeason.Career
	if resp.Position == "G" {
		ps.CareerPct = career.SavePctg
	} else {
		ps.CareerPct = career.ShootingPctg
	}
	return ps, nil
}

package scraper

import (
	"sync"

	"github.com/nolantphillips/nhl-predictors/internal/model"
)

// PlayerStatsProvider resolves identity and career stats for one player.
// Implemented by *nhl.Client.
type PlayerStatsProvider interface {
	PlayerStats(playerID int64) (model.PlayerStats, error)
}

// StatsCache memoizes player-stats lookups for the duration of a scrape run.
// The lock is held across the provider call so concurrent workers cannot race
// a duplicate fetch: each distinct player id hits the provider at most once.
type StatsCache struct {
	provider PlayerStatsProvider

	mu      sync.Mutex
	players map[int64]model.PlayerStats
}

// NewStatsCache returns an empty cache backed by the given provider.
func NewStatsCache(provider PlayerStatsProvider) *StatsCache {
	return &StatsCache{
		provider: provider,
		players:  make(map[int64]model.PlayerStats),
	}
}

// Lookup returns the stats for playerID, fetching from the provider on first
// sight. Provider errors are returned to the caller and nothing is cached,
// so a later lookup retries the fetch.
func (c *StatsCache) Lookup(playerID int64) (model.PlayerStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ps, ok := c.players[playerID]; ok {
		return ps, nil
	}
	ps, err := c.provider.PlayerStats(playerID)
	if err != nil {
		return model.PlayerStats{}, err
	}
	c.players[playerID] = ps
	return ps, nil
}

// Size returns the number of distinct players cached so far.
func (c *StatsCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.players)
}

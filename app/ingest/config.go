package ingest

import (
	"errors"
	"time"
)

// Sport maps one upstream sport key to its league label and the prop
// markets worth hydrating for it. An empty PropMarkets list disables
// hydration for the sport.
type Sport struct {
	Key         string
	Category    string
	PropMarkets []string
}

// Config holds the ingestion pass settings.
type Config struct {
	// Horizon bounds how far ahead of commence time an event may be and
	// still produce markets.
	Horizon time.Duration
	// HydrationCap bounds how many of the nearest events get per-event
	// prop hydration, and the fan-out concurrency with it.
	HydrationCap int
	// PreferredBookmakers is the fixed preference order for choosing the
	// single book an event's prices come from.
	PreferredBookmakers []string
	Sports              []Sport
}

// GetDefaultConfig returns the default ingestion configuration
func GetDefaultConfig() *Config {
	return &Config{
		Horizon:             72 * time.Hour,
		HydrationCap:        15,
		PreferredBookmakers: []string{"draftkings", "fanduel", "betmgm"},
		Sports: []Sport{
			{Key: "americanfootball_nfl", Category: "NFL", PropMarkets: []string{"player_pass_tds", "player_rush_yds"}},
			{Key: "basketball_nba", Category: "NBA", PropMarkets: []string{"player_points", "player_rebounds", "player_assists"}},
			{Key: "baseball_mlb", Category: "MLB"},
			{Key: "icehockey_nhl", Category: "NHL"},
		},
	}
}

// Validate checks the configuration for usable values
func (c *Config) Validate() error {
	if c.Horizon <= 0 {
		return errors.New("ingest: horizon must be positive")
	}
	if c.HydrationCap < 0 {
		return errors.New("ingest: hydration cap cannot be negative")
	}
	if len(c.Sports) == 0 {
		return errors.New("ingest: at least one sport must be configured")
	}
	for _, s := range c.Sports {
		if s.Key == "" {
			return errors.New("ingest: sport key cannot be empty")
		}
	}
	return nil
}

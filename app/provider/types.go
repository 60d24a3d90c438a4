package provider

import (
	"errors"
	"time"
)

// Market keys supported on every upstream plan tier.
const (
	MarketH2H     = "h2h"
	MarketSpreads = "spreads"
	MarketTotals  = "totals"
)

// CoreMarkets is the reduced market set used when the upstream rejects a
// request because the plan does not cover the full set.
var CoreMarkets = []string{MarketH2H, MarketSpreads, MarketTotals}

var (
	ErrAPIKeyNotConfigured  = errors.New("odds provider API key not configured")
	ErrBaseURLNotConfigured = errors.New("odds provider base URL not configured")
	ErrStatsNotConfigured   = errors.New("stats provider base URL not configured")
)

// Event is one upcoming contest with per-bookmaker offerings. Events are
// ephemeral: they live only within a single ingestion pass.
type Event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker is one book's full set of markets for one event.
type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

// Market is one market offered by a bookmaker.
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is one priced side. Point is set for spreads, totals and props;
// Description carries the player name on prop markets.
type Outcome struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Point       *float64 `json:"point,omitempty"`
	Description string   `json:"description,omitempty"`
}

// ScoreEvent is one finished or in-progress contest from the scores feed.
type ScoreEvent struct {
	ID           string    `json:"id"`
	SportKey     string    `json:"sport_key"`
	CommenceTime time.Time `json:"commence_time"`
	Completed    bool      `json:"completed"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	Scores       []Score   `json:"scores"`
}

// Score is one team's final tally; the feed reports it as a string.
type Score struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// TeamScore returns the named team's score, or false when the feed has no
// entry for it yet.
func (s *ScoreEvent) TeamScore(team string) (float64, bool) {
	for _, sc := range s.Scores {
		if sc.Name == team {
			return parseScore(sc.Score)
		}
	}
	return 0, false
}

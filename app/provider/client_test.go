package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/propline/propline/internal/cache"
	"github.com/propline/propline/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{
		BaseURL:      srv.URL,
		StatsBaseURL: srv.URL,
		APIKey:       "test-key",
		Regions:      "us",
		Timeout:      2 * time.Second,
		ScoresTTL:    time.Minute,
	}
	mem := cache.NewMemoryCache[[]ScoreEvent]()
	t.Cleanup(mem.Stop)
	return NewClient(cfg, srv.Client(), mem, logger.NewNullLogger()), srv
}

func TestFetchOdds(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/sports/basketball_nba/odds", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "decimal", r.URL.Query().Get("oddsFormat"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"id": "evt1",
			"sport_key": "basketball_nba",
			"sport_title": "NBA",
			"commence_time": "2026-01-10T00:00:00Z",
			"home_team": "Lakers",
			"away_team": "Celtics",
			"bookmakers": [{"key": "draftkings", "title": "DraftKings", "markets": [
				{"key": "h2h", "outcomes": [
					{"name": "Lakers", "price": 1.91},
					{"name": "Celtics", "price": 1.91}
				]}
			]}]
		}]`))
	})

	events, err := c.FetchOdds(context.Background(), "basketball_nba", []string{"h2h", "spreads"})
	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "evt1", events[0].ID)
	assert.Equal(t, "Lakers", events[0].HomeTeam)
	assert.Len(t, events[0].Bookmakers[0].Markets[0].Outcomes, 2)
}

func TestFetchOddsPlanFallback(t *testing.T) {
	var requests []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		markets := r.URL.Query().Get("markets")
		requests = append(requests, markets)
		if markets != "h2h,spreads,totals" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"market not available on your plan"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"evt1","home_team":"Lakers","away_team":"Celtics","bookmakers":[]}]`))
	})

	events, err := c.FetchOdds(context.Background(), "basketball_nba",
		[]string{"h2h", "spreads", "totals", "player_points"})
	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, []string{"h2h,spreads,totals,player_points", "h2h,spreads,totals"}, requests)
}

func TestFetchOddsServerError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})

	_, err := c.FetchOdds(context.Background(), "basketball_nba", CoreMarkets)
	assert.Error(t, err)

	var statusErr *StatusError
	assert.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
}

func TestFetchOddsMalformedResponse(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	})

	_, err := c.FetchOdds(context.Background(), "basketball_nba", CoreMarkets)
	assert.Error(t, err)
}

func TestFetchEventOdds(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/sports/basketball_nba/events/evt1/odds", r.URL.Path)
		assert.Equal(t, "player_points", r.URL.Query().Get("markets"))
		_, _ = w.Write([]byte(`{
			"id": "evt1",
			"bookmakers": [{"key": "fanduel", "markets": [
				{"key": "player_points", "outcomes": [
					{"name": "Over", "price": 1.87, "point": 25.5, "description": "LeBron James"},
					{"name": "Under", "price": 1.95, "point": 25.5, "description": "LeBron James"}
				]}
			]}]
		}`))
	})

	books, err := c.FetchEventOdds(context.Background(), "basketball_nba", "evt1", []string{"player_points"})
	assert.NoError(t, err)
	assert.Len(t, books, 1)
	assert.Equal(t, "fanduel", books[0].Key)
	assert.Equal(t, "LeBron James", books[0].Markets[0].Outcomes[0].Description)
}

func TestFetchScoresCaching(t *testing.T) {
	hits := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "3", r.URL.Query().Get("daysFrom"))
		_, _ = w.Write([]byte(`[{
			"id": "evt1",
			"completed": true,
			"home_team": "Lakers",
			"away_team": "Celtics",
			"scores": [{"name": "Lakers", "score": "110"}, {"name": "Celtics", "score": "100"}]
		}]`))
	})

	ctx := context.Background()
	scores, err := c.FetchScores(ctx, "basketball_nba", 3)
	assert.NoError(t, err)
	assert.Len(t, scores, 1)
	assert.True(t, scores[0].Completed)

	// second call served from the cache
	_, err = c.FetchScores(ctx, "basketball_nba", 3)
	assert.NoError(t, err)
	assert.Equal(t, 1, hits)

	home, ok := scores[0].TeamScore("Lakers")
	assert.True(t, ok)
	assert.Equal(t, 110.0, home)

	_, ok = scores[0].TeamScore("Warriors")
	assert.False(t, ok)
}

func TestPlayerStat(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/boxscores/stat", r.URL.Path)
		if r.URL.Query().Get("player") == "Unknown Player" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"player": "LeBron James", "stat": "points", "value": 31}`))
	})

	ctx := context.Background()
	value, found, err := c.PlayerStat(ctx, "basketball_nba", "LeBron James", "points", "2026-01-10")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 31.0, value)

	_, found, err = c.PlayerStat(ctx, "basketball_nba", "Unknown Player", "points", "2026-01-10")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestPlayerStatNotConfigured(t *testing.T) {
	mem := cache.NewMemoryCache[[]ScoreEvent]()
	defer mem.Stop()
	c := NewClient(Config{BaseURL: "http://localhost", APIKey: "k"}, nil, mem, logger.NewNullLogger())

	_, _, err := c.PlayerStat(context.Background(), "basketball_nba", "LeBron James", "points", "2026-01-10")
	assert.ErrorIs(t, err, ErrStatsNotConfigured)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	assert.ErrorIs(t, cfg.Validate(), ErrAPIKeyNotConfigured)

	cfg.APIKey = "k"
	cfg.BaseURL = ""
	assert.ErrorIs(t, cfg.Validate(), ErrBaseURLNotConfigured)

	cfg.BaseURL = "https://api.the-odds-api.com"
	assert.NoError(t, cfg.Validate())
}

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/propline/propline/internal/cache"
	"github.com/propline/propline/internal/logger"
)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.Code, e.Body)
}

// Client talks to the upstream odds/scores provider. All calls are bounded
// by the injected http.Client timeout; errors are returned, never panicked,
// so one sport's failure cannot abort a whole pass.
type Client struct {
	cfg    Config
	http   *http.Client
	scores cache.Cache[[]ScoreEvent]
	logger logger.Logger
}

// NewClient creates a provider client. The scores cache memoizes finished
// score responses between overlapping resolution passes; pass a memory
// cache when redis is not available.
func NewClient(cfg Config, httpClient *http.Client, scores cache.Cache[[]ScoreEvent], l logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		scores: scores,
		logger: l,
	}
}

// FetchOdds returns upcoming events with bookmaker offerings for one sport.
// A 422 from the upstream means the requested market set is not covered by
// the plan; the call degrades once to the core market set before failing.
func (c *Client) FetchOdds(ctx context.Context, sportKey string, markets []string) ([]Event, error) {
	events, err := c.fetchOdds(ctx, sportKey, markets)
	if err == nil {
		return events, nil
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusUnprocessableEntity {
		c.logger.Info("market set rejected by plan, retrying with core markets", logger.Fields{
			"sport":  sportKey,
			"status": statusErr.Code,
		})
		return c.fetchOdds(ctx, sportKey, CoreMarkets)
	}
	return nil, err
}

func (c *Client) fetchOdds(ctx context.Context, sportKey string, markets []string) ([]Event, error) {
	q := url.Values{}
	q.Set("apiKey", c.cfg.APIKey)
	q.Set("regions", c.cfg.Regions)
	q.Set("markets", strings.Join(markets, ","))
	q.Set("oddsFormat", "decimal")

	var events []Event
	path := fmt.Sprintf("/v4/sports/%s/odds", url.PathEscape(sportKey))
	if err := c.getJSON(ctx, c.cfg.BaseURL, path, q, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// FetchEventOdds hydrates one event with additional markets (player props)
// that the list endpoint does not carry.
func (c *Client) FetchEventOdds(ctx context.Context, sportKey, eventID string, markets []string) ([]Bookmaker, error) {
	q := url.Values{}
	q.Set("apiKey", c.cfg.APIKey)
	q.Set("regions", c.cfg.Regions)
	q.Set("markets", strings.Join(markets, ","))
	q.Set("oddsFormat", "decimal")

	var event Event
	path := fmt.Sprintf("/v4/sports/%s/events/%s/odds", url.PathEscape(sportKey), url.PathEscape(eventID))
	if err := c.getJSON(ctx, c.cfg.BaseURL, path, q, &event); err != nil {
		return nil, err
	}
	return event.Bookmakers, nil
}

// FetchScores returns recent scores for one sport, looking back daysFrom
// days. Responses are memoized for the configured TTL.
func (c *Client) FetchScores(ctx context.Context, sportKey string, daysFrom int) ([]ScoreEvent, error) {
	cacheKey := fmt.Sprintf("scores:%s:%d", sportKey, daysFrom)
	if cached, err := c.scores.Get(ctx, cacheKey); err == nil {
		return cached, nil
	}

	q := url.Values{}
	q.Set("apiKey", c.cfg.APIKey)
	q.Set("daysFrom", strconv.Itoa(daysFrom))

	var scores []ScoreEvent
	path := fmt.Sprintf("/v4/sports/%s/scores", url.PathEscape(sportKey))
	if err := c.getJSON(ctx, c.cfg.BaseURL, path, q, &scores); err != nil {
		return nil, err
	}

	if err := c.scores.Set(ctx, cacheKey, scores, c.cfg.ScoresTTL); err != nil {
		c.logger.Error(err, logger.Fields{"key": cacheKey})
	}
	return scores, nil
}

type playerStatResponse struct {
	Player string  `json:"player"`
	Stat   string  `json:"stat"`
	Value  float64 `json:"value"`
}

// PlayerStat returns one player's box-score stat for the given date. The
// date parameter is explicit because the caller decides which day's box
// score applies; a missing stat is (0, false, nil), not an error.
func (c *Client) PlayerStat(ctx context.Context, sportKey, playerName, stat, date string) (float64, bool, error) {
	if c.cfg.StatsBaseURL == "" {
		return 0, false, ErrStatsNotConfigured
	}

	q := url.Values{}
	q.Set("apiKey", c.cfg.APIKey)
	q.Set("sport", sportKey)
	q.Set("player", playerName)
	q.Set("stat", stat)
	q.Set("date", date)

	var resp playerStatResponse
	err := c.getJSON(ctx, c.cfg.StatsBaseURL, "/v1/boxscores/stat", q, &resp)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return 0, false, nil
		}
		return 0, false, err
	}
	return resp.Value, true, nil
}

func (c *Client) getJSON(ctx context.Context, base, path string, q url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("read response %s: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response %s: %w", path, err)
	}
	return nil
}

func parseScore(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

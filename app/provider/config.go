package provider

import "time"

// Config holds the upstream odds and stats provider settings.
type Config struct {
	BaseURL      string        `env:"ODDS_API_BASE_URL" env-default:"https://api.the-odds-api.com"`
	StatsBaseURL string        `env:"STATS_API_BASE_URL" env-default:""`
	APIKey       string        `env:"ODDS_API_KEY"`
	Regions      string        `env:"ODDS_API_REGIONS" env-default:"us"`
	Timeout      time.Duration `env:"ODDS_API_TIMEOUT" env-default:"10s"`
	ScoresTTL    time.Duration `env:"ODDS_API_SCORES_TTL" env-default:"5m"`
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrAPIKeyNotConfigured
	}
	if c.BaseURL == "" {
		return ErrBaseURLNotConfigured
	}
	return nil
}

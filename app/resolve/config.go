package resolve

import "errors"

// Config holds the resolution pass settings.
type Config struct {
	// SportKeys are the upstream sports whose finished scores get fetched
	// each pass. Normally the same keys the ingestor tracks.
	SportKeys []string
	// DaysFrom bounds how far back the scores feed looks for finished
	// events. Three days covers the 72h market horizon.
	DaysFrom int
}

// GetDefaultConfig returns the default resolution configuration
func GetDefaultConfig() *Config {
	return &Config{
		SportKeys: []string{
			"americanfootball_nfl",
			"basketball_nba",
			"baseball_mlb",
			"icehockey_nhl",
		},
		DaysFrom: 3,
	}
}

// Validate checks the configuration for usable values
func (c *Config) Validate() error {
	if len(c.SportKeys) == 0 {
		return errors.New("resolve: at least one sport key must be configured")
	}
	if c.DaysFrom < 1 {
		return errors.New("resolve: days-from must be at least 1")
	}
	return nil
}

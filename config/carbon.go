package config

import "fmt"

// CarbonConfig selects where the carbon-intensity forecast series comes from.
type CarbonConfig struct {
	// Source is "file" (static feed JSON), "sqlite" (pre-populated cache) or
	// "api" (HTTP polling into a sqlite cache).
	Source string `json:"source"`
	// Path is the feed file for "file" and the cache database for "sqlite"
	// and "api".
	Path string `json:"path"`
	// URL is the feed endpoint for "api".
	URL string `json:"url"`
	// PeriodDays is the repetition period of the feed used for alignment.
	PeriodDays int `json:"period_days"`
	// PollIntervalSeconds controls the "api" polling cadence.
	PollIntervalSeconds int `json:"poll_interval_seconds"`
}

// SetDefaults applies sane defaults.
func (c *CarbonConfig) SetDefaults() {
	if c.Source == "" {
		c.Source = "file"
	}
	if c.PeriodDays == 0 {
		c.PeriodDays = 7
	}
	if c.PollIntervalSeconds == 0 {
		c.PollIntervalSeconds = 1800
	}
}

// Validate checks mandatory fields per source.
func (c CarbonConfig) Validate() error {
	switch c.Source {
	case "file", "sqlite":
		if c.Path == "" {
			return fmt.Errorf("carbon.path is required for source %q", c.Source)
		}
	case "api":
		if c.URL == "" {
			return fmt.Errorf("carbon.url is required for source \"api\"")
		}
		if c.Path == "" {
			return fmt.Errorf("carbon.path (cache database) is required for source \"api\"")
		}
	default:
		return fmt.Errorf("unknown carbon source %q", c.Source)
	}
	if c.PeriodDays < 0 {
		return fmt.Errorf("carbon.period_days must not be negative")
	}
	return nil
}

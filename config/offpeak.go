package config

import (
	"fmt"

	"github.com/voltsched/greencharge/core/timeutil"
)

// OffPeakConfig defines the recurring daily off-peak tariff window.
type OffPeakConfig struct {
	// Start and End are 24-hour HH:MM wall-clock times. Start after End
	// means the window wraps past midnight. Start equal to End means no
	// off-peak window at all.
	Start string `json:"start"`
	End   string `json:"end"`
}

// SetDefaults applies the common overnight tariff window.
func (c *OffPeakConfig) SetDefaults() {
	if c.Start == "" {
		c.Start = "00:30"
	}
	if c.End == "" {
		c.End = "07:30"
	}
}

// Validate checks both boundaries parse.
func (c OffPeakConfig) Validate() error {
	if _, err := timeutil.ParseWallClock(c.Start); err != nil {
		return fmt.Errorf("offpeak.start: %w", err)
	}
	if _, err := timeutil.ParseWallClock(c.End); err != nil {
		return fmt.Errorf("offpeak.end: %w", err)
	}
	return nil
}

// Window returns the parsed boundaries. Validate must have passed.
func (c OffPeakConfig) Window() (start, end timeutil.WallClock) {
	start, _ = timeutil.ParseWallClock(c.Start)
	end, _ = timeutil.ParseWallClock(c.End)
	return start, end
}

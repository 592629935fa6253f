package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WallClock is a recurring daily time of day (hour and minute) with no date
// and no zone. It marks boundaries such as the off-peak window edges.
type WallClock struct {
	Hour   int
	Minute int
}

// ParseWallClock parses a 24-hour "HH:MM" string.
func ParseWallClock(s string) (WallClock, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return WallClock{}, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return WallClock{}, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return WallClock{}, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return WallClock{}, fmt.Errorf("invalid time %q: out of range", s)
	}
	return WallClock{Hour: h, Minute: m}, nil
}

func (w WallClock) String() string {
	return fmt.Sprintf("%02d:%02d", w.Hour, w.Minute)
}

// NextAfter returns the earliest instant strictly after ref whose wall-clock
// time equals w, in ref's location. If ref is already at w exactly, the
// occurrence on the next day is returned.
func (w WallClock) NextAfter(ref time.Time) time.Time {
	t := time.Date(ref.Year(), ref.Month(), ref.Day(), w.Hour, w.Minute, 0, 0, ref.Location())
	if !t.After(ref) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

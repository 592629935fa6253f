package schedule

import (
	"time"

	"github.com/voltsched/greencharge/core/interval"
	"github.com/voltsched/greencharge/core/timeutil"
)

// Partition splits [plugIn, readyBy) into off-peak and peak interval lists
// for a single recurring daily off-peak window. The two lists are disjoint,
// chronologically ordered, and together cover the whole charging window.
//
// The off-peak edges are resolved to their first occurrence after plugIn, so
// an end occurrence earlier than the start occurrence means the window wraps
// past midnight: off-peak is already running at plug-in and resumes at the
// next start. A window whose configured start equals its end is degenerate
// and yields no off-peak time. When a wrapped window swallows the entire
// charging window, the whole window is classified as off-peak.
func Partition(plugIn, readyBy time.Time, offPeakStart, offPeakEnd timeutil.WallClock) (offPeak, peak []interval.Interval) {
	window := interval.Interval{Start: plugIn, End: readyBy}
	if window.Empty() {
		return nil, nil
	}

	s := offPeakStart.NextAfter(plugIn)
	e := offPeakEnd.NextAfter(plugIn)

	var spans []interval.Interval
	switch {
	case s.Equal(e):
		// Degenerate window, no off-peak time exists.
	case s.Before(e):
		spans = append(spans, interval.Interval{Start: s, End: e})
	default:
		// Wrapped: running since before plug-in until e, resumes at s.
		spans = append(spans, interval.Interval{Start: plugIn, End: e})
		if s.Before(readyBy) {
			spans = append(spans, interval.Interval{Start: s, End: readyBy})
		}
	}

	for _, sp := range spans {
		if clipped := window.Intersect(sp); !clipped.Empty() {
			offPeak = append(offPeak, clipped)
		}
	}
	peak = interval.Subtract(window, offPeak)
	return offPeak, peak
}

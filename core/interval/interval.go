package interval

import (
	"fmt"
	"sort"
	"time"
)

// Interval is a half-open span of time [Start, End). Start == End denotes an
// empty interval. Values are immutable; operations return new slices.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns End - Start, or zero for an empty interval.
func (i Interval) Duration() time.Duration {
	if i.Empty() {
		return 0
	}
	return i.End.Sub(i.Start)
}

// Empty reports whether the interval contains no time points.
func (i Interval) Empty() bool {
	return !i.Start.Before(i.End)
}

// Validate checks that the interval is well ordered.
func (i Interval) Validate() error {
	if i.End.Before(i.Start) {
		return fmt.Errorf("interval end %v before start %v", i.End, i.Start)
	}
	return nil
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}

// Intersect returns the overlap of two intervals. The result is empty when
// the intervals only touch, since both are half-open.
func (i Interval) Intersect(o Interval) Interval {
	r := i
	if o.Start.After(r.Start) {
		r.Start = o.Start
	}
	if o.End.Before(r.End) {
		r.End = o.End
	}
	if r.Empty() {
		return Interval{}
	}
	return r
}

// Subtract removes the given spans from base and returns what is left, in
// chronological order. The spans may overlap each other or extend past base;
// empty remainders are dropped.
func Subtract(base Interval, spans []Interval) []Interval {
	if base.Empty() {
		return nil
	}
	clipped := make([]Interval, 0, len(spans))
	for _, s := range spans {
		if c := base.Intersect(s); !c.Empty() {
			clipped = append(clipped, c)
		}
	}
	SortByStart(clipped)

	var out []Interval
	cursor := base.Start
	for _, s := range clipped {
		if s.Start.After(cursor) {
			out = append(out, Interval{Start: cursor, End: s.Start})
		}
		if s.End.After(cursor) {
			cursor = s.End
		}
	}
	if cursor.Before(base.End) {
		out = append(out, Interval{Start: cursor, End: base.End})
	}
	return out
}

// TotalDuration sums the durations of all intervals. An empty slice yields
// zero.
func TotalDuration(intervals []Interval) time.Duration {
	var total time.Duration
	for _, i := range intervals {
		total += i.Duration()
	}
	return total
}

// SortByStart orders intervals by ascending start time, in place and stably.
// Touching or overlapping intervals are kept as-is, never merged.
func SortByStart(intervals []Interval) {
	sort.SliceStable(intervals, func(a, b int) bool {
		return intervals[a].Start.Before(intervals[b].Start)
	})
}

// Trim cuts the intervals down to at most the required total duration,
// walking them in chronological order and splitting the interval where the
// remaining duration runs out.
func Trim(intervals []Interval, required time.Duration) []Interval {
	if required <= 0 {
		return nil
	}
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	SortByStart(sorted)

	remaining := required
	var out []Interval
	for _, i := range sorted {
		if remaining <= 0 {
			break
		}
		d := i.Duration()
		if d == 0 {
			continue
		}
		if d <= remaining {
			out = append(out, i)
			remaining -= d
			continue
		}
		out = append(out, Interval{Start: i.Start, End: i.Start.Add(remaining)})
		remaining = 0
	}
	return out
}

// Bounding returns the smallest interval covering all the given intervals.
func Bounding(intervals []Interval) Interval {
	var b Interval
	for _, i := range intervals {
		if i.Empty() {
			continue
		}
		if b.Empty() {
			b = i
			continue
		}
		if i.Start.Before(b.Start) {
			b.Start = i.Start
		}
		if i.End.After(b.End) {
			b.End = i.End
		}
	}
	return b
}

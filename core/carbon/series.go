package carbon

import (
	"fmt"
	"sort"
	"time"

	"github.com/voltsched/greencharge/core/interval"
)

// DefaultPeriod is the repetition period of the national carbon feed: the
// intensity pattern is weekly-structured, so a stale series can be shifted
// by whole weeks to line up with a future window.
const DefaultPeriod = 7 * 24 * time.Hour

// Record is one half-open forecast interval [From, To) annotated with a grid
// carbon intensity in gCO2/kWh. Lower is cleaner. Timestamps are UTC.
type Record struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Intensity float64   `json:"intensity"`
}

// Validate checks the record is well ordered.
func (r Record) Validate() error {
	if !r.From.Before(r.To) {
		return fmt.Errorf("carbon record from %v not before to %v", r.From, r.To)
	}
	return nil
}

// Series is a carbon-intensity forecast series. Records need not be sorted
// or contiguous. Period is the repetition period used for alignment; zero
// means DefaultPeriod.
type Series struct {
	Records []Record
	Period  time.Duration
}

// Validate checks every record in the series.
func (s Series) Validate() error {
	for i, r := range s.Records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

func (s Series) period() time.Duration {
	if s.Period > 0 {
		return s.Period
	}
	return DefaultPeriod
}

// Span returns the interval from the earliest From to the latest To.
func (s Series) Span() interval.Interval {
	var span interval.Interval
	for _, r := range s.Records {
		if span.Empty() {
			span = interval.Interval{Start: r.From, End: r.To}
			continue
		}
		if r.From.Before(span.Start) {
			span.Start = r.From
		}
		if r.To.After(span.End) {
			span.End = r.To
		}
	}
	return span
}

// AlignTo shifts the series forward by the smallest non-negative whole
// multiple of its period that brings it into overlap with the window. A
// series that already reaches past the window start is returned unshifted;
// so is a series that lies entirely after the window, since no forward shift
// can help there and the allocator falls back to unweighted trimming.
func (s Series) AlignTo(window interval.Interval) Series {
	if len(s.Records) == 0 || window.Empty() {
		return s
	}
	span := s.Span()
	if span.End.After(window.Start) {
		return s
	}
	p := s.period()
	gap := window.Start.Sub(span.End)
	steps := gap/p + 1
	shift := time.Duration(steps) * p

	shifted := Series{Records: make([]Record, len(s.Records)), Period: s.Period}
	for i, r := range s.Records {
		shifted.Records[i] = Record{
			From:      r.From.Add(shift),
			To:        r.To.Add(shift),
			Intensity: r.Intensity,
		}
	}
	return shifted
}

// Sorted returns a copy of the series with records ordered by From.
func (s Series) Sorted() Series {
	out := Series{Records: make([]Record, len(s.Records)), Period: s.Period}
	copy(out.Records, s.Records)
	sort.SliceStable(out.Records, func(a, b int) bool {
		return out.Records[a].From.Before(out.Records[b].From)
	})
	return out
}

package carbon

import (
	"sort"
	"time"

	"github.com/voltsched/greencharge/core/interval"
)

// slot is a forecast record clipped to a candidate charging interval.
type slot struct {
	iv        interval.Interval
	intensity float64
}

// Allocate picks sub-intervals of the candidates totalling the required
// duration while minimizing cumulative carbon emissions.
//
// When the candidates cannot cover the requirement anyway they are returned
// unchanged. Otherwise the series is aligned onto the candidate window, every
// record is clipped against every candidate, and the clipped slots are
// consumed greedily in ascending intensity order; the last slot taken is cut
// to a prefix of exactly the remaining duration.
//
// If the aligned series does not cover enough of the candidates to satisfy
// the requirement (empty series, or a hole in the feed), Allocate falls back
// to trimming the candidates in chronological order so the returned duration
// still equals the requirement.
func Allocate(candidates []interval.Interval, required time.Duration, series Series) []interval.Interval {
	if required <= 0 {
		return nil
	}
	if interval.TotalDuration(candidates) <= required {
		return candidates
	}

	aligned := series.AlignTo(interval.Bounding(candidates))
	var slots []slot
	for _, r := range aligned.Records {
		for _, c := range candidates {
			clipped := c.Intersect(interval.Interval{Start: r.From, End: r.To})
			if clipped.Empty() {
				continue
			}
			slots = append(slots, slot{iv: clipped, intensity: r.Intensity})
		}
	}

	var covered time.Duration
	for _, s := range slots {
		covered += s.iv.Duration()
	}
	if covered < required {
		return interval.Trim(candidates, required)
	}

	sort.SliceStable(slots, func(a, b int) bool {
		return slots[a].intensity < slots[b].intensity
	})

	remaining := required
	var out []interval.Interval
	for _, s := range slots {
		if remaining <= 0 {
			break
		}
		d := s.iv.Duration()
		if d < remaining {
			out = append(out, s.iv)
			remaining -= d
			continue
		}
		out = append(out, interval.Interval{Start: s.iv.Start, End: s.iv.Start.Add(remaining)})
		remaining = 0
	}

	interval.SortByStart(out)
	return out
}

package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voltsched/greencharge/core/carbon"
	"github.com/voltsched/greencharge/core/interval"
	"github.com/voltsched/greencharge/core/logger"
	"github.com/voltsched/greencharge/core/timeutil"
)

// ForecastSource supplies the carbon forecast series used for optimization.
type ForecastSource interface {
	Series(ctx context.Context) (carbon.Series, error)
}

// StaticSeries adapts an in-memory series into a ForecastSource.
type StaticSeries carbon.Series

// Series returns the wrapped series.
func (s StaticSeries) Series(context.Context) (carbon.Series, error) {
	return carbon.Series(s), nil
}

// Plan is a computed charging schedule. Intervals are sorted by start time;
// touching intervals are deliberately kept separate so each one maps back to
// the off-peak segment or forecast slot it came from.
type Plan struct {
	ID        string        `json:"id"`
	PlugIn    time.Time     `json:"plug_in"`
	Deadline  time.Time     `json:"deadline"`
	Requested time.Duration `json:"requested"`
	Scheduled time.Duration `json:"scheduled"`
	// OffPeak is how much of the scheduled time falls inside the off-peak
	// window. Zero for the continuous short-window plan, which never gets
	// partitioned.
	OffPeak   time.Duration       `json:"off_peak"`
	Intervals []interval.Interval `json:"intervals"`
}

// Shortfall returns how much of the requested charge could not be placed
// inside the charging window. Non-zero only when the whole window is shorter
// than the requested duration.
func (p Plan) Shortfall() time.Duration {
	if p.Scheduled >= p.Requested {
		return 0
	}
	return p.Requested - p.Scheduled
}

// PlanComputed is published on the event bus whenever a plan has been
// computed, carrying the full plan for downstream transports.
type PlanComputed struct {
	VehicleID string
	Plan      Plan
}

// Scheduler plans charging sessions for one off-peak tariff window.
type Scheduler struct {
	offPeakStart timeutil.WallClock
	offPeakEnd   timeutil.WallClock
	source       ForecastSource
	log          logger.Logger
}

// New creates a Scheduler. A nil source is treated as an empty series, which
// disables carbon weighting but never duration correctness.
func New(offPeakStart, offPeakEnd timeutil.WallClock, source ForecastSource, log logger.Logger) *Scheduler {
	if source == nil {
		source = StaticSeries{}
	}
	return &Scheduler{
		offPeakStart: offPeakStart,
		offPeakEnd:   offPeakEnd,
		source:       source,
		log:          log,
	}
}

// WithWindow returns a copy of the scheduler using a different off-peak
// window. The forecast source and logger are shared.
func (s *Scheduler) WithWindow(offPeakStart, offPeakEnd timeutil.WallClock) *Scheduler {
	cp := *s
	cp.offPeakStart = offPeakStart
	cp.offPeakEnd = offPeakEnd
	return &cp
}

// Plan computes the charging schedule for a car plugged in at plugIn that
// must be charged for chargeDuration by the next occurrence of readyBy.
//
// Off-peak time is always consumed before any peak time regardless of its
// carbon intensity; carbon optimization only decides which part of the
// portion with slack is used. If the whole window is shorter than the
// requested duration the full window is returned as a best-effort plan.
func (s *Scheduler) Plan(ctx context.Context, plugIn time.Time, readyBy timeutil.WallClock, chargeDuration time.Duration) (Plan, error) {
	if plugIn.IsZero() {
		return Plan{}, fmt.Errorf("plug-in time is required")
	}
	if chargeDuration < 0 {
		return Plan{}, fmt.Errorf("charge duration must not be negative, got %v", chargeDuration)
	}

	deadline := readyBy.NextAfter(plugIn)
	plan := Plan{
		ID:        uuid.NewString(),
		PlugIn:    plugIn,
		Deadline:  deadline,
		Requested: chargeDuration,
	}

	if deadline.Sub(plugIn) <= chargeDuration {
		// No slack: charge continuously from plug-in to deadline.
		plan.Intervals = []interval.Interval{{Start: plugIn, End: deadline}}
		plan.Scheduled = deadline.Sub(plugIn)
		if s.log != nil && plan.Scheduled < chargeDuration {
			s.log.Warnf("window %v shorter than requested charge %v, plan %s under-supplies", plan.Scheduled, chargeDuration, plan.ID)
		}
		return plan, nil
	}

	series, err := s.source.Series(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("load forecast series: %w", err)
	}

	offPeak, peak := Partition(plugIn, deadline, s.offPeakStart, s.offPeakEnd)
	offPeakDur := interval.TotalDuration(offPeak)

	var intervals []interval.Interval
	if chargeDuration <= offPeakDur {
		intervals = carbon.Allocate(offPeak, chargeDuration, series)
		plan.OffPeak = chargeDuration
	} else {
		intervals = append(intervals, offPeak...)
		intervals = append(intervals, carbon.Allocate(peak, chargeDuration-offPeakDur, series)...)
		plan.OffPeak = offPeakDur
	}
	interval.SortByStart(intervals)

	plan.Intervals = intervals
	plan.Scheduled = interval.TotalDuration(intervals)
	if s.log != nil {
		s.log.Debugw("plan computed", map[string]any{
			"plan_id":   plan.ID,
			"deadline":  deadline,
			"off_peak":  offPeakDur.String(),
			"scheduled": plan.Scheduled.String(),
			"intervals": len(intervals),
		})
	}
	return plan, nil
}

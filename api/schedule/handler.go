package schedule

import (
	"encoding/json"
	"net/http"
	"time"

	coremetrics "github.com/voltsched/greencharge/core/metrics"
	coreschedule "github.com/voltsched/greencharge/core/schedule"
	"github.com/voltsched/greencharge/core/timeutil"
	"github.com/voltsched/greencharge/infra/logger"
	"github.com/voltsched/greencharge/internal/eventbus"
)

// Request is the JSON body of POST /api/schedule. The off-peak fields
// override the configured tariff window for this request only; both must be
// set together.
type Request struct {
	VehicleID     string    `json:"vehicle_id"`
	ReadyBy       string    `json:"ready_by"`
	ChargeMinutes int       `json:"charge_minutes"`
	PlugIn        time.Time `json:"plug_in"`
	OffPeakStart  string    `json:"off_peak_start,omitempty"`
	OffPeakEnd    string    `json:"off_peak_end,omitempty"`
}

// Period is one scheduled charging interval.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Response is the JSON reply containing the computed plan.
type Response struct {
	PlanID           string    `json:"plan_id"`
	VehicleID        string    `json:"vehicle_id,omitempty"`
	PlugIn           time.Time `json:"plug_in"`
	Deadline         time.Time `json:"deadline"`
	RequestedMinutes int       `json:"requested_minutes"`
	ScheduledMinutes int       `json:"scheduled_minutes"`
	Periods          []Period  `json:"periods"`
}

// NewHandler returns an HTTP handler computing charging plans via
// POST /api/schedule. Plan events are published on the bus for the metrics
// collector; a nil bus disables that.
func NewHandler(sched *coreschedule.Scheduler, bus eventbus.EventBus, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		readyBy, err := timeutil.ParseWallClock(req.ReadyBy)
		if err != nil {
			http.Error(w, "ready_by: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.ChargeMinutes < 0 {
			http.Error(w, "charge_minutes must not be negative", http.StatusBadRequest)
			return
		}
		if req.PlugIn.IsZero() {
			http.Error(w, "plug_in is required", http.StatusBadRequest)
			return
		}

		planner := sched
		if req.OffPeakStart != "" || req.OffPeakEnd != "" {
			if req.OffPeakStart == "" || req.OffPeakEnd == "" {
				http.Error(w, "off_peak_start and off_peak_end must be set together", http.StatusBadRequest)
				return
			}
			start, err := timeutil.ParseWallClock(req.OffPeakStart)
			if err != nil {
				http.Error(w, "off_peak_start: "+err.Error(), http.StatusBadRequest)
				return
			}
			end, err := timeutil.ParseWallClock(req.OffPeakEnd)
			if err != nil {
				http.Error(w, "off_peak_end: "+err.Error(), http.StatusBadRequest)
				return
			}
			planner = planner.WithWindow(start, end)
		}

		plan, err := planner.Plan(r.Context(), req.PlugIn, readyBy, time.Duration(req.ChargeMinutes)*time.Minute)
		if err != nil {
			log.Errorf("plan request failed: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if bus != nil {
			bus.Publish(planEvent(plan, req.VehicleID))
			bus.Publish(coreschedule.PlanComputed{VehicleID: req.VehicleID, Plan: plan})
		}

		resp := Response{
			PlanID:           plan.ID,
			VehicleID:        req.VehicleID,
			PlugIn:           plan.PlugIn,
			Deadline:         plan.Deadline,
			RequestedMinutes: int(plan.Requested.Minutes()),
			ScheduledMinutes: int(plan.Scheduled.Minutes()),
			Periods:          make([]Period, 0, len(plan.Intervals)),
		}
		for _, iv := range plan.Intervals {
			resp.Periods = append(resp.Periods, Period{Start: iv.Start, End: iv.End})
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func planEvent(plan coreschedule.Plan, vehicleID string) coremetrics.PlanEvent {
	outcome := coremetrics.OutcomeOffPeak
	switch {
	case plan.Shortfall() > 0:
		outcome = coremetrics.OutcomeShortfall
	case plan.Scheduled > plan.OffPeak:
		outcome = coremetrics.OutcomeMixed
	}
	return coremetrics.PlanEvent{
		PlanID:    plan.ID,
		VehicleID: vehicleID,
		Outcome:   outcome,
		PlugIn:    plan.PlugIn,
		Deadline:  plan.Deadline,
		Requested: plan.Requested,
		Scheduled: plan.Scheduled,
		Intervals: len(plan.Intervals),
		Time:      time.Now().UTC(),
	}
}

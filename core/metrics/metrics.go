package metrics

import "time"

// PlanOutcome classifies how a plan satisfied its request.
type PlanOutcome string

const (
	// OutcomeOffPeak means the whole charge fits inside the off-peak window.
	OutcomeOffPeak PlanOutcome = "off_peak"
	// OutcomeMixed means peak time had to supplement the off-peak window.
	OutcomeMixed PlanOutcome = "mixed"
	// OutcomeShortfall means the charging window was shorter than the
	// requested charge and the plan under-supplies.
	OutcomeShortfall PlanOutcome = "shortfall"
)

// PlanEvent describes one computed charging plan.
type PlanEvent struct {
	PlanID    string
	VehicleID string
	Outcome   PlanOutcome
	PlugIn    time.Time
	Deadline  time.Time
	Requested time.Duration
	Scheduled time.Duration
	Intervals int
	Time      time.Time
}

// MetricsSink records plan events. Implementations must be safe for
// concurrent use.
type MetricsSink interface {
	RecordPlan(PlanEvent) error
}

// NopSink discards all events.
type NopSink struct{}

// RecordPlan implements MetricsSink.
func (NopSink) RecordPlan(PlanEvent) error { return nil }

// Config holds metrics sink settings.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = "9090"
	}
}

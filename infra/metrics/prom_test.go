package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/voltsched/greencharge/core/metrics"
)

func TestPromSinkRecordsPlan(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	ev := coremetrics.PlanEvent{
		PlanID:    "p1",
		Outcome:   coremetrics.OutcomeOffPeak,
		Requested: 300 * time.Minute,
		Scheduled: 300 * time.Minute,
		Intervals: 3,
		Time:      time.Now(),
	}
	if err := sink.RecordPlan(ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	ps := sink.(*PromSink)
	if got := testutil.ToFloat64(ps.plans.WithLabelValues(string(coremetrics.OutcomeOffPeak))); got != 1 {
		t.Fatalf("counter %v", got)
	}
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("second registration must reuse collectors: %v", err)
	}
}

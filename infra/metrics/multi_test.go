package metrics

import (
	"fmt"
	"sync"
	"testing"

	coremetrics "github.com/voltsched/greencharge/core/metrics"
)

type recordingSink struct {
	mu     sync.Mutex
	events []coremetrics.PlanEvent
	err    error
}

func (r *recordingSink) RecordPlan(ev coremetrics.PlanEvent) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return nil
}

func (r *recordingSink) recorded() []coremetrics.PlanEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]coremetrics.PlanEvent(nil), r.events...)
}

func TestMultiSinkFansOut(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordPlan(coremetrics.PlanEvent{PlanID: "p1"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("both sinks must receive the event")
	}
}

func TestMultiSinkReturnsFirstError(t *testing.T) {
	a := &recordingSink{err: fmt.Errorf("boom")}
	b := &recordingSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordPlan(coremetrics.PlanEvent{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewSinksDefaultsToNop(t *testing.T) {
	sink, err := NewSinks(coremetrics.Config{})
	if err != nil {
		t.Fatalf("new sinks: %v", err)
	}
	if _, ok := sink.(coremetrics.NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", sink)
	}
}

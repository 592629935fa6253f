package metrics

import (
	"context"
	"testing"
	"time"

	coremetrics "github.com/voltsched/greencharge/core/metrics"
	"github.com/voltsched/greencharge/infra/logger"
	"github.com/voltsched/greencharge/internal/eventbus"
)

func TestCollectorRecordsPlanEvents(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sink := &recordingSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartCollector(ctx, bus, sink, logger.NopLogger{})
	// Give the collector goroutine a moment to subscribe.
	time.Sleep(10 * time.Millisecond)

	bus.Publish(coremetrics.PlanEvent{PlanID: "p1"})
	bus.Publish("not a plan event")

	deadline := time.After(time.Second)
	for len(sink.recorded()) == 0 {
		select {
		case <-deadline:
			t.Fatalf("event never recorded")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if got := sink.recorded(); got[0].PlanID != "p1" {
		t.Fatalf("got %+v", got[0])
	}
}

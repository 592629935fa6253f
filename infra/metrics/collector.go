package metrics

import (
	"context"

	coremetrics "github.com/voltsched/greencharge/core/metrics"
	"github.com/voltsched/greencharge/infra/logger"
	"github.com/voltsched/greencharge/internal/eventbus"
)

// StartCollector subscribes to the event bus and records plan events on the
// sink. It stops when the context is cancelled.
func StartCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink, log logger.Logger) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if pe, ok := ev.(coremetrics.PlanEvent); ok {
					if err := sink.RecordPlan(pe); err != nil && log != nil {
						log.Errorf("record plan %s: %v", pe.PlanID, err)
					}
				}
			}
		}
	}()
}

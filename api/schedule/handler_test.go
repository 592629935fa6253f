package schedule

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voltsched/greencharge/core/carbon"
	coremetrics "github.com/voltsched/greencharge/core/metrics"
	coreschedule "github.com/voltsched/greencharge/core/schedule"
	"github.com/voltsched/greencharge/core/timeutil"
	"github.com/voltsched/greencharge/infra/logger"
	"github.com/voltsched/greencharge/internal/eventbus"
)

func testScheduler() *coreschedule.Scheduler {
	return coreschedule.New(
		timeutil.WallClock{Hour: 0, Minute: 30},
		timeutil.WallClock{Hour: 7, Minute: 30},
		coreschedule.StaticSeries(carbon.Series{}),
		logger.NopLogger{},
	)
}

func TestHandlerComputesPlan(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()

	h := NewHandler(testScheduler(), bus, logger.NopLogger{})
	body := `{"vehicle_id":"ev-1","ready_by":"07:00","charge_minutes":300,"plug_in":"2019-10-04T18:42:12Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/schedule", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.PlanID)
	require.Equal(t, 300, resp.RequestedMinutes)
	require.Equal(t, 300, resp.ScheduledMinutes)
	require.Equal(t, time.Date(2019, 10, 5, 7, 0, 0, 0, time.UTC), resp.Deadline)
	require.NotEmpty(t, resp.Periods)
	var total time.Duration
	for _, p := range resp.Periods {
		total += p.End.Sub(p.Start)
	}
	require.Equal(t, 300*time.Minute, total)

	select {
	case ev := <-sub:
		pe, ok := ev.(coremetrics.PlanEvent)
		require.True(t, ok, "expected a PlanEvent, got %T", ev)
		require.Equal(t, resp.PlanID, pe.PlanID)
		require.Equal(t, "ev-1", pe.VehicleID)
		require.Equal(t, coremetrics.OutcomeOffPeak, pe.Outcome)
	default:
		t.Fatalf("no plan event published")
	}

	select {
	case ev := <-sub:
		pc, ok := ev.(coreschedule.PlanComputed)
		require.True(t, ok, "expected a PlanComputed, got %T", ev)
		require.Equal(t, "ev-1", pc.VehicleID)
		require.Equal(t, resp.PlanID, pc.Plan.ID)
	default:
		t.Fatalf("no plan computed event published")
	}
}

func TestHandlerOffPeakOverride(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()

	h := NewHandler(testScheduler(), bus, logger.NopLogger{})
	body := `{"vehicle_id":"ev-2","ready_by":"07:00","charge_minutes":300,"plug_in":"2019-10-04T18:42:12Z","off_peak_start":"01:00","off_peak_end":"02:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/schedule", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, 300, resp.ScheduledMinutes)

	// The one-hour override window cannot hold five hours of charge, so the
	// plan spills into peak time and the event reports a mixed outcome.
	ev := <-sub
	pe, ok := ev.(coremetrics.PlanEvent)
	require.True(t, ok, "expected a PlanEvent, got %T", ev)
	require.Equal(t, coremetrics.OutcomeMixed, pe.Outcome)
}

func TestHandlerRejectsBadInput(t *testing.T) {
	h := NewHandler(testScheduler(), nil, logger.NopLogger{})
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"bad ready_by", `{"ready_by":"25:99","charge_minutes":60,"plug_in":"2019-10-04T18:42:12Z"}`},
		{"negative minutes", `{"ready_by":"07:00","charge_minutes":-5,"plug_in":"2019-10-04T18:42:12Z"}`},
		{"missing plug_in", `{"ready_by":"07:00","charge_minutes":60}`},
		{"lone off_peak_start", `{"ready_by":"07:00","charge_minutes":60,"plug_in":"2019-10-04T18:42:12Z","off_peak_start":"01:00"}`},
		{"bad off_peak_end", `{"ready_by":"07:00","charge_minutes":60,"plug_in":"2019-10-04T18:42:12Z","off_peak_start":"01:00","off_peak_end":"99:00"}`},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/schedule", strings.NewReader(c.body))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, c.name)
	}
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	h := NewHandler(testScheduler(), nil, logger.NopLogger{})
	req := httptest.NewRequest(http.MethodGet, "/api/schedule", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/voltsched/greencharge/core/schedule"
	"github.com/voltsched/greencharge/core/timeutil"
	"github.com/voltsched/greencharge/infra/forecast"
	"github.com/voltsched/greencharge/infra/logger"
)

var planFlags struct {
	readyBy       string
	chargeMinutes int
	plugIn        string
	offPeakStart  string
	offPeakEnd    string
	feedPath      string
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute a one-off charging plan and print it as JSON",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planFlags.readyBy, "ready-by", "07:00", "time the car must be charged by (HH:MM)")
	planCmd.Flags().IntVar(&planFlags.chargeMinutes, "minutes", 300, "required charging minutes")
	planCmd.Flags().StringVar(&planFlags.plugIn, "plug-in", "", "plug-in timestamp (RFC 3339), defaults to now")
	planCmd.Flags().StringVar(&planFlags.offPeakStart, "off-peak-start", "00:30", "off-peak window start (HH:MM)")
	planCmd.Flags().StringVar(&planFlags.offPeakEnd, "off-peak-end", "07:30", "off-peak window end (HH:MM)")
	planCmd.Flags().StringVar(&planFlags.feedPath, "feed", "", "carbon intensity feed JSON file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	readyBy, err := timeutil.ParseWallClock(planFlags.readyBy)
	if err != nil {
		return fmt.Errorf("--ready-by: %w", err)
	}
	start, err := timeutil.ParseWallClock(planFlags.offPeakStart)
	if err != nil {
		return fmt.Errorf("--off-peak-start: %w", err)
	}
	end, err := timeutil.ParseWallClock(planFlags.offPeakEnd)
	if err != nil {
		return fmt.Errorf("--off-peak-end: %w", err)
	}
	plugIn := time.Now().UTC()
	if planFlags.plugIn != "" {
		plugIn, err = time.Parse(time.RFC3339, planFlags.plugIn)
		if err != nil {
			return fmt.Errorf("--plug-in: %w", err)
		}
	}

	var source schedule.ForecastSource
	if planFlags.feedPath != "" {
		series, err := forecast.LoadFile(planFlags.feedPath)
		if err != nil {
			return err
		}
		source = schedule.StaticSeries(series)
	}

	sched := schedule.New(start, end, source, logger.New("plan"))
	plan, err := sched.Plan(cmd.Context(), plugIn, readyBy, time.Duration(planFlags.chargeMinutes)*time.Minute)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

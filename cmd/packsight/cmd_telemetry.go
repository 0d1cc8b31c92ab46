package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"packsight/cmd/packsight/ui"
	"packsight/internal/logging"
	"packsight/internal/pack"
	"packsight/internal/telemetry"
)

var (
	telemetryTrack  string
	telemetryWidth  int
	telemetryHeight int
)

// telemetryCmd renders one telemetry track as a terminal chart
var telemetryCmd = &cobra.Command{
	Use:   "telemetry [pack.json]",
	Short: "Render a pack's GPU telemetry as a terminal chart",
	Long: `Normalizes one telemetry track (power draw, utilization,
temperature against time) and renders it as a fixed-size chart.
Samples below the 70% utilization floor or above 85% of the power
limit are flagged.

Example:
  packsight telemetry runs/h100.json --track omega`,
	Args: cobra.ExactArgs(1),
	RunE: runTelemetry,
}

func init() {
	telemetryCmd.Flags().StringVar(&telemetryTrack, "track", "", "Track to plot (default: from config)")
	telemetryCmd.Flags().IntVar(&telemetryWidth, "width", 0, "Chart width in cells (default: from config)")
	telemetryCmd.Flags().IntVar(&telemetryHeight, "height", 0, "Chart height in cells (default: from config)")
}

func runTelemetry(cmd *cobra.Command, args []string) error {
	p, err := pack.Load(args[0])
	if err != nil {
		return err
	}

	track := telemetryTrack
	if track == "" {
		track = cfg.Plot.DefaultTrack
	}
	dims := telemetry.Dims{Width: cfg.Plot.Width, Height: cfg.Plot.Height}
	if telemetryWidth > 0 {
		dims.Width = telemetryWidth
	}
	if telemetryHeight > 0 {
		dims.Height = telemetryHeight
	}

	styles := ui.DefaultStyles()
	plot, err := telemetry.Normalize(p, track, dims)
	if err != nil {
		fmt.Println(ui.RenderChartError(track, err, styles))
		if names := telemetry.TrackNames(p); len(names) > 0 {
			fmt.Println(styles.Muted.Render("available tracks: " + strings.Join(names, ", ")))
		}
		return err
	}

	logging.Telemetry("plotted track %s: %s", track, plot.Status())
	fmt.Println(styles.Title.Render(fmt.Sprintf("Telemetry: %s", track)))
	fmt.Println(ui.RenderChart(plot, styles))
	return nil
}

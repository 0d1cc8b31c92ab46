package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"packsight/cmd/packsight/ui"
	"packsight/internal/compare"
	"packsight/internal/logging"
	"packsight/internal/pack"
)

// compareCmd compares two packs side A against side B
var compareCmd = &cobra.Command{
	Use:   "compare [packA.json] [packB.json]",
	Short: "Compare two evidence packs metric by metric",
	Long: `Resolves the fixed metric catalog on both packs and prints one row
per variant/metric with the signed delta (B minus A) and a win/lose/tie
verdict. Metrics absent on either side render without a verdict.

Example:
  packsight compare runs/h100.json runs/a100.json`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	a, err := pack.Load(args[0])
	if err != nil {
		return fmt.Errorf("side A: %w", err)
	}
	b, err := pack.Load(args[1])
	if err != nil {
		return fmt.Errorf("side B: %w", err)
	}

	logger.Debug("comparing packs",
		zap.String("a", args[0]),
		zap.String("b", args[1]))
	logging.Compare("compare %s vs %s", args[0], args[1])

	res := compare.Compare(a, b)
	styles := ui.DefaultStyles()

	tbl := ui.NewTable("", "metric", "A", "B", "delta", "verdict")
	tbl.SetAligns(ui.AlignLeft, ui.AlignRight, ui.AlignRight, ui.AlignRight, ui.AlignLeft)
	for _, row := range res.Rows {
		tbl.AddRow(
			labelWithUnit(row),
			operandText(row.TextA, row.ValueA),
			operandText(row.TextB, row.ValueB),
			signedDelta(row.Delta),
			row.Class.String(),
		)
	}
	fmt.Print(tbl.View(styles))

	for _, hint := range res.Hints {
		fmt.Println(styles.Warn.Render(fmt.Sprintf(
			"note: side %s top-1 accuracy %.4f below exact", hint.Side, hint.Accuracy)))
	}
	return nil
}

func labelWithUnit(row compare.Row) string {
	if row.Unit == "" {
		return row.Label
	}
	return fmt.Sprintf("%s (%s)", row.Label, row.Unit)
}

func operandText(text string, value *float64) string {
	if text != "" {
		return text
	}
	if value == nil {
		return "-"
	}
	return trimFloat(*value)
}

func signedDelta(delta *float64) string {
	if delta == nil {
		return ""
	}
	return fmt.Sprintf("%+.2f", *delta)
}

func trimFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

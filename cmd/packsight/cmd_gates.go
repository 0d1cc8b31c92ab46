package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"packsight/cmd/packsight/ui"
	"packsight/internal/gates"
	"packsight/internal/logging"
	"packsight/internal/pack"
)

// gatesCmd evaluates the engineering gates of a single pack
var gatesCmd = &cobra.Command{
	Use:   "gates [pack.json]",
	Short: "Evaluate the engineering gates of a pack",
	Long: `Evaluates the fixed gate set against one pack:

  exactness    both variants reach top-1 accuracy 1.0
  utilization  omega GPU utilization at or above 70%
  power        omega average power within 85% of the board limit
  memoization  memoization energy ratio meets its floor

Exits non-zero when any gate fails; warnings alone do not fail the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runGates,
}

func runGates(cmd *cobra.Command, args []string) error {
	p, err := pack.Load(args[0])
	if err != nil {
		return err
	}

	results := gates.Evaluate(p)
	styles := ui.DefaultStyles()

	tbl := ui.NewTable("", "gate", "status", "detail")
	var failed []string
	for _, name := range gates.Names {
		g := results[name]
		style := styles.Pass
		switch g.Status {
		case gates.StatusFail:
			style = styles.Fail
			failed = append(failed, g.Name)
		case gates.StatusWarn:
			style = styles.Warn
		}
		tbl.AddStyledRow(
			ui.Cell{Text: g.Name},
			ui.Cell{Text: strings.ToUpper(string(g.Status)), Style: &style},
			ui.Cell{Text: g.Detail},
		)
		logging.Gates("%s: %s (%s)", g.Name, g.Status, g.Detail)
	}
	fmt.Print(tbl.View(styles))

	if len(failed) > 0 {
		logger.Warn("gates failed", zap.Strings("gates", failed))
		return fmt.Errorf("gates failed: %s", strings.Join(failed, ", "))
	}
	return nil
}

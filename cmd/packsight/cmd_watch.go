package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"packsight/cmd/packsight/ui"
	"packsight/internal/gates"
	"packsight/internal/session"
)

// watchCmd re-audits a pack whenever its file changes
var watchCmd = &cobra.Command{
	Use:   "watch [pack.json]",
	Short: "Watch a pack file and re-evaluate its gates on change",
	Long: `Loads the pack, prints its gate verdicts, then watches the file and
re-evaluates on every write. A rewrite that fails to parse keeps the
last good pack loaded. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	sess := session.New()
	p, err := sess.Load(session.SlotCurrent, args[0])
	if err != nil {
		return err
	}

	styles := ui.DefaultStyles()
	printGateSummary(p.GPUName(), gates.Evaluate(p), styles)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("watching pack",
		zap.String("session", sess.ID),
		zap.String("path", args[0]))
	fmt.Println(styles.Muted.Render("watching " + args[0] + " (Ctrl+C to stop)"))

	err = sess.Watch(ctx, session.SlotCurrent, func(res session.LoadResult) {
		if res.Err != nil {
			fmt.Println(styles.Fail.Render(fmt.Sprintf("reload failed: %v (keeping last good pack)", res.Err)))
			return
		}
		printGateSummary(res.Pack.GPUName(), gates.Evaluate(res.Pack), styles)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printGateSummary(gpu string, results map[string]gates.Gate, styles ui.Styles) {
	fmt.Println(styles.Title.Render("GPU: " + gpu))
	for _, name := range gates.Names {
		g := results[name]
		style := styles.Pass
		switch g.Status {
		case gates.StatusFail:
			style = styles.Fail
		case gates.StatusWarn:
			style = styles.Warn
		}
		fmt.Printf("  %s %-12s %s\n", style.Render(string(g.Status)), g.Name, g.Detail)
	}
}

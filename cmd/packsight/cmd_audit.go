package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"packsight/cmd/packsight/tui"
	"packsight/internal/session"
)

// auditCmd launches the interactive audit interface
var auditCmd = &cobra.Command{
	Use:   "audit [pack.json]",
	Short: "Open the interactive audit interface",
	Long: `Starts the full-screen audit interface: engineering gates, the
telemetry chart and the A/B comparison view.

An optional pack path is preloaded into the audit slot; further packs
can be opened from inside the interface.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	sess := session.New()
	if len(args) == 1 {
		if _, err := sess.Load(session.SlotCurrent, args[0]); err != nil {
			return fmt.Errorf("preload %s: %w", args[0], err)
		}
	}

	m := tui.NewModel(cfg, sess, resolveWorkspace())
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("audit interface: %w", err)
	}
	return nil
}

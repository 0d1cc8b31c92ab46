package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"packsight/internal/config"
)

// initCmd initializes packsight in the current workspace
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize packsight in the current workspace",
	Long: `Writes the default configuration to .packsight/config.yaml so chart
geometry, the default telemetry track, export directory and logging can
be adjusted. Running against an already-initialized workspace is a
no-op.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath(resolveWorkspace())
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Workspace already initialized (%s)\n", path)
		return nil
	}

	if err := config.Default().Save(path); err != nil {
		return fmt.Errorf("initialize workspace: %w", err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

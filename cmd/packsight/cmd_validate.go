package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"packsight/cmd/packsight/ui"
	"packsight/internal/pack"
)

// validateCmd checks a pack against the public summary schema
var validateCmd = &cobra.Command{
	Use:   "validate [pack.json]",
	Short: "Validate a pack against the public summary schema",
	Long: `Checks the schema tag, required metric fields, accuracy bounds,
disclaimers and telemetry series shapes. Prints one finding per line
and exits non-zero when any finding is reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	styles := ui.DefaultStyles()
	findings := pack.Validate(data)
	if len(findings) == 0 {
		fmt.Println(styles.Pass.Render("OK") + " " + args[0])
		return nil
	}

	for _, f := range findings {
		fmt.Println(styles.Fail.Render("FAIL") + " " + f)
	}
	return fmt.Errorf("%d finding(s) in %s", len(findings), args[0])
}

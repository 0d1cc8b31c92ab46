package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"packsight/internal/session"
)

var exportOut string

// exportCmd writes a dated audit receipt for a pack
var exportCmd = &cobra.Command{
	Use:   "export [pack.json]",
	Short: "Export a pack as a dated audit receipt",
	Long: `Re-emits the pack as a pretty-printed verbatim echo named
pack_audit_YYYY-MM-DD.json. Nothing is stripped or rewritten; the
receipt records exactly what was audited.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output directory (default: from config)")
}

func runExport(cmd *cobra.Command, args []string) error {
	sess := session.New()
	if _, err := sess.Load(session.SlotCurrent, args[0]); err != nil {
		return err
	}

	dir := exportOut
	if dir == "" {
		dir = cfg.Export.Dir
	}

	path, err := sess.Export(session.SlotCurrent, dir, time.Now())
	if err != nil {
		return err
	}

	logger.Info("exported audit receipt",
		zap.String("session", sess.ID),
		zap.String("path", path))
	fmt.Println(path)
	return nil
}

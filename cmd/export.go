package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pittawat/chatcore/internal"
	"github.com/pittawat/chatcore/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat    string
	exportOutputDir string
	exportSessionID string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to file",
	Long: `Export chat sessions to various formats (jsonl, md, yaml, json).

You can export all sessions of the current identity or a single session by
ID. Use 'chatcore list' to see available session IDs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		var sessions []internal.Session
		if exportSessionID != "" {
			sess, err := env.store.Get(env.namespace, exportSessionID)
			if err != nil {
				return fmt.Errorf("failed to load session %s: %w", exportSessionID, err)
			}
			sessions = []internal.Session{sess}
		} else {
			sessions, err = env.store.List(env.namespace)
			if err != nil {
				return fmt.Errorf("failed to load sessions: %w", err)
			}
		}

		if len(sessions) == 0 {
			internal.PrintWarning("Nothing to export")
			return nil
		}

		if err := os.MkdirAll(exportOutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		for i := range sessions {
			sess := sessions[i]
			name := fmt.Sprintf("session_%s.%s", sess.ID, exporter.Extension())
			path := filepath.Join(exportOutputDir, name)

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := exporter.Export(&sess, f); err != nil {
				f.Close()
				return fmt.Errorf("failed to export session %s: %w", sess.ID, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			internal.LogInfo("Exported %s", path)
		}

		internal.PrintSuccess(fmt.Sprintf("Exported %d session(s) to %s", len(sessions), exportOutputDir))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: jsonl, md, yaml, json")
	exportCmd.Flags().StringVarP(&exportOutputDir, "output", "o", ".", "Output directory")
	exportCmd.Flags().StringVarP(&exportSessionID, "session", "s", "", "Export a single session by ID")
	rootCmd.AddCommand(exportCmd)
}

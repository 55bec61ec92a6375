package cmd

import (
	"fmt"
	"strings"

	"github.com/pittawat/chatcore/internal"
	"github.com/spf13/cobra"
)

// renameCmd represents the rename command
var renameCmd = &cobra.Command{
	Use:   "rename <session-id> <new-title>",
	Short: "Rename a session",
	Long: `Set a session's title. The title keeps its place in the list; renaming
does not move the session to the front. An empty title is ignored.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		sessionID := args[0]
		newTitle := strings.Join(args[1:], " ")

		if err := env.store.Rename(env.namespace, sessionID, newTitle); err != nil {
			return fmt.Errorf("failed to rename session %s: %w", sessionID, err)
		}
		if strings.TrimSpace(newTitle) == "" {
			internal.PrintWarning("Empty title ignored")
			return nil
		}
		internal.PrintSuccess(fmt.Sprintf("Renamed %s to %q", sessionID, strings.TrimSpace(newTitle)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pittawat/chatcore/internal"
	"github.com/spf13/cobra"
)

var showRaw bool

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	thinkingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true).
			Padding(0, 2)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show messages for a specific session",
	Long: `Display messages from a specific chat session.

Assistant messages that carried a thinking segment show it as a dimmed
section above the answer. Use --raw to skip styling.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		sess, err := env.store.Get(env.namespace, args[0])
		if err != nil {
			return fmt.Errorf("failed to load session %s: %w", args[0], err)
		}

		if showRaw {
			printSessionRaw(sess)
			return nil
		}

		fmt.Println(sessionHeaderStyle.Render(sess.Title))
		fmt.Println(sessionMetaStyle.Render(fmt.Sprintf("Session %s · %d messages · updated %s",
			sess.ID, len(sess.Messages), sess.UpdatedAt.Format("2006-01-02 15:04"))))

		for _, msg := range sess.Messages {
			if msg.Role == internal.RoleUser {
				fmt.Println(userMessageStyle.Render("You") +
					sessionMetaStyle.Render(" ("+msg.CreatedAt.Format("15:04")+")"))
			} else {
				fmt.Println(assistantMessageStyle.Render("Assistant") +
					sessionMetaStyle.Render(" ("+msg.CreatedAt.Format("15:04")+")"))
			}

			if msg.Thinking != nil {
				fmt.Println(thinkingStyle.Render(renderThinking(*msg.Thinking)))
			}
			fmt.Println(messageContentStyle.Render(msg.Content))
			for _, image := range msg.Images {
				fmt.Println(messageContentStyle.Render("[image] " + image))
			}
		}
		return nil
	},
}

// renderThinking decorates the thinking section; an empty segment still
// shows as a present-but-empty section
func renderThinking(thinking string) string {
	if thinking == "" {
		return "· thinking (empty)"
	}
	var sb strings.Builder
	sb.WriteString("· thinking\n")
	for _, line := range strings.Split(thinking, "\n") {
		sb.WriteString("  " + line + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// printSessionRaw prints the session without any styling
func printSessionRaw(sess internal.Session) {
	fmt.Printf("Session %s: %s\n\n", sess.ID, sess.Title)
	for _, msg := range sess.Messages {
		fmt.Printf("[%s] %s\n", msg.Role, msg.CreatedAt.Format("2006-01-02 15:04:05"))
		if msg.Thinking != nil {
			fmt.Printf("  (thinking) %s\n", *msg.Thinking)
		}
		fmt.Println("  " + strings.ReplaceAll(msg.Content, "\n", "\n  "))
		fmt.Println()
	}
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print without styling")
	rootCmd.AddCommand(showCmd)
}

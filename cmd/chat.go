package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pittawat/chatcore/internal"
	"github.com/spf13/cobra"
)

var (
	chatSessionID string
	chatModel     string
	chatNoStream  bool
)

var (
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	answerLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("135"))

	chatThinkingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Italic(true)
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat",
	Long: `Chat with the configured completion backend.

Each exchange is persisted as it happens: your message before the request
goes out, the assistant's answer once the response completes. Failures show
up as Error: messages in the history so you can simply retry.

Commands inside the chat:
  /new     start a new session
  /exit    leave the chat (also Ctrl+D)

Press Ctrl+C to cancel an in-flight response.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		cfg := env.cfg
		if chatModel != "" {
			cfg.Model = chatModel
		}
		if chatNoStream {
			cfg.Stream = false
		}

		client := internal.NewChatClient(cfg)
		usage := internal.NewUsageLogger(env.backend.DB())
		pipeline := internal.NewMessagePipeline(env.store, client, usage, cfg, env.identity)

		if chatSessionID != "" {
			if err := pipeline.LoadSession(chatSessionID); err != nil {
				return fmt.Errorf("failed to resume session %s: %w", chatSessionID, err)
			}
			for _, msg := range pipeline.Messages() {
				printStoredMessage(msg)
			}
		}

		// Ctrl+C cancels the in-flight send instead of killing the chat
		interrupts := make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt)
		defer signal.Stop(interrupts)
		go func() {
			for range interrupts {
				pipeline.Cancel()
			}
		}()

		fmt.Printf("Chatting as %s (model %s). /exit to quit.\n\n", pipeline.Namespace(), cfg.Model)

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(promptStyle.Render("you>") + " ")
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())

			switch line {
			case "":
				continue
			case "/exit", "/quit":
				return nil
			case "/new":
				if err := pipeline.NewChat(); err != nil {
					internal.PrintWarning("Still busy, try again")
					continue
				}
				fmt.Println("Started a new session.")
				continue
			}

			if err := runExchange(pipeline, cfg, line); err != nil {
				// The pipeline already persisted a visible error message;
				// anything else is worth surfacing.
				var terr *internal.TransportError
				if !errors.As(err, &terr) &&
					!errors.Is(err, context.Canceled) &&
					!errors.Is(err, internal.ErrBusy) &&
					!errors.Is(err, internal.ErrEmptyMessage) {
					return err
				}
			}
		}
	},
}

// runExchange sends one message and renders the response as it arrives
func runExchange(pipeline *internal.MessagePipeline, cfg internal.Config, text string) error {
	ctx := context.Background()

	fmt.Print(answerLabelStyle.Render("assistant>") + " ")

	if !cfg.Stream {
		var msg internal.Message
		err := internal.ShowProgress(ctx, "waiting for response", func() error {
			var sendErr error
			msg, sendErr = pipeline.Send(ctx, text, nil)
			return sendErr
		})
		if err != nil && msg.Content == "" {
			fmt.Println()
			return err
		}
		printAssistantBody(msg.Thinking, msg.Content)
		return err
	}

	// Streamed rendering appends deltas while the visible text grows. The
	// one moment it does not grow is when a thought region closes and the
	// split view replaces the raw buffer; re-render from scratch then.
	printed := ""
	_, err := pipeline.Send(ctx, text, func(u internal.Update) {
		if strings.HasPrefix(u.Main, printed) {
			fmt.Print(u.Main[len(printed):])
		} else {
			fmt.Println()
			printAssistantBody(u.Thinking, u.Main)
		}
		printed = u.Main
	})
	fmt.Println()
	if errors.Is(err, context.Canceled) {
		internal.PrintWarning("Response cancelled; nothing was saved for it")
	}
	return err
}

// printAssistantBody prints a thinking section (when present) and the answer
func printAssistantBody(thinking *string, content string) {
	if thinking != nil {
		label := *thinking
		if label == "" {
			label = "(empty)"
		}
		fmt.Println(chatThinkingStyle.Render("thinking: " + label))
	}
	fmt.Println(content)
}

// printStoredMessage echoes a persisted message when resuming a session
func printStoredMessage(msg internal.Message) {
	if msg.Role == internal.RoleUser {
		fmt.Println(promptStyle.Render("you>") + " " + msg.Content)
		return
	}
	fmt.Print(answerLabelStyle.Render("assistant>") + " ")
	printAssistantBody(msg.Thinking, msg.Content)
}

func init() {
	chatCmd.Flags().StringVarP(&chatSessionID, "session", "s", "", "Resume an existing session by ID")
	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "Override the configured model")
	chatCmd.Flags().BoolVar(&chatNoStream, "no-stream", false, "Use the single-response mode instead of streaming")
	rootCmd.AddCommand(chatCmd)
}

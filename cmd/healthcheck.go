package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pittawat/chatcore/internal"
	"github.com/spf13/cobra"
)

var healthcheckDetails bool

var (
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check configuration, session storage, and endpoint reachability",
	Long: `Check the health of chatcore by verifying:
  • Config file loads (or defaults apply)
  • Session database opens and its schema is intact
  • Stored sessions are readable for the active identity
  • The chat endpoint is reachable

Useful for debugging setup problems before starting a chat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("🔍 chatcore Health Check"))
		fmt.Println()

		// Step 1: config
		fmt.Println(stepStyle.Render("Step 1: Loading configuration..."))
		path := configPath
		if path == "" {
			path = internal.DefaultConfigPath()
		}
		cfg, err := internal.LoadConfig(path)
		if err != nil {
			fmt.Println(failStyle.Render("❌ Failed to load config:"), err)
			return fmt.Errorf("health check failed: config unreadable")
		}
		fmt.Println(okStyle.Render("✅ Configuration loaded"))
		if healthcheckDetails {
			fmt.Printf("   Config file: %s\n", path)
			fmt.Printf("   Endpoint:    %s\n", cfg.Endpoint)
			fmt.Printf("   Model:       %s\n", cfg.Model)
			fmt.Printf("   Storage:     %s\n", cfg.StoragePath)
		}
		if cfg.APIKey == "" {
			fmt.Println(warnStyle.Render("⚠️  No API key configured (set api_key or CHATCORE_API_KEY)"))
		}
		fmt.Println()

		// Step 2: storage
		fmt.Println(stepStyle.Render("Step 2: Opening session database..."))
		if dbPath != "" {
			cfg.StoragePath = dbPath
		}
		backend, err := internal.OpenSQLiteBackend(cfg.StoragePath)
		if err != nil {
			fmt.Println(failStyle.Render("❌ Failed to open session database:"), err)
			return fmt.Errorf("health check failed: storage unavailable")
		}
		defer func() { _ = backend.Close() }()
		fmt.Println(okStyle.Render("✅ Session database open"))
		fmt.Println()

		// Step 3: stored sessions
		fmt.Println(stepStyle.Render("Step 3: Reading stored sessions..."))
		var identity *internal.Identity
		if asIdentity != "" {
			identity = &internal.Identity{Email: asIdentity}
		}
		namespace := internal.DeriveNamespace(identity)
		store := internal.NewSessionStore(backend)
		sessions, err := store.List(namespace)
		if err != nil {
			fmt.Println(failStyle.Render("❌ Failed to read sessions:"), err)
			return fmt.Errorf("health check failed: sessions unreadable")
		}
		if len(sessions) > 0 {
			fmt.Println(okStyle.Render(fmt.Sprintf("✅ Found %d session(s) for %s", len(sessions), namespace)))
			if healthcheckDetails {
				for i, sess := range sessions {
					if i >= 5 {
						fmt.Printf("   ... and %d more\n", len(sessions)-5)
						break
					}
					fmt.Printf("   [%d] %s (ID: %s)\n", i+1, sess.Title, sess.ID)
				}
			}
		} else {
			fmt.Println(warnStyle.Render(fmt.Sprintf("⚠️  No sessions stored yet for %s", namespace)))
		}
		fmt.Println()

		// Step 4: endpoint
		fmt.Println(stepStyle.Render("Step 4: Checking endpoint reachability..."))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		endpointUp := true
		if err := internal.NewChatClient(cfg).Ping(ctx); err != nil {
			endpointUp = false
			fmt.Println(warnStyle.Render("⚠️  Endpoint not reachable:"), err)
			fmt.Printf("   Configured endpoint: %s\n", cfg.Endpoint)
		} else {
			fmt.Println(okStyle.Render("✅ Endpoint reachable"))
		}
		fmt.Println()

		// Summary
		fmt.Println(sectionStyle.Render("📊 Summary"))
		fmt.Println()
		if endpointUp {
			fmt.Println(okStyle.Render("✅ Health check passed!"))
			fmt.Println(okStyle.Render("   • Storage: Available"))
			fmt.Println(okStyle.Render(fmt.Sprintf("   • Sessions: %d found", len(sessions))))
			fmt.Println(okStyle.Render("   • Endpoint: Reachable"))
			return nil
		}
		fmt.Println(warnStyle.Render("⚠️  Storage is healthy but the endpoint is not reachable"))
		fmt.Println("   • Sessions can be listed, shown, and exported")
		fmt.Println("   • Chatting will fail until the endpoint is up")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVar(&healthcheckDetails, "details", false, "Show detailed diagnostic information")
}

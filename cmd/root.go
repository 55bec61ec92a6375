package cmd

import (
	"fmt"
	"os"

	"github.com/pittawat/chatcore/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	dbPath     string
	asIdentity string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatcore",
	Short: "Chat with a completion backend and manage your chat sessions",
	Long: `A chat client that keeps your conversations in a local session store.

Sessions are stored per identity (guest by default) in a local SQLite
database and ordered most-recently-used first. Responses may arrive as a
single JSON payload or as a stream of text chunks; either way the thinking
process of reasoning models is separated from the visible answer.

Quick Start:
  chatcore chat                     # Start an interactive chat
  chatcore list                     # List your sessions
  chatcore show <session-id>        # View one session
  chatcore export --format md       # Export sessions as Markdown

Use --as <id> to act as an authenticated identity instead of the guest.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.chatcore/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Session database file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&asIdentity, "as", "", "Act as this identity (e.g. an email); empty means guest")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// cliEnv bundles everything a command needs: config, open storage, and the
// namespace derived from the --as identity
type cliEnv struct {
	cfg       internal.Config
	backend   *internal.SQLiteBackend
	store     *internal.SessionStore
	identity  *internal.Identity
	namespace string
}

// openEnv loads config and opens the session database
func openEnv() (*cliEnv, error) {
	path := configPath
	if path == "" {
		path = internal.DefaultConfigPath()
	}
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.StoragePath = dbPath
	}

	backend, err := internal.OpenSQLiteBackend(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	var identity *internal.Identity
	if asIdentity != "" {
		identity = &internal.Identity{Email: asIdentity}
	}

	return &cliEnv{
		cfg:       cfg,
		backend:   backend,
		store:     internal.NewSessionStore(backend),
		identity:  identity,
		namespace: internal.DeriveNamespace(identity),
	}, nil
}

// Close releases the environment's storage
func (e *cliEnv) Close() {
	if err := e.backend.Close(); err != nil {
		internal.LogWarn("Failed to close session database: %v", err)
	}
}

// Package cli implements the gh-freshdesk command line.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/optz/gh-freshdesk/internal/adapters/driven/config"
	"github.com/optz/gh-freshdesk/internal/connectors/freshdesk"
	"github.com/optz/gh-freshdesk/internal/core/ports/driving"
	"github.com/optz/gh-freshdesk/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// AgentLister lists desk agents.
type AgentLister interface {
	ListAgents(ctx context.Context) ([]freshdesk.Agent, error)
}

// Services are the application services the commands drive.
type Services struct {
	Migrator driving.Migrator
	History  driving.JournalReader
	Agents   AgentLister

	// Close releases resources such as the journal database.
	Close func() error
}

// Bootstrap builds the services from configuration.
type Bootstrap func(ctx context.Context, opts config.LoadOptions) (*Services, error)

// Services used by the commands. Tests assign these directly.
var (
	migrator      driving.Migrator
	journalReader driving.JournalReader
	agentLister   AgentLister
	closeServices func() error

	bootstrap Bootstrap
)

var (
	verbose    bool
	envFile    string
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "gh-freshdesk",
	Short: "Turn GitHub issues into Freshdesk tickets",
	Long: `gh-freshdesk creates a Freshdesk ticket for every GitHub issue that has not
been sent yet, then labels the issue so later runs skip it.

Configuration comes from the environment (REPO_OWNER, REPO, GITHUB_TOKEN,
FRESHDESK_BASE_URL, FRESHDESK_API_KEY, FRESHDESK_GROUP_ID, GITHUB_BOT_EMAIL and
one ASSIGNEE_MAP_<login> per assignee), a .env file, or --config.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (TOML, YAML or JSON)")
}

// SetBootstrap registers the function that builds services on demand.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command and releases the services afterwards,
// whether or not the command failed.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	return errors.Join(err, shutdown())
}

func shutdown() error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

// commandContext returns the context of the current execution. Cobra only
// hands the root context to a subcommand whose own context is still nil, so
// a command executed twice would otherwise keep the first one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Root().Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// needsServices marks commands that talk to GitHub or Freshdesk.
const needsServices = "needs-services"

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[needsServices] == "" || migrator != nil || bootstrap == nil {
		return nil
	}

	svc, err := bootstrap(commandContext(cmd), config.LoadOptions{EnvFile: envFile, ConfigFile: configFile})
	if err != nil {
		return err
	}
	migrator = svc.Migrator
	journalReader = svc.History
	agentLister = svc.Agents
	closeServices = svc.Close
	return nil
}

func requireMigrator() error {
	if migrator == nil {
		return errors.New("migration service not configured")
	}
	return nil
}

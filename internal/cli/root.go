package cli

import (
	"encoding/json"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mwork/points-api/internal/client"
	"github.com/mwork/points-api/internal/pkg/logger"
)

const userAgent = "pointsctl/1.0"

// app holds what every subcommand needs once flags and config are resolved.
type app struct {
	configPath string
	serverURL  string
	timeout    string
	verbose    bool

	client *client.Client
}

// NewRootCommand builds the pointsctl command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "pointsctl",
		Short: "Command-line client for the points API",
		Long: `pointsctl records payer transactions, spends points and reads balances
on a running points API. The server URL and timeout come from
~/.pointsctl/config.toml and can be overridden with flags.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to config file (default ~/.pointsctl/config.toml)")
	flags.StringVarP(&a.serverURL, "server", "s", "", "Points API base URL")
	flags.StringVar(&a.timeout, "timeout", "", "Request timeout, e.g. 5s")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log requests to stderr")

	root.AddCommand(
		newTransactionCmd(a),
		newSpendCmd(a),
		newBalancesCmd(a),
		newTransactionsCmd(a),
	)

	return root
}

// Execute runs pointsctl with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level := logger.LogLevelWarn
	if a.verbose {
		level = logger.LogLevelDebug
	}
	logger.Init(logger.Config{
		Level:       level,
		Environment: "development",
		Output:      cmd.ErrOrStderr(),
	})

	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if err := a.applyFlags(&cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Debug().
		Str("server", cfg.ServerURL).
		Dur("timeout", cfg.Timeout).
		Msg("pointsctl configured")

	a.client = client.NewClient(cfg.ServerURL, cfg.Timeout, userAgent)
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

/*
main.go - Application entry point

PURPOSE:
  The scenario command: runs the API server, simulates scenario files,
  lints them and shows the built-in presets.

COMMANDS:
  serve            Start the HTTP API
  run <file>       Simulate a JSON or YAML scenario file
  lint <file>...   Report suspicious scenario shapes
  presets          List, run or export built-in scenarios
  version          Print the version

CONFIGURATION:
  Flags > SCENARIO_* environment (.env is loaded first) > config file >
  defaults. See config/config.go for the keys.

GRACEFUL SHUTDOWN:
  SIGINT/SIGTERM cancel the command context. serve drains in-flight
  requests (30s timeout) before closing the store.

EXAMPLES:
  scenario serve --db=":memory:"
  scenario run plan.yaml --start 2025-01 --end 2026-12 --initial 5000
  scenario presets run savings-goal --output json

SEE ALSO:
  - config/config.go: configuration keys
  - api/server.go: router
*/
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/warp/scenario-engine/config"
)

var version = "dev"

// app carries state resolved once in PersistentPreRunE.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "scenario",
		Short: "Month-by-month personal finance scenario simulator",
		Long: `scenario projects balances month by month from declarative income and
expense events. Events can be one-off, monthly or yearly, and can be gated on
dates, on the running balance, or on other events having happened.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	// Global flags
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./config.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "console", "log format (console, json)")

	root.AddCommand(serveCmd(a))
	root.AddCommand(runCmd(a))
	root.AddCommand(lintCmd())
	root.AddCommand(presetsCmd(a))
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	"logging.level":           "log-level",
	"logging.format":          "log-format",
	"server.port":             "port",
	"database.backend":        "backend",
	"database.path":           "db",
	"simulation.max_parallel": "parallel",
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	// .env is optional
	_ = godotenv.Load()

	a.v = config.NewViper(a.cfgFile)
	if err := bindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := config.NewLogger(cfg.Logging, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	a.logger = logger
	slog.SetDefault(logger)
	return nil
}

// bindFlags binds whichever of the known flags the command defines.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scenario %s\n", version)
		},
	}
}

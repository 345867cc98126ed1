package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"happydash.dev/internal/app"
	"happydash.dev/internal/appconf"
	"happydash.dev/internal/happiness"
	"happydash.dev/internal/logging"
	"happydash.dev/internal/metrics"
)

// globalOptions are the flags every subcommand shares.
type globalOptions struct {
	configPath string
	dataPath   string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "happydash",
		Short: "Country happiness dashboard",
		Long: `happydash ranks countries from the merged World Happiness Report and
cost-of-living dataset. It serves an interactive dashboard and JSON API, and can
print rankings or render charts from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&opts.dataPath, "data", "", "Path to the happiness CSV (default from config, else data/happiness.csv)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: json or text")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newRankCmd(opts))
	rootCmd.AddCommand(newRenderCmd(opts))
	return rootCmd
}

// loadConfig layers the config file, if any, over the defaults, then applies
// the shared flags that were set explicitly.
func (opts *globalOptions) loadConfig(cmd *cobra.Command) (appconf.Config, error) {
	config := appconf.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if config, err = appconf.LoadFile(opts.configPath); err != nil {
			return appconf.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		config.DataPath = opts.dataPath
	}
	if flags.Changed("log-level") {
		config.LogLevel = opts.logLevel
	}
	if flags.Changed("log-format") {
		config.LogFormat = opts.logFormat
	}
	return config, nil
}

func newLogger(w io.Writer, config appconf.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(w, config.LogFormat, level)
}

// newApplication loads the dataset and wires the shared dependencies.
func newApplication(config appconf.Config, logger *slog.Logger) (*app.Application, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	m := metrics.New()
	manager, err := happiness.InitManager(config.ManagerConfig(), logger, m)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	return &app.Application{
		Config:  config,
		Logger:  logger,
		Manager: manager,
		Metrics: m,
	}, nil
}

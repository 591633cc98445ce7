package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taxlien/domaincheck/internal/config"
	"github.com/taxlien/domaincheck/internal/logger"
)

var rootFlags struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	Verbose    bool
}

var rootCmd = &cobra.Command{
	Use:   "domaincheck",
	Short: "Domaincheck looks up WHOIS and DNS information for domains",
	Long: `A command-line tool for checking domain registration status, expiration
dates, and DNS records, singly or in concurrent batches.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrDefault(rootFlags.ConfigPath)
		if err != nil {
			return err
		}
		if rootFlags.Verbose {
			cfg.Log.Level = "debug"
		}
		if rootFlags.LogLevel != "" {
			cfg.Log.Level = rootFlags.LogLevel
		}
		if rootFlags.LogFormat != "" {
			cfg.Log.Format = rootFlags.LogFormat
		}
		appCfg = cfg
		appLogger = logger.WithService(logger.NewLogger(logger.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
		}), "domaincheck")
		logger.SetDefault(appLogger)
		return nil
	},
}

// Execute runs the root command. An interrupt cancels the command context so
// in-flight batches stop dispatching and report partial results.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFlags.ConfigPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&rootFlags.LogLevel, "log-level", "", "Log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().StringVar(&rootFlags.LogFormat, "log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.Verbose, "verbose", "v", false, "Enable debug logging and per-domain error detail")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(cacheCmd)
}

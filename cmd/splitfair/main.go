package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmynk/splitfair/internal/config"
	"github.com/mmynk/splitfair/internal/errs"
	"github.com/mmynk/splitfair/pkg/logging"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "splitfair",
		Short: "Group expense ledger and settlement planner",
		Long: `splitfair records shared expenses, tracks who owes whom, and plans
the fewest transfers needed to settle a group.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./splitfair.yaml or $HOME/.config/splitfair/splitfair.yaml)")
	rootCmd.PersistentFlags().String("db", "", "database path (default: ./data/splitfair.db)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Add commands
	rootCmd.AddCommand(groupCmd())
	rootCmd.AddCommand(expenseCmd())
	rootCmd.AddCommand(balancesCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(debtCmd())
}

func main() {
	// Set up signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(exitCode(err))
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(".")
		viper.AddConfigPath(fmt.Sprintf("%s/.config/splitfair", home))
		viper.SetConfigName("splitfair")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("SPLITFAIR")
	viper.SetEnvKeyReplacer(config.EnvKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	config.SetDefaults(viper.GetViper())

	if err := logging.Configure(os.Stderr, viper.GetString("logging.level"), viper.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	slog.Debug("Configuration loaded", "config_file", viper.ConfigFileUsed())
	return nil
}

// exitCode maps error categories to distinct process exit codes.
func exitCode(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return 2
	case errors.Is(err, errs.ErrNotFound):
		return 3
	case errors.Is(err, errs.ErrInvalidState):
		return 4
	case errors.Is(err, errs.ErrPermission):
		return 5
	default:
		return 1
	}
}

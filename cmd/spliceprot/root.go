package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     "spliceprot",
		Short:   "Classify A5SS splicing events and derive their protein consequences",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newClassifyCmd(&verbose))
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig loads ~/.spliceprot.yaml if present and registers the
// tunable defaults.
func initConfig() error {
	viper.SetDefault("thresholds.probability", 0.9)
	viper.SetDefault("thresholds.dpsi", 0.1)
	viper.SetDefault("thresholds.fraction", 0.5)
	viper.SetDefault("align.match", 1)
	viper.SetDefault("align.mismatch", -10)
	viper.SetDefault("align.gap", -10)
	viper.SetDefault("workers", 0)

	home, err := os.UserHomeDir()
	if err != nil {
		return nil // no home directory, defaults only
	}

	viper.SetConfigFile(filepath.Join(home, ".spliceprot.yaml"))
	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults apply.
		if _, ok := err.(*os.PathError); ok || os.IsNotExist(err) {
			return nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// newLogger builds the CLI logger.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}

// Package cli implements the duet command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/duet/internal/config"
	duetErrors "github.com/tessro/duet/internal/errors"
	"github.com/tessro/duet/internal/logger"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "duet",
	Short: "Take turns picking music with an AI listening partner",
	Long: `Duet runs a turn-based listening session on Spotify: you pick a track,
then an AI persona picks one back, and the two of you build a queue together.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.duetrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger.Init(logger.Config{
		Level:      logger.Level(level),
		OutputPath: cfg.Log.File,
	})

	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if msg := duetErrors.Format(err); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}

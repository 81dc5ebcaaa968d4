package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jerryli27/coffee-project/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    bool
	quiet      bool
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "cafe-map",
	Short:         "Enrich a saved coffee-shop list with place data, reviews and a static site",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is normal; credentials may already be exported.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if !cmd.Flags().Changed("data-dir") {
			dataDir = cfg.Data.Dir
		}

		level := slog.LevelInfo
		switch {
		case verbose:
			level = slog.LevelDebug
		case quiet:
			level = slog.LevelWarn
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "data", "Directory for the run database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only show essential information")
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
	}
	return err
}

// say prints progress lines unless --quiet is set.
func say(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bookmarksync/config"
	"bookmarksync/internal/database"
	"bookmarksync/internal/logger"
	"bookmarksync/internal/rules"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:          "bookmarksync",
		Short:        "Keeps bookmarks pointed at the latest matching URL",
		Long:         "bookmarksync watches tab navigations and rewrites bookmarks whose rule matches the visited URL.",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: config.yaml in ./config or .)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(rulesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Setup(cfg.Logging)
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API and the configured navigation sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			app := NewApp(cfg)
			if err := app.Initialize(ctx); err != nil {
				return err
			}
			defer app.Close()

			return app.Run(ctx)
		},
	}
}

// withStore opens the configured rule store for the duration of fn.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, store *rules.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	kv, err := database.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open rule store: %w", err)
	}
	defer kv.Close(ctx)

	return fn(ctx, rules.NewStore(kv))
}

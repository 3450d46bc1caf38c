package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mandalnilabja/gemrelay/internal/app"
	"github.com/mandalnilabja/gemrelay/internal/config"
	"github.com/mandalnilabja/gemrelay/internal/version"
)

var (
	configPath string
	envFile    string
	addr       string
	logLevel   string
	logFormat  string
)

// Execute runs the gemrelay CLI.
func Execute() error {
	root := &cobra.Command{
		Use:          "gemrelay",
		Short:        "Relay frontend chat requests to the Gemini API with a server-side key",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			if configPath == "" {
				configPath = config.ConfigPath()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $GEMRELAY_CONFIG or ~/.gemrelay/config.toml)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before config")

	root.AddCommand(serveCmd(), initConfigCmd(), versionCmd())
	return root.ExecuteContext(context.Background())
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the relay as a local HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadFrom(configPath)
			if addr != "" {
				cfg.ServerPort = addr
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if logFormat != "" {
				cfg.LogFormat = logFormat
			}

			logger := app.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
			printStartupBanner(cfg)
			if os.Getenv(cfg.APIKeyEnv) == "" {
				logger.Warn("api key variable is empty; requests will fail until it is set", "env", cfg.APIKeyEnv)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := app.NewServer(cfg, app.NewHandler(cfg, logger), logger)
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides SERVER_PORT (e.g. :8080)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	cmd.Flags().StringVar(&logFormat, "log-format", "", "text or json")
	return cmd
}

func initConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Write a commented sample config file if none exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.EnsureConfigFile(configPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), configPath)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Version)
		},
	}
}

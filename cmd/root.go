package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"artiststudio/config"
	"artiststudio/logger"
	"artiststudio/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "artiststudio",
	Short: "Artist Studio catalog and membership API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
	SilenceUsage: true,
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and initialises the global logger.
func loadConfig() *config.Config {
	cfg := config.Load()
	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	})
	return cfg
}

func runServer() error {
	cfg := loadConfig()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting Artist Studio API...")
	return server.Start(ctx, cfg)
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bandori-index/core/config"
	"bandori-index/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "bandori-index",
	Short: "Bestdori catalog builder",
	Long: `bandori-index fetches band, character, card, event, gacha and song data from
Bestdori, resolves the references between them and writes a deterministic catalog
artifact together with the manifest of every downstream asset.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	// Console encoding at debug level gives readable ISO8601 timestamps on failure.
	l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if logErr == nil {
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
	} else {
		fmt.Println(err)
	}
	os.Exit(1)
}

// setup loads the configuration and builds the logger shared by every command.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	zap.ReplaceGlobals(logg)
	return cfg, logg, nil
}

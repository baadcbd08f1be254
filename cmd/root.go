package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/plant-locator/internal/config"
	"github.com/sells-group/plant-locator/internal/metrics"
)

var (
	cfg        *config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "plant-locator",
	Short: "Rank Indian states and union territories for a new manufacturing plant",
	Long: "Scores every state and union territory on electricity cost, ease of doing business, " +
		"labor and industrial-zone infrastructure for an industry and investment scale, then " +
		"recommends the best regions with suitable industrial zones and local suppliers.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cfg != nil && cfg.Metrics.Textfile != "" {
			if err := metrics.DefaultRegistry().WriteTextfile(cfg.Metrics.Textfile); err != nil {
				zap.L().Warn("write metrics textfile", zap.Error(err))
			}
		}
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.yaml)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

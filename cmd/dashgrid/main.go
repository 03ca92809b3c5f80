package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dashgrid/internal/builtin"
	"dashgrid/internal/config"
	"dashgrid/internal/ctxlog"
	"dashgrid/internal/module"
	"dashgrid/internal/settings"
	"dashgrid/internal/telemetry"
	"dashgrid/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "dashgrid",
	Short: "dashgrid tiles widget modules into a terminal dashboard",
	Long: "dashgrid discovers widget modules under a modules directory, loads each\n" +
		"one (Lua script or builtin), and arranges their output in a grid that\n" +
		"refreshes until quit.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable verbose logging")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	// DASHGRID_MODULES, DASHGRID_REFRESH, DASHGRID_LOG_DIR, DASHGRID_DEBUG.
	viper.SetEnvPrefix("DASHGRID")
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())
}

func run(ctx context.Context) error {
	cfg := config.FromViper(viper.GetViper())

	logger, logFile, err := config.SetupLogging(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	ctx = ctxlog.WithLogger(ctx, logger)

	tel, err := telemetry.Setup(ctx)
	if err != nil {
		logger.Warn("telemetry disabled", "error", err)
		tel = nil
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	registry := module.NewRegistry(settings.NewStore(), builtin.Factories(), tel.Tracer())
	app := ui.NewApp(registry, cfg.ModulesDir, cfg.Refresh, logger)

	logger.Info("starting dashgrid", "modules", cfg.ModulesDir, "refresh", cfg.Refresh, "debug", cfg.Debug)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

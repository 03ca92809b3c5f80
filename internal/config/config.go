// Package config resolves the dashboard's runtime configuration from CLI
// flags and DASHGRID_* environment variables (viper-bound) and sets up
// structured logging. Logs go to a dated file so stdout stays clean for
// the TUI.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Defaults for every setting; flags and DASHGRID_* env vars override.
const (
	DefaultModulesDir = "modules"
	DefaultLogDir     = "logs"
	DefaultRefresh    = time.Second
)

// Config is the resolved runtime configuration.
type Config struct {
	// ModulesDir is the root scanned for module directories.
	ModulesDir string
	// Refresh is the interval between render passes.
	Refresh time.Duration
	// LogDir receives the dated log file.
	LogDir string
	// Debug lowers the log level to debug.
	Debug bool
}

// SetDefaults registers defaults on v. Call before binding flags.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("modules", DefaultModulesDir)
	v.SetDefault("refresh", DefaultRefresh)
	v.SetDefault("log_dir", DefaultLogDir)
	v.SetDefault("debug", false)
}

// FromViper reads the resolved configuration out of v.
func FromViper(v *viper.Viper) Config {
	cfg := Config{
		ModulesDir: v.GetString("modules"),
		Refresh:    v.GetDuration("refresh"),
		LogDir:     v.GetString("log_dir"),
		Debug:      v.GetBool("debug"),
	}
	if cfg.Refresh <= 0 {
		cfg.Refresh = DefaultRefresh
	}
	return cfg
}

// SetupLogging opens today's log file under cfg.LogDir and returns a
// logger writing to it. The caller closes the returned file on exit.
func SetupLogging(cfg Config) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir %s: %w", cfg.LogDir, err)
	}
	path := filepath.Join(cfg.LogDir, time.Now().Format("2006-01-02")+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, f, nil
}

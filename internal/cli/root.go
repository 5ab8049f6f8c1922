// Package cli implements the aurvo CLI commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rcliao/aurvo/internal/config"
	"github.com/rcliao/aurvo/internal/service"
	"github.com/rcliao/aurvo/internal/store"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	modulesFile string
	logLevel    string
	logFormat   string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "aurvo",
	Short: "AURVO module backend",
	Long:  "Serves the AURVO module catalog and per-module insight stores. One SQLite file per module.",
}

func init() {
	RootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default: $AURVO_DATA_DIR or ./data)")
	RootCmd.PersistentFlags().StringVar(&modulesFile, "modules-file", "", "Module definitions file, .json/.toml/.yaml (default: $AURVO_MODULES_FILE)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	RootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
}

func newRegistry() *config.Registry {
	return config.NewRegistry(config.WithOverrides(os.LookupEnv, map[string]string{
		config.EnvDataDir:     dataDir,
		config.EnvModulesFile: modulesFile,
	}))
}

// app bundles the wired components for one command invocation.
type app struct {
	registry *config.Registry
	store    *store.Store
	service  *service.Service
	logger   *slog.Logger
}

// newApp wires the components and resolves settings up front so an
// invalid module catalog stops the command before any work is done.
func newApp() (*app, error) {
	logger := newLogger(logLevel, logFormat, os.Stderr)
	reg := newRegistry()
	if _, err := reg.Settings(); err != nil {
		return nil, err
	}
	st := store.New(reg)
	return &app{
		registry: reg,
		store:    st,
		service:  service.New(reg, st, logger),
		logger:   logger,
	}, nil
}

func mustApp() *app {
	a, err := newApp()
	if err != nil {
		exitErr("startup", err)
	}
	return a
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

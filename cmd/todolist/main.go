// Package main implements the todolist CLI.
package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/amonks/todolist/internal/config"
	"github.com/amonks/todolist/internal/logging"
	"github.com/amonks/todolist/internal/paths"
	"github.com/amonks/todolist/media"
	"github.com/amonks/todolist/todo"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		return 1
	}
	return 0
}

var rootCmd = &cobra.Command{
	Use:          "todolist",
	Short:        "A todo list with image and video attachments",
	SilenceUsage: true,
}

var (
	configDir string
	logLevel  string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "dir", "C", "", "directory to read "+config.ProjectFile+" from (default: working directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}

// environment is what every subcommand builds before doing work.
type environment struct {
	config *config.Config
	logger *slog.Logger
	store  *todo.Store
}

// loadEnvironment reads config and builds a logger writing to logOutput
// and an empty store honoring the media settings.
func loadEnvironment(logOutput io.Writer) (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger, err := logging.New(logOutput, level, "todolist")
	if err != nil {
		return nil, err
	}

	policy, err := cfg.MediaPolicy()
	if err != nil {
		return nil, err
	}
	store := todo.New(todo.Options{
		Ingestor: media.DataURIIngestor{MaxBytes: cfg.Media.MaxBytes},
		Policy:   policy,
		Logger:   logger,
	})
	return &environment{config: cfg, logger: logger, store: store}, nil
}

func loadConfig() (*config.Config, error) {
	dir := configDir
	if dir == "" {
		cwd, err := paths.WorkingDir()
		if err != nil {
			return nil, err
		}
		dir = cwd
	}
	return config.Load(dir)
}

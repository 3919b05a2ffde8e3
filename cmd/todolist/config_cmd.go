package main

import (
	"github.com/BurntSushi/toml"
	"github.com/amonks/todolist/internal/logging"
	"github.com/amonks/todolist/web"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	effective := *cfg
	effective.Server.Addr, err = cfg.ResolveAddr("")
	if err != nil {
		return err
	}
	policy, err := cfg.MediaPolicy()
	if err != nil {
		return err
	}
	effective.Media.AcceptedTypes = policy.Types()
	if effective.UI.Theme == "" {
		effective.UI.Theme = web.DefaultTheme
	}
	if logLevel != "" {
		effective.Log.Level = logLevel
	}
	if effective.Log.Level == "" {
		effective.Log.Level = logging.DefaultLevel
	}

	return toml.NewEncoder(cmd.OutOrStdout()).Encode(effective)
}

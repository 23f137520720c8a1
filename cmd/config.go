package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AhsanRiaz786/the-sentinel/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Println(p)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return yaml.NewEncoder(os.Stdout).Encode(cfg)
	},
}

var configSetWorkersCmd = &cobra.Command{
	Use:   "set-workers N",
	Short: "Set the worker pool size and save the config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid worker count %q: %w", args[0], err)
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.Workers = &n
		return saveConfig(cfg)
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetWorkersCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig is a helper used by config subcommands.
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// saveConfig is a helper used by config subcommands. Pool-shaping
// settings like worker count take effect on the next `judge` invocation;
// per-submission settings (limits, ceilings, deny tokens) take effect
// mid-run, since a running judge batch watches the config file (see
// cmd/judge.go and internal/judge.ConfigSource).
func saveConfig(cfg *config.Config) error {
	return config.Save(cfg)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/cardforge/rulesforge/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cardforge",
	Short: "Run and inspect cardforge rules-kernel matches",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (YAML/JSON/TOML)")
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

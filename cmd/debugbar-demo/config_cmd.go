package main

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

var configPath string

func init() {
	configCmd.Flags().StringVarP(&configPath, "config", "c", "debugbar-demo.toml", "configuration file (TOML)")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(os.DirFS("."), configPath, !cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		cfg.Secret = "<redacted>"
		for i := range cfg.Users {
			cfg.Users[i].Password = "<redacted>"
		}
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	},
}

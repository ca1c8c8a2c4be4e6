package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xpzouying/videogram/configs"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the configuration file",
	}
	cmd.AddCommand(
		newConfigInfoCmd(),
		newConfigSetCmd(),
		newConfigDeleteCmd(),
	)
	return cmd
}

func newConfigInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the config file path and all entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "config file: %s\n", cfg.Path())
			for _, key := range cfg.Keys() {
				value := cfg.Get(key)
				if key == configs.KeyTelegramToken && value != "" {
					value = "********"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, value)
			}
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config entry and persist it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Set(args[0], args[1])
			return cfg.Persist()
		},
	}
}

func newConfigDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a config entry and persist the change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Delete(args[0])
			return cfg.Persist()
		},
	}
}

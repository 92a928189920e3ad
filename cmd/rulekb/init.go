package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rulekb/rulekb/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the rulekb home directory",
	Long: `Create the rulekb home directory structure and write a default
config file.

Examples:
  rulekb init                   # Initialize ~/.rulekb
  rulekb init --home ./work     # Initialize a custom home directory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := loadHome()
		if err != nil {
			return err
		}

		if h.ConfigExists() {
			fmt.Printf("config already exists at %s\n", h.ConfigPath())
			return nil
		}

		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}

		fmt.Printf("initialized %s\n", h.Path())
		fmt.Printf("wrote default config to %s\n", h.ConfigPath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

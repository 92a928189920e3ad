package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/rulekb/rulekb/internal/output"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List the embedded extraction prompts",
	Long: `List every embedded prompt with its key, description, template
variables, and content hash.

Examples:
  rulekb prompts
  rulekb prompts -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := newRegistry(newLogger())

		all := registry.AllEmbedded()
		sort.Slice(all, func(i, j int) bool { return all[i].Key < all[j].Key })

		type entry struct {
			Key         string   `json:"key"`
			Description string   `json:"description"`
			Variables   []string `json:"variables,omitempty"`
			Hash        string   `json:"hash"`
		}
		entries := make([]entry, 0, len(all))
		for _, p := range all {
			entries = append(entries, entry{
				Key:         p.Key,
				Description: p.Description,
				Variables:   p.Variables,
				Hash:        p.Hash,
			})
		}
		return output.Print(entries)
	},
}

func init() {
	rootCmd.AddCommand(promptsCmd)
}

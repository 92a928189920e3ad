package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rulekb/rulekb/internal/kb"
	"github.com/rulekb/rulekb/internal/output"
	"github.com/rulekb/rulekb/internal/pipeline"
	"github.com/rulekb/rulekb/internal/query"
)

var (
	queryProvider string
	lookupMode    string
)

var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Ask a question against the knowledge base",
	Long: `Route a natural language question through the LLM, retrieve the
matching rules or terms from the knowledge base, and answer verbatim
from the retrieved context.

Examples:
  rulekb query "What does rule V.1 state exactly?"
  rulekb query "List all rules relevant to Aerodynamics."`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, _, err := buildDeps(queryProvider)
		if err != nil {
			return err
		}

		res, err := query.Answer(cmd.Context(), deps, strings.Join(args, " "))
		if err != nil {
			return err
		}
		return output.Print(res)
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <key>",
	Short: "Look up a rule or term directly, without an LLM",
	Long: `Resolve a key against the knowledge base. Mode "definition"
returns the definition for a rule number or term; mode "rule_numbers"
returns every rule a technical term appears in (case-insensitive).

Examples:
  rulekb lookup V.1
  rulekb lookup Aerodynamic --mode rule_numbers`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		h, err := loadHome()
		if err != nil {
			return err
		}

		deps := &pipeline.Deps{
			Home:   h,
			Store:  kb.NewStore(logger),
			Logger: logger,
		}
		res, err := query.Lookup(deps, args[0], lookupMode)
		if err != nil {
			return err
		}
		return output.Print(map[string]any{"key": args[0], "mode": lookupMode, "result": res})
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryProvider, "provider", "", "LLM provider name (default from config)")
	lookupCmd.Flags().StringVar(&lookupMode, "mode", kb.ModeDefinition, "extraction mode: definition or rule_numbers")
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(lookupCmd)
}

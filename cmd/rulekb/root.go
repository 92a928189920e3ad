package main

import (
	"github.com/spf13/cobra"

	"github.com/rulekb/rulekb/internal/output"
	"github.com/rulekb/rulekb/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "rulekb",
	Short: "Rules document knowledge base builder with LLM-powered extraction",
	Long: `Rulekb turns a technical rules document (PDF) into a structured,
queryable knowledge base using LLM-powered extraction.

The pipeline includes:
  - Page text extraction with header/footer trimming
  - Per-page rule extraction into a rule-keyed lookup table
  - Term and measurement annotation for every rule
  - Arrangement into a flat rule- and term-keyed knowledge base
  - Grounded question answering over the result`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.rulekb/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "rulekb home directory (default: ~/.rulekb)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		output.SetFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/rulekb/rulekb/internal/output"
	"github.com/rulekb/rulekb/internal/pipeline"
)

var (
	annotateStart    int
	annotateEnd      int
	annotateProvider string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Annotate extracted rules with terms and measurements",
	Long: `Walk the extracted rules in the selected page range and enrich
each rule with LLM-extracted technical terms and numerical measurements.
Rules whose extraction output cannot be parsed are skipped with a warning.

Examples:
  rulekb annotate
  rulekb annotate --start 10 --end 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, cfg, err := buildDeps(annotateProvider)
		if err != nil {
			return err
		}

		res, err := pipeline.Annotate(cmd.Context(), deps, pageRange(cfg, annotateStart, annotateEnd))
		if err != nil {
			return err
		}
		return output.Print(res)
	},
}

func init() {
	annotateCmd.Flags().IntVar(&annotateStart, "start", 0, "first page to process (default from config)")
	annotateCmd.Flags().IntVar(&annotateEnd, "end", 0, "last page to process, inclusive (default from config)")
	annotateCmd.Flags().StringVar(&annotateProvider, "provider", "", "LLM provider name (default from config)")
	rootCmd.AddCommand(annotateCmd)
}

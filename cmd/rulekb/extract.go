package main

import (
	"github.com/spf13/cobra"

	"github.com/rulekb/rulekb/internal/output"
	"github.com/rulekb/rulekb/internal/pipeline"
)

var (
	extractStart    int
	extractEnd      int
	extractProvider string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract rules from ingested pages",
	Long: `Run per-page rule extraction over the selected page range. Each
page's text is sent to the LLM, which returns a rule-keyed lookup table
for that page. Results upsert into the rules document; re-running an
unchanged range is a no-op.

Examples:
  rulekb extract                     # Default page range from config
  rulekb extract --start 10 --end 20 # Explicit range`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, cfg, err := buildDeps(extractProvider)
		if err != nil {
			return err
		}

		res, err := pipeline.ExtractRules(cmd.Context(), deps, pageRange(cfg, extractStart, extractEnd))
		if err != nil {
			return err
		}
		return output.Print(res)
	},
}

func init() {
	extractCmd.Flags().IntVar(&extractStart, "start", 0, "first page to process (default from config)")
	extractCmd.Flags().IntVar(&extractEnd, "end", 0, "last page to process, inclusive (default from config)")
	extractCmd.Flags().StringVar(&extractProvider, "provider", "", "LLM provider name (default from config)")
	rootCmd.AddCommand(extractCmd)
}

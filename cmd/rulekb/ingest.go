package main

import (
	"github.com/spf13/cobra"

	"github.com/rulekb/rulekb/internal/config"
	"github.com/rulekb/rulekb/internal/kb"
	"github.com/rulekb/rulekb/internal/output"
	"github.com/rulekb/rulekb/internal/pipeline"
)

var ingestMargin int

var ingestCmd = &cobra.Command{
	Use:   "ingest <rules.pdf|rules.txt>",
	Short: "Extract page text from a rules document",
	Long: `Extract text from every page of the rules PDF, trim headers and
footers, and store the page-keyed text document. Requires pdftotext
(poppler-utils) on PATH. A .txt input is taken as already-extracted
page-marked text and ingested directly.

Examples:
  rulekb ingest fsae-rules.pdf
  rulekb ingest fsae-rules.pdf --margin 60
  rulekb ingest fsae-rules.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		h, err := loadHome()
		if err != nil {
			return err
		}
		manager, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := manager.Get()

		margin := ingestMargin
		if margin == 0 {
			margin = cfg.Extraction.HeaderFooterMargin
		}

		// Ingest needs no LLM client; wire the stores directly.
		deps := &pipeline.Deps{
			Home:   h,
			Store:  kb.NewStore(logger),
			Logger: logger,
		}

		res, err := pipeline.Ingest(cmd.Context(), deps, args[0], margin)
		if err != nil {
			return err
		}
		return output.Print(res)
	},
}

func init() {
	ingestCmd.Flags().IntVar(&ingestMargin, "margin", 0, "header/footer margin in points (default from config)")
	rootCmd.AddCommand(ingestCmd)
}

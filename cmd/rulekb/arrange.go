package main

import (
	"github.com/spf13/cobra"

	"github.com/rulekb/rulekb/internal/kb"
	"github.com/rulekb/rulekb/internal/output"
	"github.com/rulekb/rulekb/internal/pipeline"
)

var arrangeCmd = &cobra.Command{
	Use:   "arrange",
	Short: "Arrange annotated rules into the knowledge base",
	Long: `Build the final flat knowledge base from the annotated rules:
rule records keyed by rule number, merged with aggregated term records
keyed by term. No LLM calls are made; the index is recomputed from the
annotated rules and upserted over any prior run's output.

Examples:
  rulekb arrange`,
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

		res, err := pipeline.Arrange(cmd.Context(), deps)
		if err != nil {
			return err
		}
		return output.Print(res)
	},
}

func init() {
	rootCmd.AddCommand(arrangeCmd)
}

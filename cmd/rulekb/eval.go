package main

import (
	"github.com/spf13/cobra"

	"github.com/rulekb/rulekb/internal/output"
	"github.com/rulekb/rulekb/internal/query"
)

var (
	evalProvider string
	evalColumn   string
)

var evalCmd = &cobra.Command{
	Use:   "eval <questions.csv>",
	Short: "Run an evaluation CSV through the question pipeline",
	Long: `Answer every question in a CSV file and write a copy with a
"model prediction" column appended to the eval directory, named
<input>_<model>.csv.

The input must have a header row with a question column.

Examples:
  rulekb eval questions.csv
  rulekb eval questions.csv --question-column prompt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, _, err := buildDeps(evalProvider)
		if err != nil {
			return err
		}

		res, err := query.Eval(cmd.Context(), deps, args[0], evalColumn)
		if err != nil {
			return err
		}
		return output.Print(res)
	},
}

func init() {
	evalCmd.Flags().StringVar(&evalProvider, "provider", "", "LLM provider name (default from config)")
	evalCmd.Flags().StringVar(&evalColumn, "question-column", "question", "header name of the question column")
	rootCmd.AddCommand(evalCmd)
}

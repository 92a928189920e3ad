package query

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rulekb/rulekb/internal/pipeline"
)

const predictionColumn = "model prediction"

// EvalResult reports what the evaluation run produced.
type EvalResult struct {
	Questions int    `json:"questions"`
	OutPath   string `json:"out_path"`
}

// Eval runs every question in a CSV file through Answer and writes a copy
// of the file with a "model prediction" column appended to the eval
// directory, named <input>_<model>.csv.
//
// The input must have a header row containing questionColumn. A failed
// answer is recorded as an error string in the prediction cell; the run
// continues with the next question.
func Eval(ctx context.Context, deps *pipeline.Deps, csvPath, questionColumn string) (*EvalResult, error) {
	log := logger(deps)

	if questionColumn == "" {
		questionColumn = "question"
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open eval file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read eval file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("eval file is empty: %s", csvPath)
	}

	header := rows[0]
	questionIdx := -1
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), questionColumn) {
			questionIdx = i
			break
		}
	}
	if questionIdx < 0 {
		return nil, fmt.Errorf("eval file has no %q column", questionColumn)
	}

	out := make([][]string, 0, len(rows))
	out = append(out, append(append([]string{}, header...), predictionColumn))

	for i, row := range rows[1:] {
		if questionIdx >= len(row) {
			out = append(out, append(append([]string{}, row...), ""))
			continue
		}
		question := row[questionIdx]

		var prediction string
		result, err := Answer(ctx, deps, question)
		if err != nil {
			prediction = fmt.Sprintf("Error: %v", err)
			log.Warn("eval answer failed", "row", i+1, "error", err)
		} else {
			prediction = result.Answer
		}
		log.Info("eval question answered", "row", i+1, "question", question)

		out = append(out, append(append([]string{}, row...), prediction))
	}

	base := strings.TrimSuffix(filepath.Base(csvPath), filepath.Ext(csvPath))
	outPath := filepath.Join(deps.Home.EvalPath(), fmt.Sprintf("%s_%s.csv", base, deps.Model))

	outFile, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create eval output: %w", err)
	}
	defer outFile.Close()

	w := csv.NewWriter(outFile)
	if err := w.WriteAll(out); err != nil {
		return nil, fmt.Errorf("failed to write eval output: %w", err)
	}

	return &EvalResult{Questions: len(out) - 1, OutPath: outPath}, nil
}

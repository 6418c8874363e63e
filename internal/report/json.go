package report

import (
	"context"
	"encoding/json"
	"fmt"

	"serverest-suite/internal/models"
)

const JSONFileName = "summary.json"

// JSONWriter writes the whole run summary as summary.json.
type JSONWriter struct {
	Dir string
}

func NewJSONWriter(dir string) *JSONWriter {
	return &JSONWriter{Dir: dir}
}

func (w *JSONWriter) Name() string {
	return "json"
}

func (w *JSONWriter) Write(_ context.Context, summary *models.RunSummary) error {
	doc := struct {
		*models.RunSummary
		Total      int   `json:"total"`
		DurationMs int64 `json:"durationMs"`
	}{
		RunSummary: summary,
		Total:      summary.Total(),
		DurationMs: summary.Duration().Milliseconds(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	return writeFile(w.Dir, JSONFileName, append(data, '\n'))
}

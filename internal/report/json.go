package report

import (
	"encoding/json"
	"fmt"
	"os"

	"mergefix/internal/config"
	"mergefix/internal/model"
)

type JSONWriter struct{}

func NewJSONWriter() *JSONWriter {
	return &JSONWriter{}
}

func (w *JSONWriter) Write(audit *model.RunAudit, cfg *config.Config) error {
	if err := cfg.EnsureReportDir(audit.Workbook); err != nil {
		return err
	}
	outFile := cfg.ReportPath(audit.Workbook, "json")

	file, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create JSON summary: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(audit)
}

package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"mergefix/internal/config"
	"mergefix/internal/model"
)

type WordWriter struct{}

func NewWordWriter() *WordWriter {
	return &WordWriter{}
}

func (w *WordWriter) Write(audit *model.RunAudit, cfg *config.Config) error {
	templatePath := cfg.Report.Template
	if templatePath == "" {
		// No custom template configured, materialize the built-in
		// one to a temp file for the docx reader.
		tmpFile, err := os.CreateTemp("", "mergefix-template-*.docx")
		if err != nil {
			return fmt.Errorf("failed to create temp template: %w", err)
		}
		defer os.Remove(tmpFile.Name())

		if err := WriteTemplate(tmpFile); err != nil {
			tmpFile.Close()
			return fmt.Errorf("failed to write built-in template: %w", err)
		}
		if err := tmpFile.Close(); err != nil {
			return fmt.Errorf("failed to close temp template: %w", err)
		}
		templatePath = tmpFile.Name()
	}

	r, err := docx.ReadDocxFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read summary template: %w", err)
	}
	defer r.Close()

	doc := r.Editable()

	doc.Replace("{{Date}}", audit.Date, -1)
	doc.Replace("{{Workbook}}", audit.Workbook, -1)
	doc.Replace("{{TotalSheets}}", fmt.Sprintf("%d", audit.TotalSheets), -1)

	// Plain text content; the docx library handles XML encoding
	var contentBuilder strings.Builder

	mode := "Repair"
	if audit.DryRun {
		mode = "Dry run"
	}
	contentBuilder.WriteString(fmt.Sprintf("Mode: %s\n", mode))
	contentBuilder.WriteString(fmt.Sprintf("Blocks found: %d\n", audit.Blocks()))
	contentBuilder.WriteString(fmt.Sprintf("Merges applied: %d\n", audit.MergesApplied()))
	if audit.DryRun {
		contentBuilder.WriteString(fmt.Sprintf("Merges missing: %d\n", audit.Pending()))
	}
	contentBuilder.WriteString(fmt.Sprintf("Merge failures: %d\n\n", audit.Failures()))
	contentBuilder.WriteString(strings.Repeat("=", 60) + "\n\n")

	for i := range audit.Sheets {
		buildSheetText(&contentBuilder, &audit.Sheets[i])
		if i < len(audit.Sheets)-1 {
			contentBuilder.WriteString("\n" + strings.Repeat("-", 60) + "\n\n")
		}
	}

	doc.Replace("{{Content}}", contentBuilder.String(), -1)

	if err := cfg.EnsureReportDir(audit.Workbook); err != nil {
		return err
	}
	outFile := cfg.ReportPath(audit.Workbook, "docx")
	if err := doc.WriteToFile(outFile); err != nil {
		return fmt.Errorf("failed to write Word summary: %w", err)
	}

	return nil
}

// buildSheetText builds the plain text section for one worksheet
func buildSheetText(sb *strings.Builder, sheet *model.SheetAudit) {
	sb.WriteString(fmt.Sprintf("Worksheet: %s\n", sheet.Sheet))
	sb.WriteString(fmt.Sprintf("  Blocks: %d\n", sheet.Blocks))

	if len(sheet.Applied) > 0 {
		sb.WriteString(fmt.Sprintf("  Applied: %d (%s)\n", len(sheet.Applied), strings.Join(sheet.Applied, ", ")))
	}
	if sheet.Verified > 0 {
		sb.WriteString(fmt.Sprintf("  Already merged: %d\n", sheet.Verified))
	}
	if len(sheet.Pending) > 0 {
		sb.WriteString(fmt.Sprintf("  Missing: %s\n", strings.Join(sheet.Pending, ", ")))
	}
	for _, failure := range sheet.Failed {
		sb.WriteString(fmt.Sprintf("  FAILED %s (block at row %d): %s\n",
			failure.Range, failure.BlockRow, failure.Reason))
	}
}

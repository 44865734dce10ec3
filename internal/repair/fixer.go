package repair

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"mergefix/internal/config"
	"mergefix/internal/logger"
	"mergefix/internal/model"
	"mergefix/internal/utils"
)

// Document is the workbook surface the fixer needs. Satisfied by
// workbook.Session and by fakes in tests.
type Document interface {
	CellValue(sheet, cell string) (string, error)
	MergeCell(sheet, hCell, vCell string) error
	UnmergeCell(sheet, hCell, vCell string) error
	MergedRanges(sheet string) ([]excelize.MergeCell, error)
}

// Tower IDs look like JKT-SBY-BDG-001. A marker that deviates still
// counts as a block; the pattern only feeds a diagnostic.
var towerIDPattern = regexp.MustCompile(`^[A-Z]+(-[A-Z]+)*-\d+$`)

// Fixer walks a performance worksheet block by block and re-applies
// the merge layout the report template expects.
type Fixer struct {
	cfg    *config.Config
	dryRun bool
}

func NewFixer(cfg *config.Config, dryRun bool) *Fixer {
	return &Fixer{cfg: cfg, dryRun: dryRun}
}

// MatchSheets returns the worksheet names carrying the configured
// prefix, in workbook order.
func MatchSheets(sheets []string, prefix string) []string {
	matched := make([]string, 0, len(sheets))
	for _, name := range sheets {
		if utils.HasFoldPrefix(name, prefix) {
			matched = append(matched, name)
		}
	}
	return matched
}

// RepairSheet probes the marker column at the configured stride and
// applies the merge layout to each block until a blank marker ends
// the scan. Marker read errors abort the sheet; individual merge
// failures are recorded in the audit and skipped.
func (f *Fixer) RepairSheet(doc Document, sheet string) (model.SheetAudit, error) {
	sheetAudit := model.SheetAudit{Sheet: sheet}

	var merged map[string]bool
	if f.dryRun {
		ranges, err := doc.MergedRanges(sheet)
		if err != nil {
			return sheetAudit, fmt.Errorf("failed to read merged ranges: %w", err)
		}
		merged = make(map[string]bool, len(ranges))
		for _, r := range ranges {
			merged[r.GetStartAxis()+":"+r.GetEndAxis()] = true
		}
	}

	row := 1
	for {
		markerCell, err := excelize.CoordinatesToCellName(f.cfg.Layout.MarkerColumn, row)
		if err != nil {
			return sheetAudit, fmt.Errorf("invalid marker coordinates (col %d, row %d): %w",
				f.cfg.Layout.MarkerColumn, row, err)
		}

		marker, err := doc.CellValue(sheet, markerCell)
		if err != nil {
			return sheetAudit, fmt.Errorf("failed to read marker cell %s: %w", markerCell, err)
		}
		if utils.IsBlank(marker) {
			break
		}

		sheetAudit.Blocks++
		trimmed := strings.TrimSpace(marker)
		if !towerIDPattern.MatchString(trimmed) {
			logger.Debug("Marker %q at %s!%s does not look like a tower ID", trimmed, sheet, markerCell)
		}
		logger.Debug("Block %d on %s starts at row %d (%s)", sheetAudit.Blocks, sheet, row, trimmed)

		if err := f.applyBlock(doc, sheet, row, merged, &sheetAudit); err != nil {
			return sheetAudit, err
		}

		row += f.cfg.Layout.BlockRows
	}

	logger.Debug("Worksheet %s: %d block(s), %d merge(s) applied, %d failure(s)",
		sheet, sheetAudit.Blocks, len(sheetAudit.Applied), len(sheetAudit.Failed))

	return sheetAudit, nil
}

// applyBlock runs every configured merge directive against the block
// anchored at baseRow. In dry-run mode it only checks whether the
// range is already merged.
func (f *Fixer) applyBlock(doc Document, sheet string, baseRow int, merged map[string]bool, sheetAudit *model.SheetAudit) error {
	for _, m := range f.cfg.Layout.Merges {
		startCell, err := excelize.CoordinatesToCellName(m.StartCol, baseRow+m.StartRow)
		if err != nil {
			return fmt.Errorf("invalid merge start (col %d, row %d): %w", m.StartCol, baseRow+m.StartRow, err)
		}
		endCell, err := excelize.CoordinatesToCellName(m.EndCol, baseRow+m.EndRow)
		if err != nil {
			return fmt.Errorf("invalid merge end (col %d, row %d): %w", m.EndCol, baseRow+m.EndRow, err)
		}
		rangeRef := startCell + ":" + endCell

		if f.dryRun {
			if merged[rangeRef] {
				sheetAudit.Verified++
			} else {
				sheetAudit.Pending = append(sheetAudit.Pending, rangeRef)
			}
			continue
		}

		// Clearing first keeps stale or partial merges from
		// surviving underneath the fresh range.
		if err := doc.UnmergeCell(sheet, startCell, endCell); err != nil {
			logger.Debug("Unmerge %s!%s skipped: %v", sheet, rangeRef, err)
		}
		if err := doc.MergeCell(sheet, startCell, endCell); err != nil {
			logger.Warn("Failed to merge %s!%s: %v", sheet, rangeRef, err)
			sheetAudit.Failed = append(sheetAudit.Failed, model.MergeFailure{
				Range:    rangeRef,
				BlockRow: baseRow,
				Reason:   err.Error(),
			})
			continue
		}
		sheetAudit.Applied = append(sheetAudit.Applied, rangeRef)
	}
	return nil
}

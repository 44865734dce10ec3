package e2e

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/xuri/excelize/v2"

	"mergefix/internal/config"
	"mergefix/internal/model"
	"mergefix/internal/repair"
	"mergefix/internal/report"
	"mergefix/internal/workbook"
)

// buildFixtureWorkbook writes a workbook shaped like the report
// generator's output: performance sheets carrying 15-row tower
// blocks, with the merge formatting already damaged the way row
// inserts leave it.
func buildFixtureWorkbook(t *testing.T, path string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Performance 2026-08-20"); err != nil {
		t.Fatalf("Failed to rename sheet: %v", err)
	}
	writeTowerBlock(t, f, "Performance 2026-08-20", 1, "JKT-SLT-KBY-001")
	writeTowerBlock(t, f, "Performance 2026-08-20", 16, "JKT-SLT-KBY-002")

	if _, err := f.NewSheet("Performance 2026-08-21"); err != nil {
		t.Fatalf("Failed to add sheet: %v", err)
	}
	writeTowerBlock(t, f, "Performance 2026-08-21", 1, "BDG-CMH-LBK-007")

	// Leftover merges in the wrong shape
	if err := f.MergeCell("Performance 2026-08-20", "B1", "E1"); err != nil {
		t.Fatalf("Failed to seed merge: %v", err)
	}
	if err := f.MergeCell("Performance 2026-08-20", "B17", "C18"); err != nil {
		t.Fatalf("Failed to seed merge: %v", err)
	}

	// A sheet the fixer must leave alone
	if _, err := f.NewSheet("Summary"); err != nil {
		t.Fatalf("Failed to add sheet: %v", err)
	}
	if err := f.SetCellValue("Summary", "A1", "Daily Totals"); err != nil {
		t.Fatalf("Failed to set summary cell: %v", err)
	}
	if err := f.MergeCell("Summary", "A1", "B1"); err != nil {
		t.Fatalf("Failed to seed summary merge: %v", err)
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save fixture: %v", err)
	}
}

// writeTowerBlock fills one tower block the way the generator lays
// it out: labels in B on the first four rows, a header line on the
// seventh, KPI rows below.
func writeTowerBlock(t *testing.T, f *excelize.File, sheet string, baseRow int, towerID string) {
	t.Helper()

	cells := map[string]interface{}{
		fmt.Sprintf("B%d", baseRow):   towerID,
		fmt.Sprintf("B%d", baseRow+1): "5G",
		fmt.Sprintf("B%d", baseRow+2): "START-TIME",
		fmt.Sprintf("B%d", baseRow+3): "2026-08-20",
		fmt.Sprintf("A%d", baseRow+6): towerID,
		fmt.Sprintf("F%d", baseRow+6): "XL Smart",
		fmt.Sprintf("H%d", baseRow+6): "Remark",
	}
	kpis := []string{"RRC Setup SR", "ERAB Setup SR", "Call Drop Rate", "Handover SR", "DL Throughput"}
	for i, kpi := range kpis {
		cells[fmt.Sprintf("A%d", baseRow+8+i)] = kpi
		cells[fmt.Sprintf("B%d", baseRow+8+i)] = 99.5
	}

	for cell, value := range cells {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			t.Fatalf("Failed to set %s!%s: %v", sheet, cell, err)
		}
	}
}

func fixtureConfig(reportDir string) *config.Config {
	return &config.Config{
		Sheets: config.SheetsConfig{Prefix: "Performance"},
		Layout: config.LayoutConfig{
			MarkerColumn: 2,
			BlockRows:    15,
			Merges:       config.DefaultMerges(),
		},
		Report: config.ReportConfig{
			Formats: []string{"docx", "json"},
			Dir:     reportDir,
		},
	}
}

// repairWorkbook runs the repair flow the way the CLI drives it
func repairWorkbook(t *testing.T, cfg *config.Config, path string, dryRun bool) *model.RunAudit {
	t.Helper()

	session, err := workbook.Open(path)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer session.Close()

	fixer := repair.NewFixer(cfg, dryRun)
	audit := model.NewRunAudit(path, dryRun)

	matched := repair.MatchSheets(session.SheetList(), cfg.Sheets.Prefix)
	audit.TotalSheets = len(matched)

	for _, sheet := range matched {
		sheetAudit, err := fixer.RepairSheet(session, sheet)
		if err != nil {
			t.Fatalf("Repair of %s failed: %v", sheet, err)
		}
		audit.AddSheet(sheetAudit)
	}

	if !dryRun {
		if err := session.Save(); err != nil {
			t.Fatalf("Failed to save workbook: %v", err)
		}
	}

	return audit
}

func readMerges(t *testing.T, path, sheet string) []string {
	t.Helper()

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	ranges, err := f.GetMergeCells(sheet)
	if err != nil {
		t.Fatalf("Failed to read merged ranges: %v", err)
	}

	set := make([]string, 0, len(ranges))
	for _, r := range ranges {
		set = append(set, r.GetStartAxis()+":"+r.GetEndAxis())
	}
	sort.Strings(set)
	return set
}

func assertMerges(t *testing.T, path, sheet string, want []string) {
	t.Helper()

	got := readMerges(t, path, sheet)
	sorted := append([]string(nil), want...)
	sort.Strings(sorted)

	if len(got) != len(sorted) {
		t.Fatalf("Merged ranges on %s = %v, expected %v", sheet, got, sorted)
	}
	for i := range got {
		if got[i] != sorted[i] {
			t.Fatalf("Merged ranges on %s = %v, expected %v", sheet, got, sorted)
		}
	}
}

func TestEndToEndRepair(t *testing.T) {
	tmpDir := t.TempDir()
	workbookPath := filepath.Join(tmpDir, "stability_report.xlsx")
	reportDir := filepath.Join(tmpDir, "summaries")

	buildFixtureWorkbook(t, workbookPath)
	cfg := fixtureConfig(reportDir)

	// 1. Repair
	audit := repairWorkbook(t, cfg, workbookPath, false)

	if audit.TotalSheets != 2 {
		t.Errorf("TotalSheets = %d, expected 2", audit.TotalSheets)
	}
	if audit.Blocks() != 3 {
		t.Errorf("Blocks = %d, expected 3", audit.Blocks())
	}
	if audit.MergesApplied() != 15 {
		t.Errorf("MergesApplied = %d, expected 15", audit.MergesApplied())
	}
	if audit.Failures() != 0 {
		t.Errorf("Failures = %d, expected 0", audit.Failures())
	}

	// 2. Verify the saved layout
	assertMerges(t, workbookPath, "Performance 2026-08-20", []string{
		"B1:C1", "B2:C2", "B3:C3", "B4:C4", "B7:E7",
		"B16:C16", "B17:C17", "B18:C18", "B19:C19", "B22:E22",
	})
	assertMerges(t, workbookPath, "Performance 2026-08-21", []string{
		"B1:C1", "B2:C2", "B3:C3", "B4:C4", "B7:E7",
	})
	assertMerges(t, workbookPath, "Summary", []string{"A1:B1"})
	t.Log("✅ Merge layout verified on both performance sheets")

	// 3. Cell content must survive the unmerge/merge cycle
	f, err := excelize.OpenFile(workbookPath)
	if err != nil {
		t.Fatalf("Failed to reopen workbook: %v", err)
	}
	for cell, expected := range map[string]string{
		"B1":  "JKT-SLT-KBY-001",
		"B16": "JKT-SLT-KBY-002",
		"B17": "5G",
	} {
		value, err := f.GetCellValue("Performance 2026-08-20", cell)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", cell, err)
		}
		if value != expected {
			t.Errorf("Cell %s = %q, expected %q", cell, value, expected)
		}
	}
	f.Close()

	// 4. Summaries
	writers := report.GetWriters(cfg.Report.Formats)
	if len(writers) != 2 {
		t.Fatalf("GetWriters returned %d writers, expected 2", len(writers))
	}
	for _, w := range writers {
		if err := w.Write(audit, cfg); err != nil {
			t.Errorf("Summary write failed: %v", err)
		}
	}

	expectedFiles := []string{
		"stability_report_repairs.docx",
		"stability_report_repairs.json",
	}
	for _, name := range expectedFiles {
		path := filepath.Join(reportDir, name)
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			t.Errorf("Expected summary file missing: %s", name)
		} else if info.Size() == 0 {
			t.Errorf("Summary file is empty: %s", name)
		} else {
			t.Logf("✅ Verified summary: %s (%d bytes)", name, info.Size())
		}
	}

	// 5. A second run must land on the same layout
	second := repairWorkbook(t, cfg, workbookPath, false)
	if second.MergesApplied() != 15 || second.Failures() != 0 {
		t.Errorf("Second run applied %d merges with %d failures, expected 15 and 0",
			second.MergesApplied(), second.Failures())
	}
	assertMerges(t, workbookPath, "Performance 2026-08-21", []string{
		"B1:C1", "B2:C2", "B3:C3", "B4:C4", "B7:E7",
	})

	// 6. A dry run on the repaired workbook finds nothing missing
	check := repairWorkbook(t, cfg, workbookPath, true)
	if check.Pending() != 0 {
		t.Errorf("Dry run after repair found %d missing merges", check.Pending())
	}
	if check.Verified() != 15 {
		t.Errorf("Dry run verified %d merges, expected 15", check.Verified())
	}
}

func TestDryRunLeavesWorkbookUntouched(t *testing.T) {
	tmpDir := t.TempDir()
	workbookPath := filepath.Join(tmpDir, "stability_report.xlsx")

	buildFixtureWorkbook(t, workbookPath)
	before20 := readMerges(t, workbookPath, "Performance 2026-08-20")
	before21 := readMerges(t, workbookPath, "Performance 2026-08-21")

	cfg := fixtureConfig(filepath.Join(tmpDir, "summaries"))
	audit := repairWorkbook(t, cfg, workbookPath, true)

	if audit.Verified() != 0 {
		t.Errorf("Verified = %d, expected 0 on the damaged fixture", audit.Verified())
	}
	if audit.Pending() != 15 {
		t.Errorf("Pending = %d, expected all 15 merges missing", audit.Pending())
	}

	assertMerges(t, workbookPath, "Performance 2026-08-20", before20)
	assertMerges(t, workbookPath, "Performance 2026-08-21", before21)
	t.Log("✅ Dry run left the workbook unchanged")
}

package model

import "time"

// MergeFailure records a single merge directive that the workbook
// library rejected. The run keeps going after one of these.
type MergeFailure struct {
	Range    string `json:"range"`
	BlockRow int    `json:"block_row"`
	Reason   string `json:"reason"`
}

// SheetAudit captures what happened on one worksheet.
type SheetAudit struct {
	Sheet    string         `json:"sheet"`
	Blocks   int            `json:"blocks"`
	Applied  []string       `json:"applied,omitempty"`
	Pending  []string       `json:"pending,omitempty"`
	Verified int            `json:"verified"`
	Failed   []MergeFailure `json:"failed,omitempty"`
}

// RunAudit is the full record of a repair run, one entry per
// worksheet that matched the configured prefix.
type RunAudit struct {
	Workbook    string       `json:"workbook"`
	DryRun      bool         `json:"dry_run"`
	Date        string       `json:"date"`
	TotalSheets int          `json:"total_sheets"`
	Sheets      []SheetAudit `json:"sheets"`
}

func NewRunAudit(workbook string, dryRun bool) *RunAudit {
	return &RunAudit{
		Workbook: workbook,
		DryRun:   dryRun,
		Date:     time.Now().Format("2006-01-02"),
		Sheets:   []SheetAudit{},
	}
}

func (a *RunAudit) AddSheet(sheet SheetAudit) {
	a.Sheets = append(a.Sheets, sheet)
}

// Blocks returns the total number of tower blocks found across all
// matched worksheets.
func (a *RunAudit) Blocks() int {
	total := 0
	for _, s := range a.Sheets {
		total += s.Blocks
	}
	return total
}

// MergesApplied returns how many merge directives were applied.
func (a *RunAudit) MergesApplied() int {
	total := 0
	for _, s := range a.Sheets {
		total += len(s.Applied)
	}
	return total
}

// Verified returns how many directives a dry run found already in
// place.
func (a *RunAudit) Verified() int {
	total := 0
	for _, s := range a.Sheets {
		total += s.Verified
	}
	return total
}

// Pending returns how many directives a dry run found missing.
func (a *RunAudit) Pending() int {
	total := 0
	for _, s := range a.Sheets {
		total += len(s.Pending)
	}
	return total
}

// Failures returns the count of merge directives that were rejected.
func (a *RunAudit) Failures() int {
	total := 0
	for _, s := range a.Sheets {
		total += len(s.Failed)
	}
	return total
}

package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Session owns an open xlsx workbook for the duration of a repair
// run. Callers must Close it; Save writes back to the original path.
type Session struct {
	path string
	file *excelize.File
}

// Open loads the workbook at path into memory.
func Open(path string) (*Session, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return &Session{path: path, file: file}, nil
}

func (s *Session) Path() string {
	return s.path
}

func (s *Session) SheetList() []string {
	return s.file.GetSheetList()
}

func (s *Session) CellValue(sheet, cell string) (string, error) {
	return s.file.GetCellValue(sheet, cell)
}

func (s *Session) MergeCell(sheet, hCell, vCell string) error {
	return s.file.MergeCell(sheet, hCell, vCell)
}

// UnmergeCell clears any merged range overlapping the given area.
// It returns nil when the area holds no merge.
func (s *Session) UnmergeCell(sheet, hCell, vCell string) error {
	return s.file.UnmergeCell(sheet, hCell, vCell)
}

func (s *Session) MergedRanges(sheet string) ([]excelize.MergeCell, error) {
	return s.file.GetMergeCells(sheet)
}

// Save writes the workbook back to the path it was opened from.
func (s *Session) Save() error {
	return s.file.Save()
}

// SaveAs writes the workbook to a different path, leaving the
// original untouched.
func (s *Session) SaveAs(path string) error {
	return s.file.SaveAs(path)
}

func (s *Session) Close() error {
	return s.file.Close()
}

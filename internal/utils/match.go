package utils

import (
	"strings"

	"golang.org/x/text/cases"
)

// IsBlank reports whether a cell's rendered text is empty or whitespace-only.
// This is the block scanner's termination test: a blank marker cell means
// there are no further record blocks on the worksheet.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// HasFoldPrefix reports whether name starts with prefix under Unicode case
// folding. Sheet names come from workbooks produced on operator desktops and
// arrive with inconsistent casing ("Performance", "PERFORMANCE", ...), so
// the match must not be case-sensitive.
func HasFoldPrefix(name, prefix string) bool {
	if prefix == "" {
		return true
	}
	folder := cases.Fold()
	return strings.HasPrefix(folder.String(name), folder.String(prefix))
}

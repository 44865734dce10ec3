package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Standalone check that a repaired workbook carries the template
// merge layout: per tower block, rows 1-4 merged B:C and row 7
// merged B:E, blocks every 15 rows.
func main() {
	filename := "report.xlsx"
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}

	f, err := excelize.OpenFile(filename)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	fmt.Printf("=== MERGE LAYOUT CHECK: %s ===\n\n", filename)

	missing := 0
	checked := 0

	for _, sheet := range f.GetSheetList() {
		if !strings.HasPrefix(strings.ToLower(sheet), "performance") {
			continue
		}

		merged := make(map[string]bool)
		ranges, err := f.GetMergeCells(sheet)
		if err != nil {
			log.Fatal(err)
		}
		for _, r := range ranges {
			merged[r.GetStartAxis()+":"+r.GetEndAxis()] = true
		}

		blocks := 0
		for row := 1; ; row += 15 {
			marker, err := f.GetCellValue(sheet, fmt.Sprintf("B%d", row))
			if err != nil {
				log.Fatal(err)
			}
			if strings.TrimSpace(marker) == "" {
				break
			}
			blocks++

			expected := []string{
				fmt.Sprintf("B%d:C%d", row, row),
				fmt.Sprintf("B%d:C%d", row+1, row+1),
				fmt.Sprintf("B%d:C%d", row+2, row+2),
				fmt.Sprintf("B%d:C%d", row+3, row+3),
				fmt.Sprintf("B%d:E%d", row+6, row+6),
			}
			for _, ref := range expected {
				checked++
				if !merged[ref] {
					fmt.Printf("❌ MISSING on %s: %s (block %s at row %d)\n", sheet, ref, strings.TrimSpace(marker), row)
					missing++
				}
			}
		}

		fmt.Printf("Sheet %s: %d block(s), %d merged range(s)\n", sheet, blocks, len(ranges))
	}

	fmt.Println()
	if missing == 0 {
		fmt.Printf("✅ Merge Layout Intact: YES (%d ranges checked)\n", checked)
	} else {
		fmt.Printf("❌ Merge Layout Intact: NO (%d of %d ranges missing)\n", missing, checked)
		os.Exit(1)
	}
}

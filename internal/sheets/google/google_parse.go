package google

import (
	"fmt"
	"strings"

	"fintrack/internal/core"
)

func rowRange(sheet string, row int) string {
	return fmt.Sprintf("%s!A%d:%s%d", sheet, row, lastColumn, row)
}

func cell(row []any) string {
	if len(row) == 0 {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[0]))
}

// findRow returns the 1-based row holding month in column A, or 0.
func findRow(col [][]any, month core.MonthKey) int {
	want := month.String()
	for i, row := range col {
		if cell(row) == want {
			return i + 1
		}
	}
	return 0
}

// nextFreeRow prefers a cleared row left behind by a delete over growing the
// sheet. Row 1 is the header.
func nextFreeRow(col [][]any) int {
	for i := 1; i < len(col); i++ {
		if cell(col[i]) == "" {
			return i + 1
		}
	}
	return len(col) + 1
}

// parseMonths skips the header and any cell that is not a month key.
func parseMonths(col [][]any) []core.MonthKey {
	var out []core.MonthKey
	for _, row := range col {
		k, err := core.ParseMonthKey(cell(row))
		if err != nil {
			continue
		}
		out = append(out, k)
	}
	return out
}

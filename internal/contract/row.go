package contract

import (
	"strings"

	"github.com/fyrsmithlabs/nominationd/internal/docx"
)

// NormalizedRow gives a raw table row fixed semantics: the first cell is a
// label, the second is always a sequence of value lines, and any further
// cells stay scalar text. Treating the value cell as a sequence even for
// single-line content lets every downstream consumer range over it without a
// special case.
type NormalizedRow struct {
	Label      string
	ValueLines []string
	ExtraCells []string
}

// NormalizeRow classifies one raw row's cells.
//
// The value cell is split on line breaks with whitespace-only lines dropped;
// a single-line or empty value still yields a one-element sequence, so
// ValueLines is never empty when the cell existed.
func NormalizeRow(cells []string) NormalizedRow {
	var row NormalizedRow
	if len(cells) == 0 {
		return row
	}

	row.Label = strings.TrimSpace(cells[0])

	if len(cells) >= 2 {
		row.ValueLines = splitValueLines(cells[1])
	}
	if len(cells) > 2 {
		row.ExtraCells = append(row.ExtraCells, cells[2:]...)
	}
	return row
}

// NormalizeTable normalizes every row of a recovered table.
func NormalizeTable(table docx.Table) []NormalizedRow {
	rows := make([]NormalizedRow, 0, len(table))
	for _, cells := range table {
		rows = append(rows, NormalizeRow(cells))
	}
	return rows
}

func splitValueLines(cell string) []string {
	trimmed := strings.TrimSpace(cell)
	if !strings.Contains(trimmed, "\n") {
		return []string{trimmed}
	}

	var lines []string
	for _, line := range strings.Split(trimmed, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

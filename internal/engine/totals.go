package engine

import "pivotreport/internal/models"

// ComputeTotals sums cells across rows and columns. Missing cells count as 0.
// Totals are plain sums whatever aggregation produced the cells.
func ComputeTotals(rowKeys, columnKeys []string, cells models.Cells) models.Totals {
	t := models.Totals{
		RowTotals:    make(map[string]float64, len(rowKeys)),
		ColumnTotals: make(map[string]float64, len(columnKeys)),
	}

	for _, c := range columnKeys {
		t.ColumnTotals[c] = 0
	}

	for _, r := range rowKeys {
		row := cells[r]
		var sum float64
		for _, c := range columnKeys {
			v := row[c]
			sum += v
			t.ColumnTotals[c] += v
		}
		t.RowTotals[r] = sum
		t.GrandTotal += sum
	}
	return t
}

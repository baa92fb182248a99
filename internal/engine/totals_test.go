package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pivotreport/internal/models"
)

func TestComputeTotals(t *testing.T) {
	rows := []string{"2024", "2023"}
	cols := []string{"paid", "unpaid"}
	cells := models.Cells{
		"2024": {"paid": 100, "unpaid": 200},
		"2023": {"paid": 50},
	}

	got := ComputeTotals(rows, cols, cells)

	assert.Equal(t, map[string]float64{"2024": 300, "2023": 50}, got.RowTotals)
	assert.Equal(t, map[string]float64{"paid": 150, "unpaid": 200}, got.ColumnTotals)
	assert.Equal(t, 350.0, got.GrandTotal)
}

func TestComputeTotalsEmpty(t *testing.T) {
	got := ComputeTotals(nil, nil, models.Cells{})
	assert.Empty(t, got.RowTotals)
	assert.Empty(t, got.ColumnTotals)
	assert.Equal(t, 0.0, got.GrandTotal)
}

func TestComputeTotalsSumsAveragedCells(t *testing.T) {
	// Totals add the cell values even when cells hold averages.
	recs := []models.Record{
		tx("invoice", "1", "10", "paid", "2024"),
		tx("invoice", "2", "30", "paid", "2024"),
		tx("invoice", "3", "5", "unpaid", "2024"),
	}
	cfg := byYear("status")
	cfg.Aggregation = models.AggAvg
	g := Group(recs, cfg)

	got := ComputeTotals(g.RowKeys, g.ColumnKeys, g.Cells)
	assert.Equal(t, 25.0, got.RowTotals["2024"])
	assert.Equal(t, 25.0, got.GrandTotal)
}

func TestComputeTotalsConservation(t *testing.T) {
	recs := []models.Record{
		tx("invoice", "1", "100", "paid", "2024"),
		tx("bill", "2", "200", "unpaid", "2024"),
		tx("bill", "3", "-40", "paid", "2023"),
		tx("direct_expense", "4", "75", "partially_paid", "2022"),
		tx("invoice", "5", "12", "unpaid", "2022"),
	}
	g := Group(recs, byYear("status", "transaction_type"))
	got := ComputeTotals(g.RowKeys, g.ColumnKeys, g.Cells)

	var rowSum, colSum float64
	for _, v := range got.RowTotals {
		rowSum += v
	}
	for _, v := range got.ColumnTotals {
		colSum += v
	}
	assert.Equal(t, 347.0, got.GrandTotal)
	assert.Equal(t, got.GrandTotal, rowSum)
	assert.Equal(t, got.GrandTotal, colSum)
}

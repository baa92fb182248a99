package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pivotreport/internal/models"
)

func TestComputePivot(t *testing.T) {
	cfg := byYear("status")
	res := ComputePivot([]models.Record{
		{"year": "2024", "status": "paid", "amount": "100"},
		{"year": "2024", "status": "unpaid", "amount": "200"},
	}, cfg)

	assert.Equal(t, []string{"2024"}, res.Rows)
	assert.Equal(t, []models.Column{
		{Key: "paid", Labels: []string{"paid"}},
		{Key: "unpaid", Labels: []string{"unpaid"}},
	}, res.Columns)
	assert.Equal(t, 100.0, res.Data["2024"]["paid"])
	assert.Equal(t, 200.0, res.Data["2024"]["unpaid"])
	assert.Equal(t, 300.0, res.RowTotals["2024"])
	assert.Equal(t, 300.0, res.GrandTotal)
	assert.Equal(t, 1, res.MaxDepth)
	assert.Equal(t, cfg, res.Config, "config is echoed back unchanged")
}

func TestComputePivotMultiDimensionKey(t *testing.T) {
	res := ComputePivot([]models.Record{
		{"year": "2024", "status": "paid", "transaction_type": "invoice", "amount": "100"},
	}, byYear("status", "transaction_type"))

	require.Len(t, res.Columns, 1)
	assert.Equal(t, "paid|invoice", res.Columns[0].Key)
	want := []*models.ColumnNode{{
		Label:    "paid",
		Span:     1,
		Depth:    0,
		Children: []*models.ColumnNode{leaf("invoice", 1)},
	}}
	if diff := cmp.Diff(want, res.ColumnTree); diff != "" {
		t.Errorf("column tree mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, res.MaxDepth)
}

func TestComputePivotEmpty(t *testing.T) {
	res := ComputePivot([]models.Record{}, byYear("status"))

	assert.Empty(t, res.Rows)
	assert.Empty(t, res.Columns)
	assert.Empty(t, res.Data)
	assert.Empty(t, res.ColumnTree)
	assert.Equal(t, 0.0, res.GrandTotal)
	assert.Equal(t, 0, res.MaxDepth)
}

func TestComputePivotIdempotent(t *testing.T) {
	recs := []models.Record{
		tx("invoice", "1", "100", "paid", "2024"),
		tx("bill", "2", "200", "unpaid", "2024"),
		tx("bill", "3", "40", "paid", "2023"),
		tx("direct_expense", "4", "75", "partially_paid", "2022"),
	}
	cfg := byYear("status", "transaction_type")
	cfg.Aggregation = models.AggAvg

	first := ComputePivot(recs, cfg)
	second := ComputePivot(recs, cfg)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated pivot differs (-first +second):\n%s", diff)
	}
}

func TestComputePivotProperties(t *testing.T) {
	recs := []models.Record{
		tx("invoice", "1", "100", "paid", "2024"),
		tx("bill", "2", "200", "unpaid", "2024"),
		tx("bill", "3", "40", "paid", "2023"),
		tx("invoice", "4", "60", "paid", "2023"),
		tx("direct_expense", "5", "75", "partially_paid", "2022"),
		tx("direct_expense", "6", "5", "unpaid", "2021"),
	}
	cfg := models.DimensionConfig{RowDimension: "status", ColumnDimensions: []string{"year", "transaction_type"}}
	res := ComputePivot(recs, cfg)

	for i := 1; i < len(res.Rows); i++ {
		assert.Greater(t, res.Rows[i-1], res.Rows[i], "rows strictly descending")
	}
	for i := 1; i < len(res.Columns); i++ {
		assert.Less(t, res.Columns[i-1].Key, res.Columns[i].Key, "columns strictly ascending")
	}

	// Each cell equals the sum of the matching records.
	for _, r := range recs {
		row := r["status"].(string)
		col := models.JoinColumnKey([]string{r["year"].(string), r["transaction_type"].(string)})
		var want float64
		for _, o := range recs {
			if o["status"] == r["status"] && o["year"] == r["year"] && o["transaction_type"] == r["transaction_type"] {
				want += toNumber(o["amount"])
			}
		}
		assert.Equal(t, want, res.Data[row][col])
	}

	spans := 0
	for _, n := range res.ColumnTree {
		spans += n.Span
	}
	assert.Equal(t, len(res.Columns), spans)
	assert.Equal(t, 480.0, res.GrandTotal)
}

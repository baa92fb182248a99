package engine

import "pivotreport/internal/models"

// ComputePivot groups records, builds the column header forest and the totals.
// The configuration is echoed back unchanged.
func ComputePivot(records []models.Record, cfg models.DimensionConfig) *models.PivotResult {
	g := Group(records, cfg)
	tree := BuildHierarchy(g.ColumnKeys)
	totals := ComputeTotals(g.RowKeys, g.ColumnKeys, g.Cells)

	columns := make([]models.Column, len(g.ColumnKeys))
	for i, k := range g.ColumnKeys {
		columns[i] = models.Column{Key: k, Labels: models.SplitColumnKey(k)}
	}

	return &models.PivotResult{
		Rows:         g.RowKeys,
		Columns:      columns,
		ColumnTree:   tree,
		MaxDepth:     MaxDepth(tree),
		Data:         g.Cells,
		RowTotals:    totals.RowTotals,
		ColumnTotals: totals.ColumnTotals,
		GrandTotal:   totals.GrandTotal,
		Config:       cfg,
	}
}

package engine

import (
	"sort"

	"pivotreport/internal/models"
)

// accessor reads one field from a record.
type accessor func(models.Record) any

func field(name string) accessor {
	return func(r models.Record) any { return r[name] }
}

// Group buckets records by the row dimension and the composite column key,
// then reduces each cell with the configured aggregation.
//
// Row keys are sorted descending and column keys ascending.
func Group(records []models.Record, cfg models.DimensionConfig) models.GroupResult {
	cfg = cfg.WithDefaults()

	// 1. Resolve accessors once per configuration
	rowOf := field(cfg.RowDimension)
	colsOf := make([]accessor, len(cfg.ColumnDimensions))
	for i, d := range cfg.ColumnDimensions {
		colsOf[i] = field(d)
	}
	valueOf := field(cfg.ValueField)

	// 2. Accumulate
	stats := make(map[string]map[string]*cellStats)
	cols := make(map[string]struct{})
	labels := make([]string, len(colsOf))

	for _, rec := range records {
		rowKey := labelOf(rowOf(rec), cfg.Placeholder)
		for i, get := range colsOf {
			labels[i] = labelOf(get(rec), cfg.Placeholder)
		}
		colKey := models.JoinColumnKey(labels)

		row, ok := stats[rowKey]
		if !ok {
			row = make(map[string]*cellStats)
			stats[rowKey] = row
		}
		cell, ok := row[colKey]
		if !ok {
			cell = &cellStats{}
			row[colKey] = cell
			cols[colKey] = struct{}{}
		}
		cell.add(toNumber(valueOf(rec)))
	}

	// 3. Reduce and order
	res := models.GroupResult{
		RowKeys:    make([]string, 0, len(stats)),
		ColumnKeys: make([]string, 0, len(cols)),
		Cells:      make(models.Cells, len(stats)),
	}
	for rowKey, row := range stats {
		res.RowKeys = append(res.RowKeys, rowKey)
		out := make(map[string]float64, len(row))
		for colKey, cell := range row {
			out[colKey] = cell.Aggregate(cfg.Aggregation)
		}
		res.Cells[rowKey] = out
	}
	for colKey := range cols {
		res.ColumnKeys = append(res.ColumnKeys, colKey)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(res.RowKeys)))
	sort.Strings(res.ColumnKeys)

	return res
}

package models

// Record is one transactional fact keyed by field name. Values are strings or numbers.
type Record map[string]any

// Aggregation names the reduction applied to the values of a pivot cell.
type Aggregation string

const (
	AggSum   Aggregation = "sum"
	AggCount Aggregation = "count"
	AggAvg   Aggregation = "avg"
	AggMin   Aggregation = "min"
	AggMax   Aggregation = "max"
)

// DefaultValueField is aggregated when a configuration names no value field.
const DefaultValueField = "amount"

// DefaultPlaceholder replaces a missing or empty dimension value.
const DefaultPlaceholder = "(blank)"

// DimensionConfig selects how records are bucketed into rows and columns.
type DimensionConfig struct {
	RowDimension     string      `json:"rowDimension" yaml:"row_dimension"`
	ColumnDimensions []string    `json:"columnDimensions" yaml:"column_dimensions"`
	ValueField       string      `json:"valueField,omitempty" yaml:"value_field"`
	Aggregation      Aggregation `json:"aggregation,omitempty" yaml:"aggregation"`
	Placeholder      string      `json:"placeholder,omitempty" yaml:"placeholder"`
}

// Column is one leaf column of the pivot: its composite key and per-dimension labels.
type Column struct {
	Key    string   `json:"key"`
	Labels []string `json:"labels"`
}

// ColumnNode is a header cell in the column hierarchy.
// Children is nil for terminal nodes.
type ColumnNode struct {
	Label    string        `json:"label"`
	Span     int           `json:"colspan"`
	Depth    int           `json:"level"`
	Children []*ColumnNode `json:"children"`
	IsLeaf   bool          `json:"isLeaf"`
}

// Cells maps row key -> column key -> aggregated value.
type Cells map[string]map[string]float64

// GroupResult is the output of the grouping stage.
type GroupResult struct {
	RowKeys    []string
	ColumnKeys []string
	Cells      Cells
}

// Totals holds row, column and grand totals of a pivot.
type Totals struct {
	RowTotals    map[string]float64 `json:"rowTotals"`
	ColumnTotals map[string]float64 `json:"columnTotals"`
	GrandTotal   float64            `json:"grandTotal"`
}

// PivotResult is everything a renderer needs to draw the pivot table.
type PivotResult struct {
	Rows         []string           `json:"rows"`
	Columns      []Column           `json:"columns"`
	ColumnTree   []*ColumnNode      `json:"columnTree"`
	MaxDepth     int                `json:"maxDepth"`
	Data         Cells              `json:"data"`
	RowTotals    map[string]float64 `json:"rowTotals"`
	ColumnTotals map[string]float64 `json:"columnTotals"`
	GrandTotal   float64            `json:"grandTotal"`
	Config       DimensionConfig    `json:"config"`
}

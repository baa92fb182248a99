package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrNoRowDimension     = errors.New("row dimension is required")
	ErrNoColumnDimensions = errors.New("select at least one column dimension")
	ErrUnknownDimension   = errors.New("unknown dimension")
	ErrRowInColumns       = errors.New("row dimension is also a column dimension")
	ErrDuplicateDimension = errors.New("duplicate column dimension")
	ErrUnknownAggregation = errors.New("unknown aggregation")
)

// ParseAggregation maps a name to an Aggregation. The empty string means sum.
func ParseAggregation(s string) (Aggregation, error) {
	switch a := Aggregation(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return AggSum, nil
	case AggSum, AggCount, AggAvg, AggMin, AggMax:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAggregation, s)
	}
}

// WithDefaults fills the value field, aggregation and placeholder when unset.
func (c DimensionConfig) WithDefaults() DimensionConfig {
	if c.ValueField == "" {
		c.ValueField = DefaultValueField
	}
	if c.Aggregation == "" {
		c.Aggregation = AggSum
	}
	if c.Placeholder == "" {
		c.Placeholder = DefaultPlaceholder
	}
	return c
}

// Validate checks the configuration against the allowed dimension names.
// An empty allow-list accepts any name.
func (c DimensionConfig) Validate(allowed []string) error {
	if c.RowDimension == "" {
		return ErrNoRowDimension
	}
	if len(c.ColumnDimensions) == 0 {
		return ErrNoColumnDimensions
	}
	if _, err := ParseAggregation(string(c.Aggregation)); err != nil {
		return err
	}

	known := func(name string) bool {
		return len(allowed) == 0 || slices.Contains(allowed, name)
	}
	if !known(c.RowDimension) {
		return fmt.Errorf("%w: %q", ErrUnknownDimension, c.RowDimension)
	}

	seen := make(map[string]bool, len(c.ColumnDimensions))
	for _, d := range c.ColumnDimensions {
		switch {
		case !known(d):
			return fmt.Errorf("%w: %q", ErrUnknownDimension, d)
		case d == c.RowDimension:
			return fmt.Errorf("%w: %q", ErrRowInColumns, d)
		case seen[d]:
			return fmt.Errorf("%w: %q", ErrDuplicateDimension, d)
		}
		seen[d] = true
	}
	return nil
}

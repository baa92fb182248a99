package main

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"pivotreport/internal/engine"
	"pivotreport/internal/models"
)

func newPivotCmd(opts *options) *cobra.Command {
	var (
		row    string
		cols   []string
		value  string
		agg    string
		indent bool
	)

	cmd := &cobra.Command{
		Use:   "pivot",
		Short: "Compute one pivot over the dataset and print it as JSON",
		Example: `  server pivot --row year --col status --col transaction_type
  server pivot --data data/transactions.csv --row status --col year --agg avg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			var aggregation models.Aggregation
			if agg != "" {
				if aggregation, err = models.ParseAggregation(agg); err != nil {
					return err
				}
			}
			dc := cfg.Pivot.Defaults(models.DimensionConfig{
				RowDimension:     row,
				ColumnDimensions: cols,
				ValueField:       value,
				Aggregation:      aggregation,
			})
			if err := dc.Validate(cfg.Pivot.Dimensions); err != nil {
				return err
			}

			recs, err := engine.LoadFiles(cmd.Context(), cfg.Data.Files, log)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if indent {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(engine.ComputePivot(recs, dc))
		},
	}

	cmd.Flags().StringVar(&row, "row", "year", "row dimension")
	cmd.Flags().StringSliceVar(&cols, "col", []string{"status"}, "column dimensions, outermost first")
	cmd.Flags().StringVar(&value, "value", "", "value field to aggregate")
	cmd.Flags().StringVar(&agg, "agg", "", "aggregation: sum, count, avg, min, max")
	cmd.Flags().BoolVar(&indent, "indent", true, "indent JSON output")
	return cmd
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-wta-metrics/internal/aggregator"
	"github.com/pable/go-wta-metrics/internal/dataset"
	"github.com/pable/go-wta-metrics/internal/model"
	"github.com/pable/go-wta-metrics/internal/report"
)

var upsetsCmd = &cobra.Command{
	Use:   "upsets",
	Short: "Show upset rate, odds gap and the yearly upset trend",
	Long: `Show the upset count and rate for the selection, the mean odds gap over
rows that carry one, and, when no single year is selected, the upset rate per
year on the selected surfaces.`,
	Args: cobra.NoArgs,
	RunE: runUpsets,
}

func init() {
	addFilterFlags(upsetsCmd)
}

func runUpsets(cmd *cobra.Command, args []string) error {
	d, err := loadDataset()
	if err != nil {
		return err
	}
	f, err := buildFilter(d, filterYear, filterSurfaces)
	if err != nil {
		return err
	}
	showUpsets(os.Stdout, d, f)
	return nil
}

func showUpsets(w io.Writer, d *dataset.Dataset, f model.Filter) {
	view := aggregator.FilterByYearAndSurface(d.Records, f)
	fmt.Fprintf(w, "\n=== Upsets (%s) ===\n\n", report.FilterLabel(f))
	report.PrintUpsetSummary(w, aggregator.Upsets(view), len(view))

	if !f.SpansAllYears() {
		fmt.Fprintf(w, "Yearly trend is shown for all years only (selected: %d).\n", f.Year)
		return
	}
	fmt.Fprintf(w, "--- Upset rate by year ---\n\n")
	report.PrintUpsetTrend(w, aggregator.YearlyUpsetTrend(d.Records, f.Surfaces))
}

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

var surfacesCmd = &cobra.Command{
	Use:   "surfaces",
	Short: "Show the match count per court surface",
	Args:  cobra.NoArgs,
	RunE:  runSurfaces,
}

func init() {
	addFilterFlags(surfacesCmd)
}

func runSurfaces(cmd *cobra.Command, args []string) error {
	d, err := loadDataset()
	if err != nil {
		return err
	}
	f, err := buildFilter(d, filterYear, filterSurfaces)
	if err != nil {
		return err
	}
	showSurfaces(os.Stdout, d, f)
	return nil
}

func showSurfaces(w io.Writer, d *dataset.Dataset, f model.Filter) {
	view := aggregator.FilterByYearAndSurface(d.Records, f)
	fmt.Fprintf(w, "\n=== Surfaces (%s) ===\n\n", report.FilterLabel(f))
	report.PrintSurfaceCounts(w, aggregator.SurfaceCounts(view), len(view))
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-wta-metrics/internal/aggregator"
	"github.com/pable/go-wta-metrics/internal/report"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Print the filtered match rows",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

func init() {
	addFilterFlags(browseCmd)
	browseCmd.Flags().Int("limit", 50, "maximum rows to print (0 = all)")
	mustBind("limit", browseCmd.Flags().Lookup("limit"))
}

func runBrowse(cmd *cobra.Command, args []string) error {
	d, err := loadDataset()
	if err != nil {
		return err
	}
	f, err := buildFilter(d, filterYear, filterSurfaces)
	if err != nil {
		return err
	}
	view := aggregator.FilterByYearAndSurface(d.Records, f)
	fmt.Fprintf(os.Stdout, "\n=== Matches (%s) ===\n\n", report.FilterLabel(f))
	report.PrintMatches(os.Stdout, view, cfg.Limit)
	return nil
}

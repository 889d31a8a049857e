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

// overviewCmd prints headline KPIs, top winners and the round distribution.
var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show KPIs, top winners and round distribution",
	Args:  cobra.NoArgs,
	RunE:  runOverview,
}

func init() {
	addFilterFlags(overviewCmd)
	overviewCmd.Flags().Int("top", 10, "number of players in the top-winners ranking")
	mustBind("top", overviewCmd.Flags().Lookup("top"))
}

func runOverview(cmd *cobra.Command, args []string) error {
	d, err := loadDataset()
	if err != nil {
		return err
	}
	f, err := buildFilter(d, filterYear, filterSurfaces)
	if err != nil {
		return err
	}
	showOverview(os.Stdout, d, f, cfg.Top)
	return nil
}

func showOverview(w io.Writer, d *dataset.Dataset, f model.Filter, top int) {
	view := aggregator.FilterByYearAndSurface(d.Records, f)
	report.PrintOverview(w, f, aggregator.Summarize(view))
	if len(view) == 0 {
		fmt.Fprintln(w, "No matches for the current selection.")
		return
	}

	fmt.Fprintf(w, "--- Top %d winners ---\n\n", top)
	report.PrintTopWinners(w, aggregator.TopWinners(view, top))

	fmt.Fprintf(w, "\n--- Matches by round ---\n\n")
	report.PrintRoundDistribution(w, aggregator.RoundDistribution(view), len(view))
}

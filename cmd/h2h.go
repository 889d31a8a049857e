package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-wta-metrics/internal/aggregator"
	"github.com/pable/go-wta-metrics/internal/dataset"
	"github.com/pable/go-wta-metrics/internal/report"
)

var h2hFormat string

// h2hCmd compares two players across every match they played against each other.
var h2hCmd = &cobra.Command{
	Use:   "h2h <playerA> <playerB>",
	Short: "Show the head-to-head record between two players",
	Long: `Show total meetings, wins for each player, the win split per surface and
the full match history, oldest first. Player names must match the dataset
exactly; use 'players --search' to look them up.`,
	Args: cobra.ExactArgs(2),
	RunE: runH2H,
}

func init() {
	h2hCmd.Flags().StringVar(&h2hFormat, "format", formatTable, "output format: table, json or yaml")
}

func runH2H(cmd *cobra.Command, args []string) error {
	if err := validateFormat(h2hFormat); err != nil {
		return err
	}
	d, err := loadDataset()
	if err != nil {
		return err
	}
	return showH2H(os.Stdout, d, args[0], args[1], h2hFormat)
}

func showH2H(w io.Writer, d *dataset.Dataset, a, b, format string) error {
	if err := aggregator.ValidatePair(a, b); err != nil {
		return err
	}
	for _, p := range []string{a, b} {
		if err := requirePlayer(d, p); err != nil {
			return err
		}
	}
	h, err := aggregator.HeadToHead(d.Records, a, b)
	if err != nil {
		return fmt.Errorf("head-to-head: %w", err)
	}
	return render(w, format, h, func() { report.PrintHeadToHead(w, h) })
}

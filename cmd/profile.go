package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-wta-metrics/internal/aggregator"
	"github.com/pable/go-wta-metrics/internal/dataset"
	"github.com/pable/go-wta-metrics/internal/report"
)

var profileFormat string

var profileCmd = &cobra.Command{
	Use:   "profile <player>",
	Short: "Show a player's career profile",
	Long: `Show total matches, wins and win rate, favorite surface (most wins, ties
broken alphabetically), wins per surface and per year, and the most recent
matches, newest first.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().Int("recent", aggregator.DefaultRecent, "number of recent matches to list")
	profileCmd.Flags().StringVar(&profileFormat, "format", formatTable, "output format: table, json or yaml")
	mustBind("recent", profileCmd.Flags().Lookup("recent"))
}

func runProfile(cmd *cobra.Command, args []string) error {
	if err := validateFormat(profileFormat); err != nil {
		return err
	}
	d, err := loadDataset()
	if err != nil {
		return err
	}
	return showProfile(os.Stdout, d, args[0], cfg.Recent, profileFormat)
}

func showProfile(w io.Writer, d *dataset.Dataset, player string, recent int, format string) error {
	if err := requirePlayer(d, player); err != nil {
		return err
	}
	p := aggregator.PlayerProfile(d.Records, player, recent)
	return render(w, format, p, func() { report.PrintProfile(w, p) })
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-wta-metrics/internal/report"
)

var playersSearch string

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List players in the dataset",
	Args:  cobra.NoArgs,
	RunE:  runPlayers,
}

func init() {
	playersCmd.Flags().StringVarP(&playersSearch, "search", "s", "", "only names containing this text (case-insensitive)")
}

func runPlayers(cmd *cobra.Command, args []string) error {
	d, err := loadDataset()
	if err != nil {
		return err
	}
	report.PrintPlayers(os.Stdout, d.SearchPlayers(playersSearch), len(d.Players))
	return nil
}

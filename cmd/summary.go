package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-wta-metrics/internal/model"
	"github.com/pable/go-wta-metrics/internal/report"
)

const summaryTopPlayers = 10

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all datasets stored in the database:
dataset and match counts, date range, distinct players, and the most active
players of the newest dataset.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	var (
		newest  model.DatasetSummary
		players []model.PlayerActivity
	)
	if ov.Datasets > 0 {
		list, err := db.ListDatasets()
		if err != nil {
			return fmt.Errorf("list datasets: %w", err)
		}
		newest = list[0]
		players, err = db.GetMostActivePlayers(newest.Hash, summaryTopPlayers)
		if err != nil {
			return fmt.Errorf("get top players: %w", err)
		}
	}
	report.PrintDatabaseSummary(os.Stdout, ov, newest, players)
	return nil
}

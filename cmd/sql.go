package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-wta-metrics/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  datasets(hash, source, imported_at, row_count)
  matches(dataset_hash, row_num, match_date, tournament, surface, round,
    player_1, player_2, winner, score, sets_played, upset, odds_gap, year)

Dates are stored as TEXT (YYYY-MM-DD HH:MM:SS); upset is 0/1; odds_gap is NULL when
the source cell was empty. Example:
  wtametrics sql "SELECT winner, COUNT(*) AS wins FROM matches GROUP BY winner ORDER BY wins DESC LIMIT 5"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	report.PrintQueryResult(os.Stdout, cols, rows)
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-wta-metrics/internal/aggregator"
	"github.com/pable/go-wta-metrics/internal/dataset"
	"github.com/pable/go-wta-metrics/internal/model"
	"github.com/pable/go-wta-metrics/internal/report"
)

// importCmd validates a CSV and stores it as a snapshot in the database.
var importCmd = &cobra.Command{
	Use:   "import <matches.csv>",
	Short: "Validate a matches CSV and store it in the database",
	Long: `Load and validate a matches CSV, then store every row in the SQLite
database under the SHA-256 of the file. Importing the same bytes twice is a
no-op. Stored datasets can be analysed with --from-db <hash-prefix>.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	fmt.Fprintf(os.Stdout, "Loading %s...\n", path)
	d, err := dataset.Load(path)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	exists, err := db.DatasetExists(d.Hash)
	if err != nil {
		return fmt.Errorf("check dataset: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "Dataset %s already stored.\n", d.Hash[:12])
		return nil
	}

	summary := model.DatasetSummary{
		Hash:       d.Hash,
		Source:     filepath.Base(path),
		ImportedAt: time.Now().UTC().Format(time.RFC3339),
		RowCount:   len(d.Records),
	}
	if err := db.InsertDataset(summary); err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}
	if err := db.InsertMatches(d.Hash, d.Records); err != nil {
		return fmt.Errorf("insert matches: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Stored %s as %s (%d players, %d seasons).\n",
		summary.Source, d.Hash[:12], len(d.Players), len(d.Years))
	report.PrintOverview(os.Stdout, model.Filter{}, aggregator.Summarize(d.Records))
	return nil
}

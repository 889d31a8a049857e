package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-wta-metrics/internal/report"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List all stored datasets",
	Args:  cobra.NoArgs,
	RunE:  runDatasets,
}

func runDatasets(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	list, err := db.ListDatasets()
	if err != nil {
		return fmt.Errorf("list datasets: %w", err)
	}
	report.PrintDatasets(os.Stdout, list)
	return nil
}

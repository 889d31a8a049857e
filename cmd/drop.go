package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

// dropCmd deletes one stored dataset, or the whole database file.
var dropCmd = &cobra.Command{
	Use:   "drop [hash-prefix]",
	Short: "Delete a stored dataset, or the whole metrics database",
	Long: `With a hash prefix, delete that dataset and its rows. Without one,
permanently delete the SQLite metrics database; re-import your CSVs afterwards
to rebuild it. Either way --force is required.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return dropDataset(args[0])
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", cfg.DB)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(cfg.DB); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	// WAL side files.
	os.Remove(cfg.DB + "-wal")
	os.Remove(cfg.DB + "-shm")
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", cfg.DB)
	return nil
}

func dropDataset(prefix string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := db.GetDatasetByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("find dataset: %w", err)
	}
	if s == nil {
		return fmt.Errorf("no stored dataset with prefix %q", prefix)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will delete dataset %s (%s, %d rows).\n", s.Hash[:12], s.Source, s.RowCount)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := db.DeleteDataset(s.Hash); err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted dataset %s\n", s.Hash[:12])
	return nil
}

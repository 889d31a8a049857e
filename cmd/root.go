package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pable/go-wta-metrics/internal/config"
	"github.com/pable/go-wta-metrics/internal/dataset"
	"github.com/pable/go-wta-metrics/internal/storage"
)

var (
	cfgFile string

	v      = viper.New()
	cfg    *config.Config
	logger = logrus.New()
	cache  *dataset.Cache
)

var rootCmd = &cobra.Command{
	Use:   "wtametrics",
	Short: "WTA match statistics tool",
	Long: `Load a CSV of WTA matches and explore it: overview KPIs, surface
breakdown, upset analysis, head-to-head records and player profiles.

Settings resolve from flags, then WTAMETRICS_* environment variables (a .env
file in the working directory is read first), then ~/.wtametrics/config.yaml.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ~/.wtametrics/config.yaml)")
	pf.String("data", "", "path to the matches CSV (default wta_processed.csv)")
	pf.String("db", "", "path to SQLite database (default ~/.wtametrics/metrics.db)")
	pf.String("from-db", "", "read the stored dataset with this hash prefix instead of the CSV")
	pf.BoolP("verbose", "v", false, "debug logging to stderr")

	mustBind("data", pf.Lookup("data"))
	mustBind("db", pf.Lookup("db"))
	mustBind("from_db", pf.Lookup("from-db"))
	mustBind("verbose", pf.Lookup("verbose"))

	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(surfacesCmd)
	rootCmd.AddCommand(upsetsCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(h2hCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(shellCmd)
}

func mustBind(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	c, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	cfg = c

	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if cfg.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	logger.WithFields(logrus.Fields{"data": cfg.Data, "db": cfg.DB, "from_db": cfg.FromDB}).Debug("config resolved")

	cache = dataset.NewCache(logger)
	return nil
}

// openDB opens the configured database, creating its directory if needed.
func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DB), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// loadDataset returns the working dataset: a stored snapshot when --from-db
// is set, otherwise the CSV at --data through the process-wide cache.
func loadDataset() (*dataset.Dataset, error) {
	if cfg.FromDB == "" {
		d, err := cache.Get(cfg.Data)
		if err != nil {
			return nil, fmt.Errorf("load dataset: %w", err)
		}
		return d, nil
	}
	return loadStored(cfg.FromDB)
}

func loadStored(prefix string) (*dataset.Dataset, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	s, err := db.GetDatasetByPrefix(prefix)
	if err != nil {
		return nil, fmt.Errorf("find dataset: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("no stored dataset with prefix %q", prefix)
	}
	recs, err := db.LoadMatches(s.Hash)
	if err != nil {
		return nil, fmt.Errorf("load stored matches: %w", err)
	}
	logger.WithFields(logrus.Fields{"hash": s.Hash[:12], "rows": len(recs)}).Debug("loaded stored dataset")
	return dataset.FromRecords(s.Source, s.Hash, recs), nil
}

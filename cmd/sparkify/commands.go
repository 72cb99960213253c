package main

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/cesargomez89/sparkify/internal/app"
	"github.com/cesargomez89/sparkify/internal/config"
	"github.com/cesargomez89/sparkify/internal/logger"
	"github.com/cesargomez89/sparkify/internal/store"
)

// flags holds command line overrides; empty values leave the loaded config alone.
type flags struct {
	configPath  string
	driver      string
	catalogRoot string
	eventRoot   string
	batchSize   int
	logLevel    string
	recreateDB  bool
}

type cli struct {
	cfg *config.Config
	log *logger.Logger
}

func rootCommand() *cobra.Command {
	f := &flags{}
	rt := &cli{}

	rootCmd := &cobra.Command{
		Use:           "sparkify",
		Short:         "Load song catalog and listening event logs into the analytics schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			rt.cfg = cfg
			rt.log = logger.New(logger.Config{
				Output: cmd.OutOrStdout(),
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
			})
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Path to a YAML config file")
	pf.StringVar(&f.driver, "driver", "", "Database driver: pgx or sqlite")
	pf.StringVar(&f.catalogRoot, "catalog-root", "", "Directory tree of song catalog files")
	pf.StringVar(&f.eventRoot, "event-root", "", "Directory tree of event log files")
	pf.IntVar(&f.batchSize, "batch-size", 0, "Rows per multi-row insert for time and songplay rows")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate the five tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.reset(cmd.Context(), f.recreateDB)
		},
	}
	resetCmd.Flags().BoolVar(&f.recreateDB, "recreate-db", false, "Drop and create the database itself first")

	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Load the catalog root and then the event root",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.load(cmd.Context())
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Reset the schema, then load both roots",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.reset(cmd.Context(), f.recreateDB); err != nil {
				return err
			}
			return rt.load(cmd.Context())
		},
	}
	runCmd.Flags().BoolVar(&f.recreateDB, "recreate-db", false, "Drop and create the database itself first")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print row counts of every table as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rt.open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			stats, err := db.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	rootCmd.AddCommand(resetCmd, loadCmd, runCmd, statsCmd)
	return rootCmd
}

func (f *flags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("driver") {
		cfg.Database.Driver = f.driver
	}
	if changed("catalog-root") {
		cfg.CatalogRoot = f.catalogRoot
	}
	if changed("event-root") {
		cfg.EventRoot = f.eventRoot
	}
	if changed("batch-size") {
		cfg.BatchSize = f.batchSize
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
}

func (rt *cli) open(ctx context.Context) (*store.DB, error) {
	db, err := store.Open(ctx, rt.cfg.Database.Driver, rt.cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", rt.cfg.Database.Driver, err)
	}
	return db, nil
}

func (rt *cli) reset(ctx context.Context, recreateDB bool) error {
	log := rt.log.WithComponent("schema")
	if recreateDB {
		if err := store.RecreateDatabase(ctx, rt.cfg.Database); err != nil {
			return err
		}
		log.Info("Database recreated", "database", rt.cfg.Database.Name)
	}

	db, err := rt.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Reset(ctx); err != nil {
		return err
	}
	log.Info("Tables reset")
	return nil
}

func (rt *cli) load(ctx context.Context) error {
	db, err := rt.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	loader := app.NewLoader(db, rt.log, app.Options{
		Extension: rt.cfg.Extension,
		BatchSize: rt.cfg.BatchSize,
	})
	results, err := loader.RunAll(ctx, rt.cfg.CatalogRoot, rt.cfg.EventRoot)
	if err != nil {
		return err
	}
	for _, r := range results {
		rt.log.Info("Load finished", "run_id", r.RunID, "kind", r.Kind, "files", r.FilesProcessed, "records", r.Records)
	}
	return nil
}

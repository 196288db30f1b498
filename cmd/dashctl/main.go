package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"dialysisdash/adapters/excel"
	"dialysisdash/adapters/plot"
	"dialysisdash/adapters/postgres"
	"dialysisdash/adapters/source"
	"dialysisdash/app"
	"dialysisdash/domain/facility"
	"dialysisdash/internal"
	"dialysisdash/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	rootCmd := &cobra.Command{
		Use:   "dashctl",
		Short: "Offline tools for the dialysis dashboard dataset",
	}

	rootCmd.AddCommand(
		newInspectCmd(),
		newExportCmd(),
		newSeedCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newInspectCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load the dataset and print the load report",
		Long: `Load the configured dataset exactly as the server would and print what was
kept and dropped.

Example: dashctl inspect --file data/DialysisCareQualityData2.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, report, err := loadDataset(cmd.Context(), file)
			if err != nil {
				return err
			}
			out := struct {
				*app.LoadReport
				ColumnNames []string `json:"column_names"`
			}{report, ds.Columns()}
			return printJSON(out)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Data file or s3:// URL (overrides DATA_FILE)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		file           string
		riskFactor     string
		stratification string
		outDir         string
		format         string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the three linked charts to image files",
		Long: `Render the scatter and both bar charts for one risk factor and stratification.

Example: dashctl export --risk-factor PctgBlackACS --stratification Division --out charts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := plot.Format(strings.ToLower(format))
			if f != plot.FormatPNG && f != plot.FormatSVG {
				return fmt.Errorf("unsupported format %q (use png or svg)", format)
			}
			return runExport(cmd.Context(), file, facility.Field(riskFactor), facility.Field(stratification), outDir, f)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Data file or s3:// URL (overrides DATA_FILE)")
	cmd.Flags().StringVar(&riskFactor, "risk-factor", string(facility.FieldStaffPatientRatio), "Risk factor column")
	cmd.Flags().StringVar(&stratification, "stratification", string(facility.FieldRegion), "Stratification column")
	cmd.Flags().StringVar(&outDir, "out", "charts", "Output directory")
	cmd.Flags().StringVar(&format, "format", "png", "Image format: png or svg")
	return cmd
}

func newSeedCmd() *cobra.Command {
	var (
		file        string
		table       string
		databaseURL string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Copy a data file into the postgres table the server can read from",
		Long: `Replace a postgres table with the contents of a CSV, TSV or XLSX file, one TEXT
column per header. Point the server at it with DATA_SOURCE=postgres.

Example: dashctl seed --file data/DialysisCareQualityData2.csv --table dialysis_facilities`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return fmt.Errorf("--database-url or DATABASE_URL is required")
			}
			return runSeed(cmd.Context(), file, table, databaseURL)
		},
	}

	cmd.Flags().StringVar(&file, "file", "data/DialysisCareQualityData2.csv", "Data file to copy")
	cmd.Flags().StringVar(&table, "table", envOr("DATA_TABLE", "dialysis_facilities"), "Target table, optionally schema-qualified")
	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection URL")
	return cmd
}

// loadDataset runs the startup loader against the configured source, with an
// optional file override
func loadDataset(ctx context.Context, file string) (*facility.Dataset, *app.LoadReport, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if file != "" {
		if err := cfg.UseDataFile(file); err != nil {
			return nil, nil, err
		}
	}

	src, closeSource, err := source.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	defer closeSource()

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	return app.NewLoader(src, logger).Load(ctx)
}

func runExport(ctx context.Context, file string, riskFactor, stratification facility.Field, outDir string, format plot.Format) error {
	ds, _, err := loadDataset(ctx, file)
	if err != nil {
		return err
	}
	set, err := app.NewChartBinder(ds, facility.DefaultCatalog()).Bind(riskFactor, stratification)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", outDir, err)
	}

	renderer := plot.NewRenderer()
	g, gctx := errgroup.WithContext(ctx)
	for _, d := range set.Charts {
		d := d
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(outDir, d.ID+"."+string(format))
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := renderer.Render(f, d, format); err != nil {
				f.Close()
				return err
			}
			log.Printf("[Export] wrote %s", path)
			return f.Close()
		})
	}
	return g.Wait()
}

func runSeed(ctx context.Context, file, table, databaseURL string) error {
	data, err := excel.NewDataReader(file).ReadTable(ctx)
	if err != nil {
		return err
	}

	db, err := postgres.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := postgres.SeedFacilityTable(ctx, db, table, data)
	if err != nil {
		return err
	}
	log.Printf("[Seed] copied %d rows from %s into %s", n, file, table)
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// cmd/catalogctl/import.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/javajoker/grocery-browser/internal/database"
	"github.com/javajoker/grocery-browser/internal/services"
)

func newImportCmd() *cobra.Command {
	var (
		jsonlPath string
		dbPath    string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Append a JSONL scrape to the price history database",
		Long: `Import reads one product per line and appends it to the product_prices
table, keeping the rows of earlier runs. Blank lines are ignored and lines that
are not JSON objects are skipped.

Example:
  catalogctl import --jsonl product_info.jsonl
  catalogctl import --jsonl wow_product_info.jsonl --db products.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(jsonlPath)
			if err != nil {
				return fmt.Errorf("open %s: %w", jsonlPath, err)
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("stat %s: %w", jsonlPath, err)
			}

			db, err := openHistoryDB(dbPath)
			if err != nil {
				return err
			}
			defer database.Close(db)

			bar := newByteBar(info.Size(), "importing")
			history := services.NewHistoryService(db, nil)
			result, err := history.Import(context.Background(), io.TeeReader(f, bar), nil)
			_ = bar.Finish()
			if err != nil {
				return err
			}

			total, err := history.Count(context.Background())
			if err != nil {
				return err
			}

			p := newPrinter(os.Stdout)
			p.Success("Inserted %d rows from %s", result.Inserted, jsonlPath)
			if result.Skipped > 0 {
				fmt.Fprintf(p.out, "  skipped lines: %d\n", result.Skipped)
			}
			fmt.Fprintf(p.out, "  total rows: %d\n", total)
			return nil
		},
	}

	cmd.Flags().StringVar(&jsonlPath, "jsonl", "product_info.jsonl", "path to the JSONL scrape")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default: DB_SQLITE_PATH)")
	return cmd
}

// openHistoryDB connects with the configured database, or with the SQLite
// file at override when one is given, and makes sure the schema exists.
func openHistoryDB(override string) (*gorm.DB, error) {
	dbCfg := cfg.Database
	if override != "" {
		dbCfg.Driver = "sqlite"
		dbCfg.SQLitePath = override
	}
	if !verbose {
		dbCfg.LogLevel = "silent"
	}

	db, err := database.Initialize(dbCfg)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db); err != nil {
		database.Close(db)
		return nil, err
	}
	return db, nil
}

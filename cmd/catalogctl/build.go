// cmd/catalogctl/build.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/javajoker/grocery-browser/internal/catalog"
	"github.com/javajoker/grocery-browser/internal/models"
	"github.com/javajoker/grocery-browser/internal/services"
)

func newBuildCmd() *cobra.Command {
	var (
		stores []string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Merge per-store JSONL scrapes into a catalog document",
		Long: `Build groups records from every store by brand, title and package size,
turning each group into one product with per-store offers.

Example:
  catalogctl build --store walmart=walmart.jsonl --store superstore=superstore.jsonl --out data/products.json
  catalogctl build --store walmart=walmart.jsonl --out s3://my-bucket/products.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(stores) == 0 {
				return fmt.Errorf("at least one --store name=path is required")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()

			storage, err := services.NewStorageService(cfg.AWS)
			if err != nil {
				return err
			}

			sources := make([]catalog.StoreSource, 0, len(stores))
			for _, entry := range stores {
				name, location, ok := strings.Cut(entry, "=")
				if !ok || name == "" || location == "" {
					return fmt.Errorf("invalid --store %q, want name=path", entry)
				}
				records, err := readJSONL(ctx, storage, location)
				if err != nil {
					return err
				}
				logrus.WithFields(logrus.Fields{"store": name, "records": len(records)}).Info("Loaded store scrape")
				sources = append(sources, catalog.StoreSource{Store: name, Records: records})
			}

			products, stats := catalog.Merge(sources, nil)
			body, err := json.MarshalIndent(map[string]interface{}{"items": products}, "", "  ")
			if err != nil {
				return fmt.Errorf("encode catalog: %w", err)
			}
			if err := storage.Put(ctx, out, body, "application/json"); err != nil {
				return err
			}

			p := newPrinter(os.Stdout)
			p.Success("Wrote %d products to %s", stats.Groups, out)
			fmt.Fprintf(p.out, "  records loaded: %d\n  multi-store products: %d\n", stats.Loaded, stats.MultiStore)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&stores, "store", nil, "store scrape as name=path (repeatable)")
	cmd.Flags().StringVarP(&out, "out", "o", "data/products.json", "output location (path or s3://bucket/key)")
	return cmd
}

func readJSONL(ctx context.Context, storage *services.StorageService, location string) ([]models.RawRecord, error) {
	body, err := storage.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var records []models.RawRecord
	err = catalog.ScanJSONL(body, func(_ int, rec models.RawRecord) error {
		records = append(records, rec)
		return nil
	}, func(line int, err error) {
		logrus.WithFields(logrus.Fields{"file": location, "line": line}).WithError(err).Warn("Skipping line")
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	return records, nil
}

// cmd/catalogctl/search.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/javajoker/grocery-browser/internal/catalog"
	"github.com/javajoker/grocery-browser/internal/search"
	"github.com/javajoker/grocery-browser/internal/services"
)

func newSearchCmd() *cobra.Command {
	var (
		source string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Rank a catalog document against a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if source == "" {
				source = cfg.Catalog.Source
			}
			weights, err := search.LoadWeights(cfg.Search.ScoringConfig)
			if err != nil {
				return err
			}

			storage, err := services.NewStorageService(cfg.AWS)
			if err != nil {
				return err
			}
			body, err := storage.Open(context.Background(), source)
			if err != nil {
				return err
			}
			defer body.Close()

			raws, err := catalog.Decode(body)
			if err != nil {
				return err
			}
			products := catalog.NewNormalizer(catalog.NormalizerOptions{
				SearchURLTemplate: cfg.Catalog.SearchURLTemplate,
				ItemURLTemplate:   cfg.Catalog.ItemURLTemplate,
			}).NormalizeAll(raws)

			engine := search.NewEngine(search.NewScorer(weights), cfg.Search.MaxResults)
			query := strings.Join(args, " ")
			results := engine.Rank(products, query)

			p := newPrinter(os.Stdout)
			if len(results) == 0 {
				p.muted.Fprintf(p.out, "No matches for %q in %d products\n", query, len(products))
				return nil
			}

			p.header.Fprintf(p.out, "%d matches for %q\n", len(results), query)
			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}
			w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SCORE\tPRICE\tNAME\tBRAND")
			for _, r := range results {
				fmt.Fprintf(w, "%.3f\t%s\t%s\t%s\n",
					r.Score,
					p.money.Sprint(formatPrice(r.Product.Price)),
					truncate(r.Product.Name, 60),
					r.Product.Brand,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&source, "catalog", "", "catalog location (default: CATALOG_SOURCE)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of results to print")
	return cmd
}

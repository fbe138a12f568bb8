// cmd/catalogctl/history.go
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/javajoker/grocery-browser/internal/database"
	"github.com/javajoker/grocery-browser/internal/services"
)

func newHistoryCmd() *cobra.Command {
	var (
		dbPath string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent price history rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openHistoryDB(dbPath)
			if err != nil {
				return err
			}
			defer database.Close(db)

			history := services.NewHistoryService(db, nil)
			rows, err := history.Recent(context.Background(), limit)
			if err != nil {
				return err
			}

			p := newPrinter(os.Stdout)
			if len(rows) == 0 {
				p.muted.Fprintln(p.out, "No rows in product_prices")
				return nil
			}

			p.header.Fprintf(p.out, "Last %d rows in product_prices\n", len(rows))
			w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCRAPED AT\tITEM\tPRICE\tNAME")
			for _, r := range rows {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					r.ID,
					r.ScrapedAt.Format("2006-01-02 15:04:05"),
					r.ItemID,
					p.money.Sprint(formatPrice(r.Price)),
					truncate(r.ProductName, 60),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default: DB_SQLITE_PATH)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of rows to show")
	return cmd
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

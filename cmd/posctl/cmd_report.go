package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/warung-pos/internal/application/analytics"
	"github.com/jhoicas/warung-pos/internal/application/ledger"
	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/pkg/money"
)

var reportRange string

// posctl report --range daily|weekly|monthly
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Resumen de ventas del periodo (ingresos, ticket promedio, platos más vendidos)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, store, _, err := bootStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		snap, err := store.Client.ReadOnce(ctx, ports.PathOrders)
		if err != nil {
			return err
		}
		orders, skipped, err := ledger.DecodeOrders(snap)
		if err != nil {
			return err
		}
		for _, key := range skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "pedido %s ilegible, se omite\n", key)
		}
		now := time.Now()
		r := analytics.ParseRange(reportRange)
		summary := analytics.Summarize(orders, r, now)

		var server *serverTotals
		if store.Revenue != nil {
			rev, n, err := store.Revenue.RevenueSince(ctx, now.Add(-r.Window()))
			if err != nil {
				return err
			}
			server = &serverTotals{Revenue: rev, Orders: n}
		}
		return writeReport(cmd.OutOrStdout(), summary, server)
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportRange, "range", "r", string(analytics.RangeDaily), "daily | weekly | monthly")
}

// serverTotals ingresos calculados por la base de datos, para contrastar con el cálculo local.
type serverTotals struct {
	Revenue decimal.Decimal
	Orders  int
}

func writeReport(w io.Writer, s analytics.Summary, server *serverTotals) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Periodo:\t%s\n", s.Range)
	fmt.Fprintf(tw, "Pedidos:\t%d\n", s.OrderCount)
	fmt.Fprintf(tw, "Ingresos:\t%s\n", money.Rupiah(s.Revenue))
	fmt.Fprintf(tw, "Ticket promedio:\t%s\n", money.Rupiah(s.AverageTransaction))
	if server != nil {
		fmt.Fprintf(tw, "Ingresos (postgres):\t%s en %d pedidos\n", money.Rupiah(server.Revenue), server.Orders)
	}
	if len(s.TopItems) > 0 {
		fmt.Fprintln(tw, "\nMás vendidos\tCant.\t%")
		for _, it := range s.TopItems {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", it.Name, it.Quantity, it.Percentage.StringFixed(2))
		}
	}
	return tw.Flush()
}

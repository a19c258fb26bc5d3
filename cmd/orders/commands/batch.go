package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/core/extract"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

type batchLine struct {
	Index   int                     `json:"index"`
	Skipped bool                    `json:"omitido,omitempty"`
	Invoice string                  `json:"factura,omitempty"`
	Saved   bool                    `json:"guardado"`
	Order   *entity.OrderExtraction `json:"pedido,omitempty"`
	Quality *entity.QualityReport   `json:"calidad,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

// batch <file>: process a chat export split on the message separator, one JSON line per message.
func batchCmd() *cobra.Command {
	var (
		workers int
		all     bool
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "batch <file|->",
		Short: fmt.Sprintf("Process messages separated by %q lines", constants.MessageSeparator),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			msgs := extract.SplitMessages(text)

			lines := make([]batchLine, len(msgs))
			var (
				todo  []string
				index []int
			)
			for i, m := range msgs {
				lines[i].Index = i
				if !all && !extract.LooksLikeOrder(m) {
					lines[i].Skipped = true
					continue
				}
				todo = append(todo, m)
				index = append(index, i)
			}

			if dryRun {
				for j, m := range todo {
					l := &lines[index[j]]
					order, report, err := appCtx.Orchestrator.Extract(cmd.Context(), m)
					if err != nil {
						l.Error = err.Error()
						continue
					}
					l.Order, l.Quality = &order, &report
				}
			} else {
				results, err := appCtx.Orders.HandleBatch(cmd.Context(), todo, workers)
				if err != nil {
					return err
				}
				for j, r := range results {
					l := &lines[index[j]]
					if r.Err != nil {
						l.Error = r.Err.Error()
						continue
					}
					l.Invoice, l.Saved = r.Result.InvoiceID, r.Result.Saved
					l.Order, l.Quality = &r.Result.Order, &r.Result.Quality
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			for _, l := range lines {
				if err := enc.Encode(l); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "messages processed concurrently")
	cmd.Flags().BoolVar(&all, "all", false, "skip the order-likeness prefilter")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "extract only; nothing is stored")
	return cmd
}

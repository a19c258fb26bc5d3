package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/orders-intake/internal/common"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

// extract [file|-]: extract one order and print it as JSON.
func extractCmd() *cobra.Command {
	var submit bool
	cmd := &cobra.Command{
		Use:   "extract [file|-]",
		Short: "Extract one order message and print it as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(msg) == "" {
				return fmt.Errorf("%w: empty input", common.ErrMessageTooShort)
			}

			if submit {
				res, err := appCtx.Orders.Handle(cmd.Context(), msg)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			}
			order, report, err := appCtx.Orchestrator.Extract(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), struct {
				Order   entity.OrderExtraction `json:"pedido"`
				Quality entity.QualityReport   `json:"calidad"`
			}{order, report})
		},
	}
	cmd.Flags().BoolVar(&submit, "submit", false, "store the order in the ledger and update the customer")
	return cmd
}

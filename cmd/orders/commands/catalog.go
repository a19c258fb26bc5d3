package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/orders-intake/internal/catalog"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and load the product catalog",
	}
	cmd.AddCommand(catalogListCmd(), catalogSearchCmd(), catalogImportCmd())
	return cmd
}

func catalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products from the configured catalog source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := appCtx.Catalog.GetCatalog(cmd.Context())
			if err != nil {
				return err
			}
			return printCatalog(cmd, c)
		},
	}
}

func catalogSearchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search products by code or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := appCtx.Catalog.GetCatalog(cmd.Context())
			if err != nil {
				return err
			}
			hits := catalog.Search(c, args[0], limit)
			if len(hits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return nil
			}
			found := make(entity.Catalog, 0, len(hits))
			for _, h := range hits {
				found = append(found, h.Entry)
			}
			return printCatalog(cmd, found)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum matches")
	return cmd
}

// catalog import <xlsx>: replace the SQL product table with a workbook's rows.
func catalogImportCmd() *cobra.Command {
	var sheet string
	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Replace the stored product table with a workbook (code | name | tax | price)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			c, err := catalog.ReadXLSX(f, sheet)
			if err != nil {
				return err
			}
			if len(c) == 0 {
				return fmt.Errorf("%s has no product rows", args[0])
			}
			if err := appCtx.Products.ReplaceAll(cmd.Context(), c); err != nil {
				return err
			}
			appCtx.InvalidateCatalog(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d products\n", len(c))
			return nil
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet name (default: first sheet)")
	return cmd
}

func printCatalog(cmd *cobra.Command, c entity.Catalog) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tPRICE\tIVA %")
	for _, e := range c {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Code, e.Name, e.UnitPrice.StringFixed(0), e.TaxRatePct.String())
	}
	return tw.Flush()
}

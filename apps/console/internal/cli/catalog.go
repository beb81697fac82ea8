package cli

import (
	"fmt"
	"io"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/policy"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/service"
	"github.com/spf13/cobra"
)

func (a *App) newCatalogCommand() *cobra.Command {
	var q service.CatalogQuery
	var sort string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the public catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.deps(ctx)
			if err != nil {
				return err
			}
			q.Sort = service.CatalogSort(sort)
			view, err := c.Products.Catalog(ctx, q)
			if err != nil {
				return err
			}
			return a.render(view, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
				for _, it := range view.Items {
					stock := fmt.Sprint(it.Quantity)
					if it.OutOfStock {
						stock = "out of stock"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						it.ID, it.Name, orDash(it.Category.Name), it.Price.StringFixed(2), stock)
				}
			})
		},
	}
	cmd.Flags().StringVar(&q.CategoryID, "category", "", "only products of this category id")
	cmd.Flags().StringVar(&sort, "sort", "", "price-asc, price-desc, name-asc or name-desc")
	return cmd
}

func (a *App) newProductsCommand() *cobra.Command {
	var f policy.ProductFilter
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the products you manage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.deps(ctx)
			if err != nil {
				return err
			}
			products, err := c.Products.Products(ctx, f)
			if err != nil {
				return err
			}
			return a.render(products, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tSUPPLIER\tPRICE\tQTY")
				for _, p := range products {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
						p.ID, p.Name, orDash(p.Category.Name), orDash(p.Supplier.Name), p.Price.StringFixed(2), p.Quantity)
				}
			})
		},
	}
	cmd.Flags().StringVar(&f.CategoryID, "category", "", "only products of this category id")
	cmd.Flags().StringVar(&f.SupplierID, "supplier", "", "only products of this supplier id (admin)")
	cmd.AddCommand(a.newStockCommand())
	return cmd
}

func (a *App) newStockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stock",
		Short: "Summarize stock levels of your products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.deps(ctx)
			if err != nil {
				return err
			}
			sum, err := c.Products.StockSummary(ctx)
			if err != nil {
				return err
			}
			return a.render(sum, func(w io.Writer) {
				fmt.Fprintf(w, "Total\t%d\n", sum.Total)
				fmt.Fprintf(w, "Well stocked\t%d\n", sum.WellStocked)
				fmt.Fprintf(w, "Low\t%d\n", sum.Low)
				fmt.Fprintf(w, "Out of stock\t%d\n", sum.OutOfStock)
				for _, p := range sum.LowStock {
					fmt.Fprintf(w, "  %s\t%d left\n", p.Name, p.Quantity)
				}
			})
		},
	}
}

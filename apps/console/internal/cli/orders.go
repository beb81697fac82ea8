package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/delivery"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/policy"
	"github.com/spf13/cobra"
)

func (a *App) newOrdersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List orders visible to you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.deps(ctx)
			if err != nil {
				return err
			}
			orders, err := c.Orders.List(ctx)
			if err != nil {
				return err
			}
			return a.render(orders, func(w io.Writer) {
				fmt.Fprintln(w, "NUMBER\tCLIENT\tSUPPLIER\tSTATUS\tITEMS\tTOTAL")
				for _, o := range orders {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
						orDash(o.OrderNumber), refLabel(o.Client), refLabel(o.Supplier),
						o.Status, len(o.Products), o.Total.StringFixed(2))
				}
			})
		},
	}
}

func (a *App) newDeliveriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deliveries",
		Aliases: []string{"delivery"},
		Short:   "List and update deliveries",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.deps(ctx)
			if err != nil {
				return err
			}
			views, err := c.Deliveries.List(ctx)
			if err != nil {
				return err
			}
			return a.printDeliveries(views)
		},
	}

	statuses := make([]string, len(domain.DeliveryStatuses))
	for i, s := range domain.DeliveryStatuses {
		statuses[i] = s.String()
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "set-status delivery-id status",
		Short:     "Change the status of a delivery",
		Long:      "Change the status of a delivery. Status is one of: " + strings.Join(statuses, ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: statuses,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.deps(ctx)
			if err != nil {
				return err
			}
			views, err := c.Deliveries.UpdateStatus(ctx, args[0], domain.DeliveryStatus(args[1]))
			if err != nil {
				return err
			}
			return a.printDeliveries(views)
		},
	})
	return cmd
}

func (a *App) printDeliveries(views []delivery.View) error {
	return a.render(views, func(w io.Writer) {
		fmt.Fprintln(w, "ID\tTRACKING\tORDER\tDELIVERER\tSTATUS\tNEXT")
		for _, v := range views {
			next := "-"
			if v.CanUpdate && len(v.Options) > 0 {
				opts := make([]string, 0, len(v.Options))
				for _, o := range v.Options {
					if o != v.Status {
						opts = append(opts, o.String())
					}
				}
				if len(opts) > 0 {
					next = strings.Join(opts, ",")
				}
			}
			order := v.Order.OrderNumber
			if order == "" {
				order = v.Order.ID
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				v.ID, orDash(v.TrackingNumber), orDash(order), refLabel(v.Deliverer), v.StatusLabel, next)
		}
	})
}

func (a *App) newUsersCommand() *cobra.Command {
	var role, status string
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := policy.ParseUserFilter(role, status)
			if err != nil {
				return err
			}
			c, err := a.deps(ctx)
			if err != nil {
				return err
			}
			users, err := c.Users.List(ctx, f)
			if err != nil {
				return err
			}
			return a.printUsers(users)
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "only users with this role")
	cmd.Flags().StringVar(&status, "status", "", "only users with this status")

	cmd.AddCommand(&cobra.Command{
		Use:   "set user-id role status",
		Short: "Change the role and status of a user",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.deps(ctx)
			if err != nil {
				return err
			}
			upd := domain.UserUpdate{Role: domain.ParseRole(args[1]), Status: domain.UserStatus(args[2])}
			users, err := c.Users.Update(ctx, args[0], upd)
			if err != nil {
				return err
			}
			return a.printUsers(users)
		},
	})
	return cmd
}

func (a *App) printUsers(users []domain.User) error {
	return a.render(users, func(w io.Writer) {
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tSTATUS")
		for _, u := range users {
			name := strings.TrimSpace(u.FirstName + " " + u.LastName)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, orDash(name), u.Email, u.Role, u.Status)
		}
	})
}

func (a *App) newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show statistics for your role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.deps(ctx)
			if err != nil {
				return err
			}
			stats, err := c.Stats.Get(ctx)
			if err != nil {
				return err
			}
			return a.render(stats, func(w io.Writer) {
				if s := stats.Supplier; s != nil {
					fmt.Fprintf(w, "Orders\t%d\n", s.TotalOrders)
					fmt.Fprintf(w, "Pending\t%d\n", s.PendingOrders)
					fmt.Fprintf(w, "Completed\t%d\n", s.CompletedOrders)
					fmt.Fprintf(w, "Revenue\t%s\n", s.TotalRevenue.StringFixed(2))
					if stats.CompletionRate != nil {
						fmt.Fprintf(w, "Completion rate\t%s%%\n", stats.CompletionRate.StringFixed(1))
					}
					if stats.AverageOrderValue != nil {
						fmt.Fprintf(w, "Average order\t%s\n", stats.AverageOrderValue.StringFixed(2))
					}
					fmt.Fprintf(w, "In transit\t%d\n", s.InTransitDeliveries)
					fmt.Fprintf(w, "Delivered\t%d\n", s.CompletedDeliveries)
				}
				if s := stats.Admin; s != nil {
					fmt.Fprintf(w, "Users\t%d\n", s.TotalUsers)
					fmt.Fprintf(w, "Clients\t%d\n", s.TotalClients)
					fmt.Fprintf(w, "Suppliers\t%d\n", s.TotalSuppliers)
					fmt.Fprintf(w, "Products\t%d\n", s.TotalProducts)
					fmt.Fprintf(w, "Categories\t%d\n", s.TotalCategories)
					fmt.Fprintf(w, "Low stock\t%d\n", s.LowStockProducts)
					fmt.Fprintf(w, "Deliveries\t%d\n", s.TotalDeliveries)
					fmt.Fprintf(w, "In transit\t%d\n", s.InTransitDeliveries)
					fmt.Fprintf(w, "Delivered\t%d\n", s.CompletedDeliveries)
				}
			})
		},
	}
}

// refLabel prefers a populated name over the bare id
func refLabel(r domain.Ref) string {
	switch {
	case r.Name != "":
		return r.Name
	case r.FirstName != "" || r.LastName != "":
		return strings.TrimSpace(r.FirstName + " " + r.LastName)
	default:
		return orDash(r.ID)
	}
}

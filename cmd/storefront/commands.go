package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-storefront-client/catalog"
	"github.com/jrsteele09/go-storefront-client/internal/config"
	"github.com/jrsteele09/go-storefront-client/internal/utils"
	"github.com/jrsteele09/go-storefront-client/orders"
	"github.com/jrsteele09/go-storefront-client/routeguard"
	"github.com/jrsteele09/go-storefront-client/session"
)

func newRootCmd(a *app, cfg config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Command-line client for the marketplace storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if cmd.Name() == "help" {
			displayAppName(cfg.GetAppName())
		}
	}

	rootCmd.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newRegisterCmd(a),
		newWhoamiCmd(a),
		newItemsCmd(a),
		newCartCmd(a),
		newOrdersCmd(a),
		newProfileCmd(a),
		newNavCmd(a),
	)

	return rootCmd
}

func newLoginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok, err := a.session.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			if ok {
				identity := a.session.CurrentIdentity()
				fmt.Printf("Logged in as %s", identity.Username)
				if identity.IsAdmin {
					fmt.Print(" (admin)")
				}
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	var revoke bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if revoke {
				if err := a.session.RevokeRemote(cmd.Context()); err != nil {
					fmt.Printf("Warning: could not revoke tokens remotely: %s\n", err)
				}
			}
			a.session.Logout()
			fmt.Println("Logged out")
			return nil
		},
	}
	cmd.Flags().BoolVar(&revoke, "revoke", false, "also ask the backend to invalidate the refresh token")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var fields session.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields.ConfirmPassword = fields.Password
			if _, err := a.session.Register(cmd.Context(), fields); err != nil {
				return err
			}
			fmt.Println("Registered. Use 'storefront login' to sign in.")
			return nil
		},
	}
	cmd.Flags().StringVar(&fields.Username, "username", "", "account username")
	cmd.Flags().StringVar(&fields.Email, "email", "", "email address")
	cmd.Flags().StringVar(&fields.Password, "password", "", "account password")
	cmd.Flags().StringVar(&fields.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&fields.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&fields.PhoneNumber, "phone", "", "phone number")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(_ *cobra.Command, _ []string) error {
			identity := a.session.CurrentIdentity()
			if identity == nil {
				fmt.Println("Not logged in")
				return nil
			}
			fmt.Printf("User:  %s <%s>\n", identity.Username, identity.Email)
			fmt.Printf("Admin: %v\n", identity.IsAdmin)
			if claims, err := a.session.Claims(); err == nil && !claims.ExpiresAt.IsZero() {
				fmt.Printf("Token expires: %s\n", claims.ExpiresAt)
			}
			return nil
		},
	}
}

func newItemsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Browse the catalog",
	}

	var pageNumber, pageSize int
	var search string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		RunE: func(c *cobra.Command, _ []string) error {
			items, page, err := a.catalog.List(c.Context(), catalog.ListParams{
				PageNumber: pageNumber,
				PageSize:   pageSize,
				Search:     search,
			})
			if err != nil {
				return err
			}
			for _, item := range items {
				fmt.Printf("%6d  %-40s  %8.2f  stock %d\n", item.IDItem, item.Title, item.Price, item.StockQuantity)
			}
			fmt.Printf("Page %d of %d (%d items)\n", page.PageNumber, page.TotalPages, page.TotalCount)
			return nil
		},
	}
	listCmd.Flags().IntVar(&pageNumber, "page", 1, "page number")
	listCmd.Flags().IntVar(&pageSize, "page-size", 20, "page size")
	listCmd.Flags().StringVar(&search, "search", "", "search term")

	featuredCmd := &cobra.Command{
		Use:   "featured",
		Short: "List featured items",
		RunE: func(c *cobra.Command, _ []string) error {
			items, err := a.catalog.Featured(c.Context())
			if err != nil {
				return err
			}
			for _, item := range items {
				fmt.Printf("%6d  %-40s  %8.2f\n", item.IDItem, item.Title, item.Price)
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}
			item, err := a.catalog.Get(c.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n\n%s\n\nPrice: %.2f  Stock: %d\n", item.Title, item.Description, item.Price, item.StockQuantity)
			return nil
		},
	}

	cmd.AddCommand(listCmd, featuredCmd, showCmd)
	return cmd
}

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the cart and its totals",
		RunE: func(c *cobra.Command, _ []string) error {
			lines, err := a.cart.FetchCart(c.Context())
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Printf("%6d  %-40s  %3d x %8.2f = %8.2f\n",
					line.ID, line.Title, line.Quantity, line.Price, line.Price*float64(line.Quantity))
			}
			fmt.Printf("Subtotal: %.2f\n", a.cart.Subtotal())
			return nil
		},
	}

	var quantity int
	addCmd := &cobra.Command{
		Use:   "add <item-id>",
		Short: "Add an item to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}
			if _, err := a.cart.AddItem(c.Context(), id, quantity); err != nil {
				return err
			}
			// AddItem leaves the cache stale until the next fetch.
			if _, err := a.cart.FetchCart(c.Context()); err != nil {
				return err
			}
			fmt.Printf("Added. Subtotal: %.2f\n", a.cart.Subtotal())
			return nil
		},
	}
	addCmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "quantity to add")

	setCmd := &cobra.Command{
		Use:   "set <line-id> <quantity>",
		Short: "Change a cart line's quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			lineID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}
			newQuantity, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			if _, err := a.cart.FetchCart(c.Context()); err != nil {
				return err
			}
			line, err := a.cart.UpdateQuantity(c.Context(), lineID, newQuantity)
			if err != nil {
				return err
			}
			fmt.Printf("%s x %d. Subtotal: %.2f\n", line.Title, line.Quantity, a.cart.Subtotal())
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <line-id>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			lineID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}
			if _, err := a.cart.FetchCart(c.Context()); err != nil {
				return err
			}
			if err := a.cart.RemoveItem(c.Context(), lineID); err != nil {
				return err
			}
			fmt.Printf("Removed. Subtotal: %.2f\n", a.cart.Subtotal())
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(c *cobra.Command, _ []string) error {
			if err := a.cart.ClearCart(c.Context()); err != nil {
				return err
			}
			fmt.Println("Cart cleared")
			return nil
		},
	}

	cmd.AddCommand(showCmd, addCmd, setCmd, removeCmd, clearCmd)
	return cmd
}

func newOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Place orders and view history",
	}

	var shippingAddress, notes string
	placeCmd := &cobra.Command{
		Use:   "place",
		Short: "Place an order for the current cart",
		RunE: func(c *cobra.Command, _ []string) error {
			order, err := a.orders.Place(c.Context(), orders.PlaceRequest{
				ShippingAddress: shippingAddress,
				OrderNotes:      notes,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Order %s placed\n", order.OrderNumber)
			return nil
		},
	}
	placeCmd.Flags().StringVar(&shippingAddress, "ship-to", "", "shipping address")
	placeCmd.Flags().StringVar(&notes, "notes", "", "order notes")
	_ = placeCmd.MarkFlagRequired("ship-to")

	myCmd := &cobra.Command{
		Use:   "my",
		Short: "Show your order history",
		RunE: func(c *cobra.Command, _ []string) error {
			list, _, err := a.orders.My(c.Context())
			if err != nil {
				return err
			}
			for _, order := range list {
				fmt.Printf("%6d  %-16s  %s  %8.2f\n", order.IDOrder, order.OrderNumber, order.OrderDate, order.TotalAmount)
			}
			return nil
		},
	}

	cancelCmd := &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}
			if _, err := a.orders.Cancel(c.Context(), id); err != nil {
				return err
			}
			fmt.Println("Cancelled")
			return nil
		},
	}

	cmd.AddCommand(placeCmd, myCmd, cancelCmd)
	return cmd
}

func newNavCmd(a *app) *cobra.Command {
	table := routeguard.DefaultTable()
	return &cobra.Command{
		Use:   "nav <path>",
		Short: "Show the access decision for a storefront route",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			class := table.Classify(args[0])
			decision := a.guard.DecideFor(class, a.session)
			if decision.Allow {
				fmt.Printf("%s (%s): allow\n", args[0], class)
			} else {
				fmt.Printf("%s (%s): redirect to %s\n", args[0], class, decision.RedirectTo)
			}
			return nil
		},
	}
}

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		RunE: func(c *cobra.Command, _ []string) error {
			profile, err := a.users.Profile(c.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s %s (%s)\n%s\n", profile.FirstName, profile.LastName, profile.Username, profile.Email)
			if profile.RequestedAnonymization {
				fmt.Printf("Anonymization requested: %s\n", utils.Value(profile.AnonymizationRequestDate))
			}
			return nil
		},
	}
}

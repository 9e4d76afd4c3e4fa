// Command cartctl manages a storefront cart from the terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	cartapp "github.com/xenking/storefront-cart/internal/app"
	"github.com/xenking/storefront-cart/internal/domain/cart"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	c := &cli{newEngine: func(ctx context.Context, cfg *cartapp.Config) (*cartapp.Engine, error) {
		return cartapp.NewEngine(ctx, cfg, cartapp.Providers{})
	}}
	root := c.rootCmd()
	root.SetContext(zctx.Base(ctx, lg))
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if os.Getenv("CARTCTL_DEBUG") != "" {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// cli holds state shared by all subcommands.
type cli struct {
	newEngine func(ctx context.Context, cfg *cartapp.Config) (*cartapp.Engine, error)

	namespace string
	driver    string
	dir       string
	catalog   string

	engine *cartapp.Engine
}

func (c *cli) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cartctl",
		Short: "Inspect and edit a storefront cart",
		Long: `Inspect and edit a storefront cart.

The cart is kept in the configured store (a directory of JSON files by
default) and priced against the product catalog.

Examples:
  cartctl show
  cartctl add 54e0eccd-8f36-462b-b68a-8182611d9add --quantity 2 --delivery 3
  cartctl --namespace cart-business place
`,
		SilenceUsage:      true,
		PersistentPreRunE: c.open,
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.engine != nil {
				c.engine.Close()
			}
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&c.namespace, "namespace", "", "Cart namespace (default from CART_NAMESPACE or cart-oop)")
	f.StringVar(&c.driver, "store", "", "Store driver: file, memory, redis or postgres")
	f.StringVar(&c.dir, "dir", "", "Directory of the file store")
	f.StringVar(&c.catalog, "catalog", "", "Product catalog URL or file path")

	cmd.AddCommand(
		c.showCmd(),
		c.addCmd(),
		c.removeCmd(),
		c.setQuantityCmd(),
		c.setDeliveryCmd(),
		c.placeCmd(),
		c.ordersCmd(),
		c.trackCmd(),
		c.buyAgainCmd(),
	)
	return cmd
}

// open loads configuration, applies flag overrides and builds the engine.
func (c *cli) open(cmd *cobra.Command, _ []string) error {
	cfg, err := cartapp.LoadCLIConfig()
	if err != nil {
		return err
	}
	if c.namespace != "" {
		cfg.Namespace = c.namespace
	}
	if c.driver != "" {
		cfg.Store.Driver = c.driver
	}
	if c.dir != "" {
		cfg.Store.Dir = c.dir
	}
	if c.catalog != "" {
		cfg.CatalogURL = c.catalog
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	e, err := c.newEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	c.engine = e
	return nil
}

// showView prints the checkout view of the current cart.
func (c *cli) showView(w io.Writer) error {
	v, err := c.engine.Projector.View(c.engine.Cart)
	if err != nil {
		return err
	}
	return renderView(w, v)
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the order and payment summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.showView(cmd.OutOrStdout())
		},
	}
}

func (c *cli) addCmd() *cobra.Command {
	var (
		quantity int
		option   string
	)
	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add units of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID := args[0]
			if _, err := c.engine.Products.Lookup(productID); err != nil {
				return err
			}
			if _, ok := c.engine.Delivery.Get(option); !ok {
				return errors.Errorf("unknown delivery option %q", option)
			}
			if err := c.engine.Cart.AddItem(cmd.Context(), productID,
				cart.WithQuantity(quantity), cart.WithDeliveryOption(option),
			); err != nil {
				return err
			}
			return c.showView(cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "Units to add")
	cmd.Flags().StringVarP(&option, "delivery", "d", "1", "Delivery option for a new line item")
	return cmd
}

func (c *cli) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.engine.Cart.RemoveItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			return c.showView(cmd.OutOrStdout())
		},
	}
}

func (c *cli) setQuantityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-quantity <product-id> <quantity>",
		Short: "Overwrite the quantity of a line item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrapf(err, "parse quantity %q", args[1])
			}
			if err := c.engine.Cart.UpdateQuantity(cmd.Context(), args[0], n); err != nil {
				return err
			}
			return c.showView(cmd.OutOrStdout())
		},
	}
}

func (c *cli) setDeliveryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-delivery <product-id> <option-id>",
		Short: "Change the delivery option of a line item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := c.engine.Delivery.Get(args[1]); !ok {
				return errors.Errorf("unknown delivery option %q", args[1])
			}
			if err := c.engine.Cart.UpdateDeliveryOption(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return c.showView(cmd.OutOrStdout())
		},
	}
}

func (c *cli) placeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "place",
		Short: "Submit the cart to the order service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := c.engine.Orders.Submit(cmd.Context(), c.engine.Cart)
			if err != nil {
				return err
			}
			return renderOrders(cmd.OutOrStdout(), c.engine.Products, o)
		},
	}
}

func (c *cli) ordersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List placed orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := c.engine.Orders.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No orders yet.")
				return err
			}
			for i := range orders {
				if err := renderOrders(cmd.OutOrStdout(), c.engine.Products, &orders[i]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (c *cli) trackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track <order-id> <product-id>",
		Short: "Show delivery progress of an ordered product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.engine.Orders.Track(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return renderTracking(cmd.OutOrStdout(), c.engine.Products, t)
		},
	}
}

func (c *cli) buyAgainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy-again <order-id> <product-id>",
		Short: "Add one unit of an ordered product back to the cart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.engine.Orders.BuyAgain(cmd.Context(), c.engine.Cart, args[0], args[1]); err != nil {
				return err
			}
			return c.showView(cmd.OutOrStdout())
		},
	}
}

package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/skillshop/internal/core/cart"
	"github.com/hay-kot/skillshop/internal/core/ident"
	"github.com/hay-kot/skillshop/internal/printer"
)

type CartCmd struct {
	flags *Flags
}

// NewCartCmd creates the cart commands.
func NewCartCmd(flags *Flags) *CartCmd {
	return &CartCmd{flags: flags}
}

// Register adds the cart commands to the application.
func (cmd *CartCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "cart",
		Usage: "Manage the shopping cart",
		Commands: []*cli.Command{
			{
				Name:   "ls",
				Usage:  "List cart items and totals",
				Action: cmd.list,
			},
			{
				Name:      "add",
				Usage:     "Add courses to the cart",
				UsageText: "skillshop cart add <course-id...>",
				Action:    cmd.add,
			},
			{
				Name:      "rm",
				Usage:     "Remove courses from the cart",
				UsageText: "skillshop cart rm <course-id...>",
				Action:    cmd.remove,
			},
			{
				Name:   "clear",
				Usage:  "Empty the cart",
				Action: cmd.clear,
			},
		},
	})

	return app
}

func (cmd *CartCmd) list(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	carts := cmd.flags.Service.Cart()

	if carts.Count() == 0 {
		p.Infof("Your cart is empty")
		return nil
	}

	writeCart(c.Root().Writer, carts.Items(), carts.Totals(), cmd.flags.Config.Checkout.Currency)
	return nil
}

func writeCart(out io.Writer, items []cart.Item, totals cart.Totals, currency string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tINSTRUCTOR\tPRICE\t")
	for _, it := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", it.ID, it.Title, it.Instructor, printer.Money(it.Price, ""))
	}
	_, _ = fmt.Fprintln(w, "\t\t\t\t")
	_, _ = fmt.Fprintf(w, "\t\tSubtotal\t%s\t\n", printer.Money(totals.Subtotal, ""))
	_, _ = fmt.Fprintf(w, "\t\tTax (%d%%)\t%s\t\n", int(cart.TaxRate*100), printer.Money(totals.Tax, ""))
	_, _ = fmt.Fprintf(w, "\t\tTotal\t%s\t\n", printer.Money(totals.Total, currency))
	_ = w.Flush()
}

func (cmd *CartCmd) add(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	args := c.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("course id required\n\nUsage: skillshop cart add <course-id...>")
	}

	for _, arg := range args {
		item, added, err := cmd.flags.Service.AddToCart(ctx, ident.ID(arg))
		if err != nil {
			return fmt.Errorf("add %s: %w", arg, err)
		}
		if added {
			p.Success("Added to cart", item.Title)
		} else {
			p.Infof("%s is already in your cart", item.Title)
		}
	}

	carts := cmd.flags.Service.Cart()
	p.Printf("%d item(s), total %s", carts.Count(), printer.Money(carts.TotalWithTax(), cmd.flags.Config.Checkout.Currency))
	return nil
}

func (cmd *CartCmd) remove(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	args := c.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("course id required\n\nUsage: skillshop cart rm <course-id...>")
	}

	for _, arg := range args {
		if cmd.flags.Service.RemoveFromCart(ctx, ident.ID(arg)) {
			p.Successf("Removed %s", arg)
		} else {
			p.Warnf("%s is not in your cart", arg)
		}
	}
	return nil
}

func (cmd *CartCmd) clear(ctx context.Context, _ *cli.Command) error {
	cmd.flags.Service.Cart().Clear(ctx)
	printer.Ctx(ctx).Successf("Cart cleared")
	return nil
}

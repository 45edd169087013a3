package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/skillshop/internal/core/checkout"
	"github.com/hay-kot/skillshop/internal/marketplace"
	"github.com/hay-kot/skillshop/internal/printer"
	"github.com/hay-kot/skillshop/internal/styles"
)

type CheckoutCmd struct {
	flags   *Flags
	form    checkout.PaymentForm
	noHooks bool
	yes     bool
}

// NewCheckoutCmd creates the checkout command.
func NewCheckoutCmd(flags *Flags) *CheckoutCmd {
	return &CheckoutCmd{flags: flags}
}

// Register adds the checkout command to the application.
func (cmd *CheckoutCmd) Register(app *cli.Command) *cli.Command {
	f := &cmd.form
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "checkout",
		Usage:     "Pay for the courses in the cart",
		UsageText: "skillshop checkout [--card <number> --expiry MM/YY --cvv <cvv> --name <cardholder> --street ... --city ... --state ... --zip ...]",
		Description: `Collects payment details, simulates the payment and prints a receipt.

When stdin is a terminal an interactive form is shown, prefilled from any flags.
After a successful order the configured hooks.post_checkout commands run.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "card", Usage: "card number", Destination: &f.CardNumber},
			&cli.StringFlag{Name: "expiry", Usage: "expiry date (MM/YY)", Destination: &f.ExpiryDate},
			&cli.StringFlag{Name: "cvv", Usage: "card verification value", Destination: &f.CVV},
			&cli.StringFlag{Name: "name", Usage: "cardholder name", Destination: &f.CardholderName},
			&cli.StringFlag{Name: "street", Usage: "billing street", Destination: &f.BillingAddress.Street},
			&cli.StringFlag{Name: "city", Usage: "billing city", Destination: &f.BillingAddress.City},
			&cli.StringFlag{Name: "state", Usage: "billing state", Destination: &f.BillingAddress.State},
			&cli.StringFlag{Name: "zip", Usage: "billing zip code", Destination: &f.BillingAddress.ZipCode},
			&cli.StringFlag{Name: "country", Usage: "billing country", Value: checkout.DefaultCountry, Destination: &f.BillingAddress.Country},
			&cli.BoolFlag{Name: "no-hooks", Usage: "skip post_checkout hooks", Destination: &cmd.noHooks},
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip the confirmation prompt", Destination: &cmd.yes},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *CheckoutCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	svc := cmd.flags.Service
	currency := cmd.flags.Config.Checkout.Currency

	if !svc.Session().IsAuthenticated() {
		return fmt.Errorf("checkout: %w", marketplace.ErrNotAuthenticated)
	}
	if svc.Cart().Count() == 0 {
		p.Infof("Your cart is empty")
		return nil
	}

	writeCart(c.Root().Writer, svc.Cart().Items(), svc.Cart().Totals(), currency)
	p.Printf("")

	if isInteractive() {
		confirmed, err := cmd.runForm(ctx)
		if err != nil {
			return err
		}
		if !confirmed {
			p.Infof("Checkout cancelled")
			return nil
		}
	}

	p.Infof("Processing payment...")
	order, err := svc.Checkout(ctx, cmd.form)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(c.Root().Writer, styles.ReceiptStyle.Render(receipt(order)))

	if cmd.noHooks || len(cmd.flags.Config.Hooks.PostCheckout) == 0 {
		return nil
	}

	if err := svc.RunPostCheckoutHooks(ctx, order); err != nil {
		p.Warnf("post_checkout hook failed: %v", err)
	}
	return nil
}

func (cmd *CheckoutCmd) runForm(ctx context.Context) (bool, error) {
	f := &cmd.form
	confirmed := cmd.yes

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().Title("Card number").Placeholder("1234 5678 9012 3456").Value(&f.CardNumber),
			huh.NewInput().Title("Expiry date").Placeholder("MM/YY").Value(&f.ExpiryDate),
			huh.NewInput().Title("CVV").EchoMode(huh.EchoModePassword).CharLimit(3).Value(&f.CVV),
			huh.NewInput().Title("Cardholder name").Value(&f.CardholderName),
		).Title("Payment"),
		huh.NewGroup(
			huh.NewInput().Title("Street").Value(&f.BillingAddress.Street),
			huh.NewInput().Title("City").Value(&f.BillingAddress.City),
			huh.NewInput().Title("State").Value(&f.BillingAddress.State),
			huh.NewInput().Title("Zip code").Value(&f.BillingAddress.ZipCode),
			huh.NewInput().Title("Country").Value(&f.BillingAddress.Country),
		).Title("Billing address"),
	}

	if !cmd.yes {
		total := printer.Money(cmd.flags.Service.Cart().TotalWithTax(), cmd.flags.Config.Checkout.Currency)
		groups = append(groups, huh.NewGroup(
			huh.NewConfirm().Title("Pay " + total + "?").Value(&confirmed),
		))
	}

	form := huh.NewForm(groups...).WithTheme(styles.FormTheme())
	if err := form.RunWithContext(ctx); err != nil {
		return false, fmt.Errorf("checkout form: %w", err)
	}

	return confirmed, nil
}

func receipt(order checkout.Order) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Order confirmed"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Confirmation  %s\n", styles.BadgeStyle.Render(order.ConfirmationCode))
	fmt.Fprintf(&b, "Order         %s\n", styles.MutedStyle.Render(order.ID))
	fmt.Fprintf(&b, "Card          %s\n", order.Card)
	fmt.Fprintf(&b, "Placed        %s\n\n", order.PlacedAt.Format("2006-01-02 15:04"))

	for _, it := range order.Items {
		fmt.Fprintf(&b, "%s %s  %s\n", printer.Check, it.Title, styles.PriceStyle.Render(printer.Money(it.Price, "")))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Subtotal  %s\n", printer.Money(order.Totals.Subtotal, ""))
	fmt.Fprintf(&b, "Tax       %s\n", printer.Money(order.Totals.Tax, ""))
	fmt.Fprintf(&b, "Total     %s", styles.PriceStyle.Render(printer.Money(order.Totals.Total, order.Currency)))

	return b.String()
}

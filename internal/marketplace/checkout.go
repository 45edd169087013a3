package marketplace

import (
	"context"
	"fmt"
	"time"

	"github.com/hay-kot/skillshop/internal/core/checkout"
	"github.com/hay-kot/skillshop/internal/core/config"
)

// Checkout pays for the cart. The payment is simulated with the configured delay,
// which ctx can cancel. On success the cart is cleared and a receipt returned.
func (s *Service) Checkout(ctx context.Context, form checkout.PaymentForm) (checkout.Order, error) {
	if err := s.requireAuth(); err != nil {
		return checkout.Order{}, err
	}

	items := s.cart.Items()
	if len(items) == 0 {
		return checkout.Order{}, ErrEmptyCart
	}

	form = form.Normalize()
	if err := form.Validate(); err != nil {
		return checkout.Order{}, err
	}

	s.log.Info().
		Int("items", len(items)).
		Dur("delay", s.config.Checkout.PaymentDelay).
		Msg("processing payment")

	if err := wait(ctx, s.config.Checkout.PaymentDelay); err != nil {
		return checkout.Order{}, fmt.Errorf("process payment: %w", err)
	}

	order := checkout.NewOrder(items, form, s.config.Checkout.Currency, s.now())
	s.cart.Clear(ctx)

	s.log.Info().
		Str("order", order.ID).
		Str("confirmation", order.ConfirmationCode).
		Float64("total", order.Totals.Total).
		Msg("order placed")

	return order, nil
}

// RunPostCheckoutHooks runs the configured post_checkout commands for order.
func (s *Service) RunPostCheckoutHooks(ctx context.Context, order checkout.Order) error {
	data := config.HookTemplateData{
		OrderID:          order.ID,
		ConfirmationCode: order.ConfirmationCode,
		Currency:         order.Currency,
		Subtotal:         order.Totals.Subtotal,
		Tax:              order.Totals.Tax,
		Total:            order.Totals.Total,
		Courses:          make([]string, 0, len(order.Items)),
	}
	if user, ok := s.session.User(); ok {
		data.Email = user.Email
	}
	for _, it := range order.Items {
		data.Courses = append(data.Courses, it.Title)
	}

	return s.hookRunner.RunPostCheckout(ctx, s.config.Hooks.PostCheckout, data)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

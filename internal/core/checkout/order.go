package checkout

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/hay-kot/skillshop/internal/core/cart"
	"github.com/hay-kot/skillshop/pkg/randid"
)

// DefaultCurrency is used when none is configured.
const DefaultCurrency = "USD"

// Order is the receipt of a completed checkout.
type Order struct {
	ID               string      `json:"id"`
	ConfirmationCode string      `json:"confirmationCode"`
	Items            []cart.Item `json:"items"`
	Totals           cart.Totals `json:"totals"`
	Currency         string      `json:"currency"`
	Card             string      `json:"card"`
	PlacedAt         time.Time   `json:"placedAt"`
}

// NewOrder builds the receipt for items paid with form.
func NewOrder(items []cart.Item, form PaymentForm, currency string, placedAt time.Time) Order {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Order{
		ID:               uuid.NewString(),
		ConfirmationCode: randid.Grouped(2, 4),
		Items:            slices.Clone(items),
		Totals:           cart.ComputeTotals(items),
		Currency:         currency,
		Card:             form.MaskedCard(),
		PlacedAt:         placedAt,
	}
}

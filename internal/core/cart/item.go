// Package cart holds the courses a user intends to purchase and computes order
// totals with a fixed tax policy.
package cart

import (
	"errors"
	"math"

	"github.com/hay-kot/skillshop/internal/core/ident"
)

// TaxRate is applied to the subtotal of every order.
const TaxRate = 0.15

// Item is one course line in the cart. ID is unique within a cart.
type Item struct {
	ID         ident.ID `json:"id"`
	Title      string   `json:"title"`
	Price      float64  `json:"price"`
	ImagePath  string   `json:"imagePath,omitempty"`
	Instructor string   `json:"instructor"`
}

// Validate checks the invariants every stored item must hold.
func (i Item) Validate() error {
	if i.ID.IsZero() {
		return errors.New("item id is required")
	}
	if i.Price < 0 || math.IsNaN(i.Price) || math.IsInf(i.Price, 0) {
		return errors.New("item price must be a non-negative number")
	}
	return nil
}

// Totals are the derived amounts of a set of items.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// ComputeTotals sums items and applies TaxRate.
func ComputeTotals(items []Item) Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Price
	}
	tax := subtotal * TaxRate
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
		Count:    len(items),
	}
}

package marketplace

import (
	"context"

	"github.com/hay-kot/skillshop/internal/core/cart"
	"github.com/hay-kot/skillshop/internal/core/catalog"
	"github.com/hay-kot/skillshop/internal/core/ident"
)

// ItemFromCourse snapshots the fields of c that the cart keeps.
func ItemFromCourse(c catalog.Course) cart.Item {
	return cart.Item{
		ID:         c.ID,
		Title:      c.DisplayTitle(),
		Price:      c.Price,
		ImagePath:  c.Image(),
		Instructor: c.InstructorName,
	}
}

// AddToCart fetches the course and adds it to the cart. A course already in the
// cart is returned as is without contacting the API.
func (s *Service) AddToCart(ctx context.Context, id ident.ID) (cart.Item, bool, error) {
	if err := s.requireAuth(); err != nil {
		return cart.Item{}, false, err
	}

	for _, it := range s.cart.Items() {
		if it.ID == id {
			return it, false, nil
		}
	}

	course, err := s.Course(ctx, id)
	if err != nil {
		return cart.Item{}, false, err
	}

	item := ItemFromCourse(course)
	added, err := s.cart.Add(ctx, item)
	if err != nil {
		return cart.Item{}, false, err
	}

	s.log.Debug().Str("course", id.String()).Bool("added", added).Msg("add to cart")
	return item, added, nil
}

// RemoveFromCart removes a course from the cart and reports whether it was there.
func (s *Service) RemoveFromCart(ctx context.Context, id ident.ID) bool {
	removed := s.cart.Remove(ctx, id)
	s.log.Debug().Str("course", id.String()).Bool("removed", removed).Msg("remove from cart")
	return removed
}

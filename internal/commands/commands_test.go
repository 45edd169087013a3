package commands

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/skillshop/internal/core/cart"
	"github.com/hay-kot/skillshop/internal/core/catalog"
	"github.com/hay-kot/skillshop/internal/core/checkout"
	"github.com/hay-kot/skillshop/internal/core/ident"
	"github.com/hay-kot/skillshop/internal/printer"
)

func TestWriteCart(t *testing.T) {
	items := []cart.Item{
		{ID: "c1", Title: "Go", Price: 100, Instructor: "Ada"},
		{ID: "c2", Title: "Rust", Price: 50, Instructor: "Grace"},
	}

	var buf bytes.Buffer
	writeCart(&buf, items, cart.ComputeTotals(items), "USD")
	out := buf.String()

	assert.Contains(t, out, "Go")
	assert.Contains(t, out, "Rust")
	assert.Contains(t, out, "150.00")
	assert.Contains(t, out, "Tax (15%)")
	assert.Contains(t, out, "22.50")
	assert.Contains(t, out, "172.50 USD")
}

func TestWriteCourseTable_MarksCartItems(t *testing.T) {
	courses := []catalog.Course{
		{ID: "c1", Title: "Go", Price: 10, Level: catalog.LevelBeginner},
		{ID: "c2", Name: "Rust", Price: 20},
	}

	var buf bytes.Buffer
	writeCourseTable(&buf, courses, func(id ident.ID) bool { return id == "c1" })

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "TITLE")
	assert.Contains(t, lines[1], "Beginner")
	assert.Contains(t, lines[1], printer.Cart)
	assert.Contains(t, lines[2], "Rust")
	assert.NotContains(t, lines[2], printer.Cart)
}

func TestReceipt(t *testing.T) {
	items := []cart.Item{{ID: "c1", Title: "Go", Price: 100}}
	order := checkout.Order{
		ID:               "order-1",
		ConfirmationCode: "ABCD-EFGH",
		Items:            items,
		Totals:           cart.ComputeTotals(items),
		Currency:         "EUR",
		Card:             "**** **** **** 4242",
		PlacedAt:         time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}

	out := receipt(order)

	assert.Contains(t, out, "ABCD-EFGH")
	assert.Contains(t, out, "order-1")
	assert.Contains(t, out, "4242")
	assert.Contains(t, out, "2026-03-01 09:30")
	assert.Contains(t, out, "115.00 EUR")
}

func TestDeleteEach(t *testing.T) {
	var buf bytes.Buffer
	ctx := printer.NewContext(context.Background(), printer.New(&buf))

	var deleted []ident.ID
	del := func(_ context.Context, id ident.ID) error {
		if id == "bad" {
			return errors.New("not found")
		}
		deleted = append(deleted, id)
		return nil
	}

	app := &cli.Command{
		Name: "rm",
		Action: func(ctx context.Context, c *cli.Command) error {
			return deleteEach(ctx, c, "course", del)
		},
	}

	err := app.Run(ctx, []string{"rm", "c1", "bad", "c2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3")
	assert.Equal(t, []ident.ID{"c1", "c2"}, deleted)
	assert.Contains(t, buf.String(), "not found")
}

func TestDeleteEach_RequiresID(t *testing.T) {
	app := &cli.Command{
		Name: "rm",
		Action: func(ctx context.Context, c *cli.Command) error {
			return deleteEach(ctx, c, "instructor", func(context.Context, ident.ID) error { return nil })
		},
	}

	ctx := printer.NewContext(context.Background(), printer.New(&bytes.Buffer{}))
	err := app.Run(ctx, []string{"rm"})
	assert.EqualError(t, err, "instructor id required")
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")

	assert.Equal(t, "/tmp/cfg/skillshop/config.yaml", DefaultConfigPath())
	assert.Equal(t, "/tmp/data/skillshop", DefaultDataDir())
}

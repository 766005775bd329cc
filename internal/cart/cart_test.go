package cart

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
)

var fixedNow = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

func catalog() []models.Product {
	return models.Seed(fixedNow).Products
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAddLineUsesDefaultPricePerDirection(t *testing.T) {
	out := New(models.Outward)
	require.NoError(t, out.AddLine(catalog(), "p1", 5, ""))
	lines := out.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Wireless Mouse", lines[0].ProductName)
	assert.True(t, lines[0].PriceAtTransaction.Equal(dec("35")))
	assert.True(t, lines[0].Subtotal().Equal(dec("175")))
	assert.True(t, out.Total().Equal(dec("175")))

	in := New(models.Inward)
	require.NoError(t, in.AddLine(catalog(), "p1", 5, "   "))
	assert.True(t, in.Lines()[0].PriceAtTransaction.Equal(dec("15")))
}

func TestAddLinePriceOverride(t *testing.T) {
	testCases := []struct {
		name     string
		override string
		want     string
	}{
		{name: "decimal", override: "12.5", want: "12.5"},
		{name: "padded", override: " 40 ", want: "40"},
		{name: "unparseable falls back", override: "cheap", want: "35"},
		{name: "zero is honoured", override: "0", want: "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(models.Outward)
			require.NoError(t, c.AddLine(catalog(), "p1", 1, tc.override))
			assert.True(t, c.Lines()[0].PriceAtTransaction.Equal(dec(tc.want)), c.Lines()[0].PriceAtTransaction.String())
		})
	}
}

func TestAddLineMergesAndReplacesPrice(t *testing.T) {
	c := New(models.Inward)
	require.NoError(t, c.AddLine(catalog(), "p2", 3, "40"))
	require.NoError(t, c.AddLine(catalog(), "p2", 4, "42.5"))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].Quantity)
	assert.True(t, lines[0].PriceAtTransaction.Equal(dec("42.5")))
}

func TestOutwardRejectsOverStock(t *testing.T) {
	c := New(models.Outward)

	err := c.AddLine(catalog(), "p3", 130, "")
	require.ErrorIs(t, err, ErrInsufficientStock)

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 12, stockErr.Available)
	assert.Equal(t, 130, stockErr.Requested)
	assert.Zero(t, c.Len())
}

func TestOutwardRejectsCumulativeMerge(t *testing.T) {
	c := New(models.Outward)
	require.NoError(t, c.AddLine(catalog(), "p3", 10, ""))

	err := c.AddLine(catalog(), "p3", 3, "150")
	require.ErrorIs(t, err, ErrInsufficientStock)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 10, lines[0].Quantity)
	assert.True(t, lines[0].PriceAtTransaction.Equal(dec("199")), "rejected merge must not touch the price")

	require.NoError(t, c.AddLine(catalog(), "p3", 2, ""))
	assert.Equal(t, 12, c.Lines()[0].Quantity)
}

func TestInwardNeverRejectsOnQuantity(t *testing.T) {
	c := New(models.Inward)
	require.NoError(t, c.AddLine(catalog(), "p3", 5000, ""))
	assert.Equal(t, 5000, c.Lines()[0].Quantity)
}

func TestAddLineValidation(t *testing.T) {
	c := New(models.Outward)
	assert.ErrorIs(t, c.AddLine(catalog(), "p9", 1, ""), ErrUnknownProduct)
	assert.ErrorIs(t, c.AddLine(catalog(), "p1", 0, ""), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddLine(catalog(), "p1", -3, ""), ErrInvalidQuantity)
	assert.Zero(t, c.Len())
}

func TestParseQuantity(t *testing.T) {
	n, err := ParseQuantity(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	for _, in := range []string{"", "0", "-1", "1.5", "ten"} {
		_, err := ParseQuantity(in)
		assert.ErrorIs(t, err, ErrInvalidQuantity, in)
	}
}

func TestRemoveLine(t *testing.T) {
	c := New(models.Inward)
	require.NoError(t, c.AddLine(catalog(), "p1", 1, ""))
	require.NoError(t, c.AddLine(catalog(), "p2", 1, ""))
	require.NoError(t, c.AddLine(catalog(), "p4", 1, ""))

	require.NoError(t, c.RemoveLine(1))
	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, "p4", lines[1].ProductID)

	assert.ErrorIs(t, c.RemoveLine(2), ErrLineIndex)
	assert.ErrorIs(t, c.RemoveLine(-1), ErrLineIndex)
}

func TestCommit(t *testing.T) {
	c := New(models.Outward,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "tx-1" }),
	)

	_, err := c.Commit(models.Contact{ID: "c3", Name: "Alice Smith"}, "")
	require.ErrorIs(t, err, ErrEmptyCart)

	require.NoError(t, c.AddLine(catalog(), "p1", 2, "0.1"))
	require.NoError(t, c.AddLine(catalog(), "p4", 3, "0.2"))

	tx, err := c.Commit(models.Contact{ID: "c3", Name: "Alice Smith"}, " rush order ")
	require.NoError(t, err)

	assert.Equal(t, "tx-1", tx.ID)
	assert.Equal(t, fixedNow, tx.Date)
	assert.Equal(t, models.Outward, tx.Type)
	assert.Equal(t, "Alice Smith", tx.ContactName)
	assert.Equal(t, "rush order", tx.Notes)
	assert.True(t, tx.TotalAmount.Equal(dec("0.8")), tx.TotalAmount.String())
	assert.Equal(t, 2, c.Len(), "commit leaves the cart for the caller to reset")

	tx.Items[0].Quantity = 99
	assert.Equal(t, 2, c.Lines()[0].Quantity)
}

func TestCommitUnknownContactName(t *testing.T) {
	c := New(models.Inward)
	require.NoError(t, c.AddLine(catalog(), "p4", 10, ""))

	tx, err := c.Commit(models.Contact{ID: "c1"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", tx.ContactName)

	c.Reset()
	assert.Zero(t, c.Len())
	assert.True(t, c.Total().IsZero())
}

// Package cart builds a pending transaction line by line before it is committed to the ledger.
package cart

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
)

var (
	ErrUnknownProduct    = errors.New("unknown product")
	ErrInvalidQuantity   = errors.New("quantity must be a positive whole number")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrLineIndex         = errors.New("cart line index out of range")
	ErrEmptyCart         = errors.New("cart is empty")
)

// InsufficientStockError is returned when an outward line would take more than is in stock.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available, %d requested", e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// unknownContactName is recorded when the counterparty has no name.
const unknownContactName = "Unknown"

// Cart accumulates lines for one direction. It is not safe for concurrent use.
type Cart struct {
	direction models.Direction
	lines     []models.CartItem
	now       func() time.Time
	newID     func() string
}

// Option customises a Cart.
type Option func(*Cart)

// WithClock sets the clock used to date committed transactions.
func WithClock(now func() time.Time) Option {
	return func(c *Cart) { c.now = now }
}

// WithIDGenerator sets how transaction ids are produced.
func WithIDGenerator(newID func() string) Option {
	return func(c *Cart) { c.newID = newID }
}

// New returns an empty cart for direction.
func New(direction models.Direction, opts ...Option) *Cart {
	c := &Cart{
		direction: direction,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Direction returns the direction the cart was created for.
func (c *Cart) Direction() models.Direction {
	return c.direction
}

// ParseQuantity parses a quantity typed by the user.
func ParseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, ErrInvalidQuantity
	}
	return n, nil
}

// AddLine adds quantity of productID, or merges it into the existing line for that product.
// A non-empty priceOverride that parses as a decimal replaces the product's default price;
// on merge the line's price is replaced by the newly resolved one. Outward carts reject lines
// whose cumulative quantity would exceed the product's stock, leaving the cart unchanged.
func (c *Cart) AddLine(catalog []models.Product, productID string, quantity int, priceOverride string) error {
	i := slices.IndexFunc(catalog, func(p models.Product) bool { return p.ID == productID })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}
	product := catalog[i]

	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	price := c.resolvePrice(product, priceOverride)

	existing := slices.IndexFunc(c.lines, func(l models.CartItem) bool { return l.ProductID == productID })
	total := quantity
	if existing >= 0 {
		total += c.lines[existing].Quantity
	}

	if c.direction == models.Outward && total > product.CurrentStock {
		return &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.CurrentStock,
			Requested:   total,
		}
	}

	if existing >= 0 {
		c.lines[existing].Quantity = total
		c.lines[existing].PriceAtTransaction = price
		return nil
	}

	c.lines = append(c.lines, models.CartItem{
		ProductID:          product.ID,
		ProductName:        product.Name,
		Quantity:           quantity,
		PriceAtTransaction: price,
	})
	return nil
}

func (c *Cart) resolvePrice(product models.Product, override string) decimal.Decimal {
	if override = strings.TrimSpace(override); override != "" {
		if price, err := decimal.NewFromString(override); err == nil {
			return price
		}
	}
	if c.direction == models.Inward {
		return product.DefaultBuyPrice
	}
	return product.DefaultSellPrice
}

// RemoveLine drops the line at index.
func (c *Cart) RemoveLine(index int) error {
	if index < 0 || index >= len(c.lines) {
		return fmt.Errorf("%w: %d", ErrLineIndex, index)
	}
	c.lines = slices.Delete(c.lines, index, index+1)
	return nil
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []models.CartItem {
	return slices.Clone(c.lines)
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Total is the exact sum of the line subtotals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Reset empties the cart.
func (c *Cart) Reset() {
	c.lines = nil
}

// Commit turns the cart into a transaction made with contact. It neither applies the
// transaction nor empties the cart.
func (c *Cart) Commit(contact models.Contact, notes string) (models.Transaction, error) {
	if len(c.lines) == 0 {
		return models.Transaction{}, ErrEmptyCart
	}

	name := contact.Name
	if strings.TrimSpace(name) == "" {
		name = unknownContactName
	}

	return models.Transaction{
		ID:          c.newID(),
		Date:        c.now(),
		Type:        c.direction,
		ContactID:   contact.ID,
		ContactName: name,
		Items:       slices.Clone(c.lines),
		TotalAmount: c.Total(),
		Notes:       strings.TrimSpace(notes),
	}, nil
}

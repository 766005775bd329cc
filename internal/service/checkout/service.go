package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/cart"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
)

var (
	// ErrUnknownContact indicates the selected counterparty does not exist.
	ErrUnknownContact = errors.New("unknown contact")
	// ErrRoleMismatch indicates a buyer was picked for an inward cart or a seller for an outward one.
	ErrRoleMismatch = errors.New("contact role does not match transaction direction")
)

// Ledger is the state owner the service commits through.
type Ledger interface {
	Snapshot() models.AppData
	ApplyTransaction(ctx context.Context, tx models.Transaction) (models.AppData, error)
}

// CartView is a read-only copy of a cart.
type CartView struct {
	Direction models.Direction  `json:"direction"`
	Lines     []models.CartItem `json:"lines"`
	Total     decimal.Decimal   `json:"total"`
}

// Service holds the single user's inward and outward carts.
type Service struct {
	ledger Ledger
	logger *zap.Logger

	mu    sync.Mutex
	carts map[models.Direction]*cart.Cart
}

// NewService builds a checkout service. Cart options apply to both carts.
func NewService(ledger Ledger, logger *zap.Logger, opts ...cart.Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ledger: ledger,
		logger: logger,
		carts: map[models.Direction]*cart.Cart{
			models.Inward:  cart.New(models.Inward, opts...),
			models.Outward: cart.New(models.Outward, opts...),
		},
	}
}

func (s *Service) cartFor(direction models.Direction) (*cart.Cart, error) {
	c, ok := s.carts[direction]
	if !ok {
		return nil, fmt.Errorf("%w: direction %q", models.ErrInvalidInput, direction)
	}
	return c, nil
}

// Cart returns the current content of the cart for direction.
func (s *Service) Cart(direction models.Direction) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cartFor(direction)
	if err != nil {
		return CartView{}, err
	}
	return view(c), nil
}

// AddToCart validates and adds a line against the current catalogue.
func (s *Service) AddToCart(direction models.Direction, productID string, quantity int, priceOverride string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cartFor(direction)
	if err != nil {
		return CartView{}, err
	}
	if err := c.AddLine(s.ledger.Snapshot().Products, productID, quantity, priceOverride); err != nil {
		s.logger.Debug("cart line rejected",
			zap.String("direction", string(direction)),
			zap.String("product_id", productID),
			zap.Int("quantity", quantity),
			zap.Error(err),
		)
		return CartView{}, err
	}
	return view(c), nil
}

// RemoveFromCart drops the line at index.
func (s *Service) RemoveFromCart(direction models.Direction, index int) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cartFor(direction)
	if err != nil {
		return CartView{}, err
	}
	if err := c.RemoveLine(index); err != nil {
		return CartView{}, err
	}
	return view(c), nil
}

// ClearCart empties the cart for direction.
func (s *Service) ClearCart(direction models.Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cartFor(direction)
	if err != nil {
		return err
	}
	c.Reset()
	return nil
}

// Checkout commits the cart with contactID and applies it to the ledger. The cart is emptied
// only when the transaction has been persisted.
func (s *Service) Checkout(ctx context.Context, direction models.Direction, contactID, notes string) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cartFor(direction)
	if err != nil {
		return models.Transaction{}, err
	}

	contact, ok := s.ledger.Snapshot().Contact(contactID)
	if !ok {
		return models.Transaction{}, fmt.Errorf("%w: %s", ErrUnknownContact, contactID)
	}
	if contact.Role != direction.CounterpartyRole() {
		return models.Transaction{}, fmt.Errorf("%w: %s is a %s", ErrRoleMismatch, contact.Name, contact.Role)
	}

	tx, err := c.Commit(contact, notes)
	if err != nil {
		return models.Transaction{}, err
	}

	if _, err := s.ledger.ApplyTransaction(ctx, tx); err != nil {
		s.logger.Error("checkout failed", zap.String("transaction_id", tx.ID), zap.Error(err))
		return models.Transaction{}, err
	}
	c.Reset()

	s.logger.Info("checkout completed",
		zap.String("transaction_id", tx.ID),
		zap.String("direction", string(direction)),
		zap.String("contact", tx.ContactName),
		zap.String("total", tx.TotalAmount.String()),
		zap.Time("date", tx.Date),
	)
	return tx, nil
}

// Counterparties lists the contacts that may be picked for direction.
func (s *Service) Counterparties(direction models.Direction) []models.Contact {
	return s.ledger.Snapshot().ContactsByRole(direction.CounterpartyRole())
}

// SelectableProducts lists every product for inward carts and only products in stock for outward ones.
func (s *Service) SelectableProducts(direction models.Direction) []models.Product {
	products := s.ledger.Snapshot().Products
	if direction != models.Outward {
		return products
	}
	var out []models.Product
	for _, p := range products {
		if p.CurrentStock > 0 {
			out = append(out, p)
		}
	}
	return out
}

func view(c *cart.Cart) CartView {
	lines := c.Lines()
	if lines == nil {
		lines = []models.CartItem{}
	}
	return CartView{Direction: c.Direction(), Lines: lines, Total: c.Total()}
}

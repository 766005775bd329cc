package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/repository"
)

// Store owns the live state. Every mutation is staged on a copy, saved, and only then published,
// so a failed save leaves the in-memory state untouched.
type Store struct {
	repo   repository.StateRepository
	logger *zap.Logger
	now    func() time.Time
	newID  func() string

	mu    sync.RWMutex
	state models.AppData
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the clock used to date the seed dataset.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how ids of new products and contacts are produced.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore loads the persisted state, or the seed dataset when nothing is persisted.
func NewStore(ctx context.Context, repo repository.StateRepository, logger *zap.Logger, opts ...Option) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := repository.LoadOrSeed(ctx, repo, s.now())
	if err != nil {
		return nil, err
	}
	s.state = state

	logger.Info("state loaded",
		zap.Int("products", len(state.Products)),
		zap.Int("contacts", len(state.Contacts)),
		zap.Int("transactions", len(state.Transactions)),
	)
	return s, nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() models.AppData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// ApplyTransaction applies tx through Apply and persists the result.
func (s *Store) ApplyTransaction(ctx context.Context, tx models.Transaction) (models.AppData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, outcome := Apply(s.state, tx)
	if len(outcome.SkippedLines) > 0 {
		s.logger.Warn("transaction lines reference unknown products",
			zap.String("transaction_id", tx.ID),
			zap.Strings("product_ids", outcome.SkippedLines),
		)
	}

	if err := s.commit(ctx, next); err != nil {
		return models.AppData{}, err
	}

	s.logger.Info("transaction applied",
		zap.String("transaction_id", tx.ID),
		zap.String("type", string(tx.Type)),
		zap.Int("lines", len(tx.Items)),
		zap.String("total", tx.TotalAmount.String()),
	)
	return next.Clone(), nil
}

// AddProduct appends a new product with zero stock.
func (s *Store) AddProduct(ctx context.Context, input models.NewProduct) (models.Product, error) {
	if err := input.Validate(); err != nil {
		return models.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product := models.Product{
		ID:               s.newID(),
		Name:             strings.TrimSpace(input.Name),
		SKU:              strings.TrimSpace(input.SKU),
		Category:         strings.TrimSpace(input.Category),
		Description:      strings.TrimSpace(input.Description),
		DefaultBuyPrice:  input.DefaultBuyPrice,
		DefaultSellPrice: input.DefaultSellPrice,
	}

	next := s.state.Clone()
	next.Products = append(next.Products, product)
	if err := s.commit(ctx, next); err != nil {
		return models.Product{}, err
	}

	s.logger.Info("product added", zap.String("product_id", product.ID), zap.String("sku", product.SKU))
	return product, nil
}

// AddContact appends a new buyer or seller.
func (s *Store) AddContact(ctx context.Context, input models.NewContact) (models.Contact, error) {
	if err := input.Validate(); err != nil {
		return models.Contact{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contact := models.Contact{
		ID:    s.newID(),
		Name:  strings.TrimSpace(input.Name),
		Role:  input.Role,
		Email: strings.TrimSpace(input.Email),
		Phone: strings.TrimSpace(input.Phone),
	}

	next := s.state.Clone()
	next.Contacts = append(next.Contacts, contact)
	if err := s.commit(ctx, next); err != nil {
		return models.Contact{}, err
	}

	s.logger.Info("contact added", zap.String("contact_id", contact.ID), zap.String("role", string(contact.Role)))
	return contact, nil
}

// commit must be called with mu held.
func (s *Store) commit(ctx context.Context, next models.AppData) error {
	if err := s.repo.Save(ctx, &next); err != nil {
		s.logger.Error("failed to save state", zap.Error(err))
		return fmt.Errorf("save state: %w", err)
	}
	s.state = next
	return nil
}

package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
	"github.com/Mohan-0108/KSM-ENTERPRIES/pkg/currency"
)

const (
	dateLayout   = "2006-01-02"
	reportWindow = 7 * 24 * time.Hour
)

// SnapshotSource provides the current state.
type SnapshotSource interface {
	Snapshot() models.AppData
}

// Service exposes the read views over the live state, for the HTTP surface, WhatsApp and the scheduler.
type Service struct {
	source   SnapshotSource
	currency string
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new reporting service instance. Amounts in text reports use currencyCode.
func NewService(source SnapshotSource, currencyCode string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, currency: currencyCode, logger: logger, now: time.Now}
}

// Snapshot returns the current state.
func (s *Service) Snapshot() models.AppData {
	return s.source.Snapshot()
}

// Dashboard computes the overview figures for the current state.
func (s *Service) Dashboard() Dashboard {
	return BuildDashboard(s.source.Snapshot(), s.now())
}

// History returns the last 90 days of transactions, newest first.
func (s *Service) History() []models.Transaction {
	return RecentHistory(s.source.Snapshot(), s.now())
}

// LowStock returns the products running low.
func (s *Service) LowStock() []models.Product {
	return LowStock(s.source.Snapshot())
}

// TopSellers ranks the best selling products.
func (s *Service) TopSellers(limit int) []TopSeller {
	return TopSellers(s.source.Snapshot(), limit)
}

// FormatAmount renders amount in the display currency.
func (s *Service) FormatAmount(amount decimal.Decimal) string {
	return currency.Format(amount, s.currency)
}

// LowStockAlert builds the low stock notification. It reports false when nothing is low.
func (s *Service) LowStockAlert() (string, bool) {
	low := s.LowStock()
	if len(low) == 0 {
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Low stock alert: %d product(s) under %d units.", len(low), LowStockThreshold)
	for _, p := range low {
		fmt.Fprintf(&b, "\n- %s (%s): %d left", p.Name, p.SKU, p.CurrentStock)
	}
	return b.String(), true
}

type flowTotals struct {
	orders int
	units  int
	amount decimal.Decimal
}

// WeeklyReport summarises the last seven days of movements.
func (s *Service) WeeklyReport() string {
	data := s.source.Snapshot()
	end := s.now()
	start := end.Add(-reportWindow)

	totals := map[models.Direction]*flowTotals{
		models.Inward:  {amount: decimal.Zero},
		models.Outward: {amount: decimal.Zero},
	}
	for _, tx := range data.Transactions {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		t, ok := totals[tx.Type]
		if !ok {
			s.logger.Debug("skip transaction with unknown type", zap.String("transaction_id", tx.ID))
			continue
		}
		t.orders++
		t.units += tx.Units()
		t.amount = t.amount.Add(tx.TotalAmount)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Weekly report (%s to %s)", start.Format(dateLayout), end.Format(dateLayout))
	sales, purchases := totals[models.Outward], totals[models.Inward]
	fmt.Fprintf(&b, "\nSales: %d order(s), %d unit(s), %s", sales.orders, sales.units, s.FormatAmount(sales.amount))
	fmt.Fprintf(&b, "\nPurchases: %d order(s), %d unit(s), %s", purchases.orders, purchases.units, s.FormatAmount(purchases.amount))
	fmt.Fprintf(&b, "\nInventory value: %s", s.FormatAmount(TotalInventoryValue(data)))

	low := LowStock(data)
	if len(low) == 0 {
		b.WriteString("\nLow stock: none")
	} else {
		names := make([]string, 0, len(low))
		for _, p := range low {
			names = append(names, fmt.Sprintf("%s (%d)", p.Name, p.CurrentStock))
		}
		fmt.Fprintf(&b, "\nLow stock: %s", strings.Join(names, ", "))
	}
	return b.String()
}

// FindProduct matches term against SKUs first, then against names, ignoring case.
func (s *Service) FindProduct(term string) (models.Product, bool) {
	term = strings.TrimSpace(term)
	if term == "" {
		return models.Product{}, false
	}
	products := s.source.Snapshot().Products
	for _, p := range products {
		if strings.EqualFold(p.SKU, term) {
			return p, true
		}
	}
	for _, p := range products {
		if strings.EqualFold(p.Name, term) || strings.Contains(strings.ToLower(p.Name), strings.ToLower(term)) {
			return p, true
		}
	}
	return models.Product{}, false
}

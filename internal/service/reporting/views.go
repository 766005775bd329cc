package reporting

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
)

const (
	// LowStockThreshold is the stock level below which a product is flagged.
	LowStockThreshold = 10
	// HistoryWindow bounds the transaction history view.
	HistoryWindow = 90 * 24 * time.Hour
	// DefaultTopSellers is the length of the top sellers list.
	DefaultTopSellers = 5
)

// TopSeller is a product ranked by the units sold.
type TopSeller struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// Dashboard gathers the figures shown on the overview screen.
type Dashboard struct {
	InventoryValue decimal.Decimal  `json:"inventoryValue"`
	LowStockCount  int              `json:"lowStockCount"`
	ProductCount   int              `json:"productCount"`
	RecentOrders   int              `json:"recentOrders"`
	LowStock       []models.Product `json:"lowStock"`
	TopSellers     []TopSeller      `json:"topSellers"`
}

// LowStock returns the products whose stock is under LowStockThreshold, in catalogue order.
func LowStock(data models.AppData) []models.Product {
	out := []models.Product{}
	for _, p := range data.Products {
		if p.CurrentStock < LowStockThreshold {
			out = append(out, p)
		}
	}
	return out
}

// TotalInventoryValue values the stock at each product's default buy price.
func TotalInventoryValue(data models.AppData) decimal.Decimal {
	total := decimal.Zero
	for _, p := range data.Products {
		total = total.Add(p.DefaultBuyPrice.Mul(decimal.NewFromInt(int64(p.CurrentStock))))
	}
	return total
}

// RecentHistory returns the transactions dated within the last 90 days, newest first.
func RecentHistory(data models.AppData, now time.Time) []models.Transaction {
	cutoff := now.Add(-HistoryWindow)
	out := []models.Transaction{}
	for _, tx := range data.Transactions {
		if !tx.Date.Before(cutoff) {
			out = append(out, tx)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Transaction) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// TopSellers ranks products by units sold over outward transactions. Ties keep the order in
// which products first appear in the log. A non-positive limit means DefaultTopSellers.
func TopSellers(data models.AppData, limit int) []TopSeller {
	if limit <= 0 {
		limit = DefaultTopSellers
	}

	index := map[string]int{}
	out := []TopSeller{}
	for _, tx := range data.Transactions {
		if tx.Type != models.Outward {
			continue
		}
		for _, item := range tx.Items {
			i, ok := index[item.ProductID]
			if !ok {
				i = len(out)
				index[item.ProductID] = i
				out = append(out, TopSeller{ProductID: item.ProductID, Name: item.ProductName})
			}
			out[i].Quantity += item.Quantity
		}
	}

	slices.SortStableFunc(out, func(a, b TopSeller) int {
		return b.Quantity - a.Quantity
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// BuildDashboard computes the overview figures.
func BuildDashboard(data models.AppData, now time.Time) Dashboard {
	low := LowStock(data)
	return Dashboard{
		InventoryValue: TotalInventoryValue(data),
		LowStockCount:  len(low),
		ProductCount:   len(data.Products),
		RecentOrders:   len(RecentHistory(data, now)),
		LowStock:       low,
		TopSellers:     TopSellers(data, DefaultTopSellers),
	}
}

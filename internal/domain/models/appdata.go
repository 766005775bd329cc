package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// AppData is the whole persisted state: the catalogue, the contacts and the transaction log.
// Transactions are kept newest-first by insertion, not sorted by date.
type AppData struct {
	Products     []Product     `json:"products"`
	Contacts     []Contact     `json:"contacts"`
	Transactions []Transaction `json:"transactions"`
}

// Clone returns a deep copy that shares no slices with d.
func (d AppData) Clone() AppData {
	out := AppData{
		Products:     slices.Clone(d.Products),
		Contacts:     slices.Clone(d.Contacts),
		Transactions: make([]Transaction, len(d.Transactions)),
	}
	for i, tx := range d.Transactions {
		tx.Items = slices.Clone(tx.Items)
		out.Transactions[i] = tx
	}
	if out.Products == nil {
		out.Products = []Product{}
	}
	if out.Contacts == nil {
		out.Contacts = []Contact{}
	}
	return out
}

// Product looks a product up by id.
func (d AppData) Product(id string) (Product, bool) {
	i := d.productIndex(id)
	if i < 0 {
		return Product{}, false
	}
	return d.Products[i], true
}

func (d AppData) productIndex(id string) int {
	return slices.IndexFunc(d.Products, func(p Product) bool { return p.ID == id })
}

// AdjustStock moves a product's stock by delta. It reports false when the product is unknown.
func (d *AppData) AdjustStock(id string, delta int) bool {
	i := d.productIndex(id)
	if i < 0 {
		return false
	}
	d.Products[i].CurrentStock += delta
	return true
}

// Contact looks a contact up by id.
func (d AppData) Contact(id string) (Contact, bool) {
	i := slices.IndexFunc(d.Contacts, func(c Contact) bool { return c.ID == id })
	if i < 0 {
		return Contact{}, false
	}
	return d.Contacts[i], true
}

// ContactsByRole returns the contacts holding role, in insertion order.
func (d AppData) ContactsByRole(role Role) []Contact {
	var out []Contact
	for _, c := range d.Contacts {
		if c.Role == role {
			out = append(out, c)
		}
	}
	return out
}

const day = 24 * time.Hour

// Seed returns the dataset used when no state has been persisted yet.
func Seed(now time.Time) AppData {
	price := decimal.NewFromInt
	return AppData{
		Products: []Product{
			{ID: "p1", Name: "Wireless Mouse", SKU: "TECH-001", Category: "Electronics", Description: "Ergonomic wireless mouse", DefaultBuyPrice: price(15), DefaultSellPrice: price(35), CurrentStock: 120},
			{ID: "p2", Name: "Mechanical Keyboard", SKU: "TECH-002", Category: "Electronics", Description: "RGB Mechanical Keyboard", DefaultBuyPrice: price(45), DefaultSellPrice: price(120), CurrentStock: 45},
			{ID: "p3", Name: "Office Chair", SKU: "FUR-001", Category: "Furniture", Description: "Mesh back office chair", DefaultBuyPrice: price(80), DefaultSellPrice: price(199), CurrentStock: 12},
			{ID: "p4", Name: "USB-C Cable", SKU: "ACC-001", Category: "Accessories", Description: "2m Braided Cable", DefaultBuyPrice: price(2), DefaultSellPrice: price(10), CurrentStock: 500},
		},
		Contacts: []Contact{
			{ID: "c1", Name: "TechSuppliers Inc.", Role: RoleSeller, Email: "sales@techsuppliers.com"},
			{ID: "c2", Name: "Global Importers Ltd.", Role: RoleSeller, Email: "orders@global.com"},
			{ID: "c3", Name: "Alice Smith", Role: RoleBuyer, Email: "alice@example.com"},
			{ID: "c4", Name: "Bob Jones", Role: RoleBuyer, Email: "bob@example.com"},
		},
		Transactions: []Transaction{
			{
				ID:          "t1",
				Date:        now.Add(-5 * day),
				Type:        Outward,
				ContactID:   "c3",
				ContactName: "Alice Smith",
				TotalAmount: price(155),
				Items: []TransactionLine{
					{ProductID: "p1", ProductName: "Wireless Mouse", Quantity: 1, PriceAtTransaction: price(35)},
					{ProductID: "p2", ProductName: "Mechanical Keyboard", Quantity: 1, PriceAtTransaction: price(120)},
				},
			},
			{
				ID:          "t2",
				Date:        now.Add(-10 * day),
				Type:        Outward,
				ContactID:   "c4",
				ContactName: "Bob Jones",
				TotalAmount: price(70),
				Items: []TransactionLine{
					{ProductID: "p1", ProductName: "Wireless Mouse", Quantity: 2, PriceAtTransaction: price(35)},
				},
			},
		},
	}
}

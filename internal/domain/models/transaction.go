package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether a transaction brings stock in or takes it out.
type Direction string

const (
	Inward  Direction = "INWARD"
	Outward Direction = "OUTWARD"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == Inward || d == Outward
}

// ParseDirection accepts any casing of INWARD or OUTWARD.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown transaction direction %q", s)
	}
	return d, nil
}

// CounterpartyRole is the contact role a transaction of this direction is made with.
func (d Direction) CounterpartyRole() Role {
	if d == Inward {
		return RoleSeller
	}
	return RoleBuyer
}

// Sign is +1 for inward and -1 for outward stock movements.
func (d Direction) Sign() int {
	if d == Inward {
		return 1
	}
	return -1
}

// TransactionLine is one product/quantity/price tuple. ProductName is a snapshot taken when
// the line was built and PriceAtTransaction is the unit price actually charged.
type TransactionLine struct {
	ProductID          string          `json:"productId"`
	ProductName        string          `json:"productName"`
	Quantity           int             `json:"quantity"`
	PriceAtTransaction decimal.Decimal `json:"priceAtTransaction"`
}

// CartItem is a line that has not been committed yet.
type CartItem = TransactionLine

// Subtotal returns Quantity × PriceAtTransaction.
func (l TransactionLine) Subtotal() decimal.Decimal {
	return l.PriceAtTransaction.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Transaction is a committed stock movement. TotalAmount is computed once at commit.
type Transaction struct {
	ID          string            `json:"id"`
	Date        time.Time         `json:"date"`
	Type        Direction         `json:"type"`
	ContactID   string            `json:"contactId"`
	ContactName string            `json:"contactName"`
	Items       []TransactionLine `json:"items"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
	Notes       string            `json:"notes,omitempty"`
}

type transactionJSON struct {
	ID          string            `json:"id"`
	Date        int64             `json:"date"`
	Type        Direction         `json:"type"`
	ContactID   string            `json:"contactId"`
	ContactName string            `json:"contactName"`
	Items       []TransactionLine `json:"items"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
	Notes       string            `json:"notes,omitempty"`
}

// MarshalJSON stores the date as Unix milliseconds.
func (t Transaction) MarshalJSON() ([]byte, error) {
	items := t.Items
	if items == nil {
		items = []TransactionLine{}
	}
	return json.Marshal(transactionJSON{
		ID:          t.ID,
		Date:        t.Date.UnixMilli(),
		Type:        t.Type,
		ContactID:   t.ContactID,
		ContactName: t.ContactName,
		Items:       items,
		TotalAmount: t.TotalAmount,
		Notes:       t.Notes,
	})
}

// UnmarshalJSON reads the date from Unix milliseconds.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw transactionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Transaction{
		ID:          raw.ID,
		Date:        time.UnixMilli(raw.Date).UTC(),
		Type:        raw.Type,
		ContactID:   raw.ContactID,
		ContactName: raw.ContactName,
		Items:       raw.Items,
		TotalAmount: raw.TotalAmount,
		Notes:       raw.Notes,
	}
	return nil
}

// Units returns the total quantity moved by the transaction.
func (t Transaction) Units() int {
	var n int
	for _, item := range t.Items {
		n += item.Quantity
	}
	return n
}

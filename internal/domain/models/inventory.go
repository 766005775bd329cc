package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are persisted as plain JSON numbers, the way the stored blob has always held them.
	decimal.MarshalJSONWithoutQuotes = true
}

// Role is the fixed role of a contact.
type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller
}

// ParseRole accepts any casing of BUYER or SELLER.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !role.Valid() {
		return "", fmt.Errorf("unknown contact role %q", s)
	}
	return role, nil
}

// Product is one catalogue entry. CurrentStock is only moved by the ledger.
type Product struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	Category         string          `json:"category"`
	Description      string          `json:"description"`
	DefaultBuyPrice  decimal.Decimal `json:"defaultBuyPrice"`
	DefaultSellPrice decimal.Decimal `json:"defaultSellPrice"`
	CurrentStock     int             `json:"currentStock"`
}

// Contact is a buyer or a seller. Contacts are immutable once created.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  Role   `json:"type"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// NewProduct carries the fields accepted by the product creation form.
type NewProduct struct {
	Name             string          `json:"name" binding:"required"`
	SKU              string          `json:"sku" binding:"required"`
	Category         string          `json:"category"`
	Description      string          `json:"description"`
	DefaultBuyPrice  decimal.Decimal `json:"defaultBuyPrice"`
	DefaultSellPrice decimal.Decimal `json:"defaultSellPrice"`
}

// NewContact carries the fields accepted by the contact creation form.
type NewContact struct {
	Name  string `json:"name" binding:"required"`
	Role  Role   `json:"type" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ErrInvalidInput marks a creation form that failed validation.
var ErrInvalidInput = errors.New("invalid input")

// Validate checks required fields and price signs.
func (p NewProduct) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: product name is required", ErrInvalidInput)
	case strings.TrimSpace(p.SKU) == "":
		return fmt.Errorf("%w: product sku is required", ErrInvalidInput)
	case p.DefaultBuyPrice.IsNegative():
		return fmt.Errorf("%w: default buy price must not be negative", ErrInvalidInput)
	case p.DefaultSellPrice.IsNegative():
		return fmt.Errorf("%w: default sell price must not be negative", ErrInvalidInput)
	}
	return nil
}

// Validate checks the name and role.
func (c NewContact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: contact name is required", ErrInvalidInput)
	}
	if !c.Role.Valid() {
		return fmt.Errorf("%w: contact role must be %s or %s", ErrInvalidInput, RoleBuyer, RoleSeller)
	}
	return nil
}

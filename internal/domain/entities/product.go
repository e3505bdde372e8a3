package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProduct    = errors.New("invalid product")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product is owned by the inventory service. Stock never goes below zero.
//
// Storage model (DynamoDB):
//   - PK: id
type Product struct {
	ID        string
	SKU       string
	Name      string
	Price     decimal.Decimal
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.SKU) == "" {
		return fmt.Errorf("%w: sku is required", ErrInvalidProduct)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	}
	return nil
}

func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{ProductID: p.ID, Name: p.Name, Price: p.Price}
}

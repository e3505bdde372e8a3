package entities

import "github.com/shopspring/decimal"

// UnpricedLineItem is a requested product and quantity, before any lookup.
type UnpricedLineItem struct {
	ProductID string
	Quantity  int
}

// PricedLineItem is a line of an open quotation. Its price may still change at approval.
type PricedLineItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

func (it PricedLineItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Freeze snapshots the line price.
func (it PricedLineItem) Freeze() FrozenLineItem {
	return FrozenLineItem{
		ProductID:   it.ProductID,
		ProductName: it.ProductName,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
	}
}

// FrozenLineItem is a line of a SOLD quotation; its price never changes again.
type FrozenLineItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

func (it FrozenLineItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// PriceSnapshot is always true for frozen lines. Kept for read models and the
// persisted line shape.
func (FrozenLineItem) PriceSnapshot() bool { return true }

// ProductSnapshot is the price view of a product returned by the inventory service.
type ProductSnapshot struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
}

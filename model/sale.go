package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type City struct {
	ID   int64
	Name string
}

type Store struct {
	ID     int64
	Name   string
	CityID int64
}

type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// LineItem is one product entry of a sale. UnitPrice is the product price
// captured when the line item was created.
type LineItem struct {
	ID        int64
	SaleID    int64
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Price bounds of a NUMERIC(10,2) column.
const (
	PriceIntegerDigits = 8
	PriceScale         = 2
)

// FitsDigits reports whether |d| < 10^intDigits with at most scale decimal
// places. The exponent is checked before any arithmetic, so values such
// as 1e50000000 are refused without expanding their coefficient.
func FitsDigits(d decimal.Decimal, intDigits, scale int32) bool {
	if d.IsZero() {
		return true
	}
	if d.Exponent() < -scale || d.Exponent() >= intDigits {
		return false
	}
	return d.Abs().LessThan(decimal.New(1, intDigits))
}

// Subtotal is UnitPrice × Quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(li.Quantity))
}

// LineItemDetail is a line item joined with its product name.
type LineItemDetail struct {
	LineItem
	ProductName string
}

// Sale owns its line items; they are deleted with it.
type Sale struct {
	ID        int64
	StoreID   int64
	CreatedAt time.Time
	LineItems []LineItem
}

// TotalAmount sums unit price × quantity over the line items.
func TotalAmount(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.Subtotal())
	}
	return total
}

// TotalQuantity sums quantities over the line items.
func TotalQuantity(items []LineItem) int64 {
	var total int64
	for _, li := range items {
		total += li.Quantity
	}
	return total
}

func (s Sale) TotalAmount() decimal.Decimal { return TotalAmount(s.LineItems) }

func (s Sale) TotalQuantity() int64 { return TotalQuantity(s.LineItems) }

// HasProduct reports whether any line item references productID.
func (s Sale) HasProduct(productID int64) bool {
	for _, li := range s.LineItems {
		if li.ProductID == productID {
			return true
		}
	}
	return false
}

// ItemInput is a requested (product, quantity) pair.
type ItemInput struct {
	ProductID int64
	Quantity  int64
}

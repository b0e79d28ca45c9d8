package model

import "github.com/shopspring/decimal"

// CartItem is a single line of a remote cart. Product may be null when the
// book was removed from the catalog after it was added.
type CartItem struct {
	ID      uint     `json:"id"`
	Qty     FlexInt  `json:"qty"`
	Product *Product `json:"product"`
}

// Cart groups items on the server. The client flattens carts into one list.
type Cart struct {
	ID    uint       `json:"id"`
	Items []CartItem `json:"items"`
}

// LineTotal is real_price * qty.
func (i CartItem) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.RealPrice.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// LineDiscount is max(0, fake_price - real_price) * qty.
func (i CartItem) LineDiscount() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	diff := i.Product.FakePrice.Sub(i.Product.RealPrice.Decimal)
	if diff.IsNegative() {
		return decimal.Zero
	}
	return diff.Mul(decimal.NewFromInt(int64(i.Qty)))
}

package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           int64  `json:"price"`
	DiscountedPrice int64  `json:"discounted_price"`
}

// EffectivePrice is the price a cart snapshot uses: the discounted price
// when one is set, the list price otherwise.
func (p Product) EffectivePrice() int64 {
	if p.DiscountedPrice > 0 {
		return p.DiscountedPrice
	}
	return p.Price
}

type ShippingOption struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Cost        int64  `json:"cost"`
}

type TaxOption struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

// Apply computes the tax amount for a subtotal in minor units, rounded
// half-up to the nearest unit.
func (t TaxOption) Apply(subtotal int64) int64 {
	return decimal.NewFromInt(subtotal).
		Mul(t.Rate).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

package shop

import "github.com/shopspring/decimal"

// Line is one cart entry. Title and price are a snapshot taken when the
// product was first added; they are not re-synced if the product changes
// later. Qty is always at least 1 — a line driven to zero is removed.
type Line struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
}

// AddToCart records intent to buy one more unit. The product must exist in
// the catalog with stock on hand; nothing is decremented here — stock is
// only validated and deducted at checkout.
func AddToCart(cart []Line, catalog []Product, productID string) ([]Line, error) {
	p, ok := FindByID(catalog, productID)
	if !ok {
		return cart, ErrNotFound
	}
	if p.Qty <= 0 {
		return cart, ErrOutOfStock
	}

	out := append([]Line(nil), cart...)
	for i := range out {
		if out[i].ProductID == productID {
			out[i].Qty++
			return out, nil
		}
	}
	return append(out, Line{ProductID: p.ID, Title: p.Title, Price: p.Price, Qty: 1}), nil
}

// ChangeQuantity adds delta to the line's quantity, removing the line when
// the result drops to zero or below. An out-of-range index is a no-op: the
// view may hold indices from a render that raced a mutation, and those are
// tolerated rather than rejected.
func ChangeQuantity(cart []Line, index, delta int) []Line {
	if index < 0 || index >= len(cart) {
		return cart
	}
	out := append([]Line(nil), cart...)
	out[index].Qty += delta
	if out[index].Qty <= 0 {
		return append(out[:index], out[index+1:]...)
	}
	return out
}

// RemoveLine drops the line at index unconditionally; no-op out of range.
func RemoveLine(cart []Line, index int) []Line {
	if index < 0 || index >= len(cart) {
		return cart
	}
	out := append([]Line(nil), cart...)
	return append(out[:index], out[index+1:]...)
}

func Total(cart []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range cart {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	return total
}

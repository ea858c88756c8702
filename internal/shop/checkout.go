package shop

import "github.com/shopspring/decimal"

// Receipt is what a successful checkout reports back: the purchased lines
// and their exact total.
type Receipt struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// Checkout validates every cart line against the current catalog and applies
// the decrements only if all of them pass. All-or-nothing: any shortfall
// returns a StockError naming the product and the input catalog is returned
// untouched. A line whose product no longer exists counts as zero available.
//
// The quantity clamp in the apply loop should never fire given validation on
// the same catalog value; it guards the store boundary where a remote
// backend may have moved underneath us.
func Checkout(cart []Line, catalog []Product) ([]Product, Receipt, error) {
	if len(cart) == 0 {
		return catalog, Receipt{}, ErrEmptyCart
	}

	for _, l := range cart {
		available := 0
		if p, ok := FindByID(catalog, l.ProductID); ok {
			available = p.Qty
		}
		if l.Qty > available {
			return catalog, Receipt{}, &StockError{
				ProductID: l.ProductID,
				Title:     l.Title,
				Requested: l.Qty,
				Available: available,
			}
		}
	}

	out := append([]Product(nil), catalog...)
	for _, l := range cart {
		for i := range out {
			if out[i].ID != l.ProductID {
				continue
			}
			out[i].Qty -= l.Qty
			if out[i].Qty < 0 {
				out[i].Qty = 0
			}
			break
		}
	}

	return out, Receipt{Lines: cart, Total: Total(cart)}, nil
}

// NewReceipt pairs lines with their computed total without touching any
// catalog. Used where the decrement already happened elsewhere (the catalog
// service's transactional checkout).
func NewReceipt(lines []Line) Receipt {
	return Receipt{Lines: lines, Total: Total(lines)}
}

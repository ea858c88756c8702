// Package shop holds the cart and inventory rules shared by the catalog and
// cart services. Operations take catalog/cart values and return new ones;
// they never touch storage, so a failed operation leaves the caller's state
// exactly as it was.
package shop

import (
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Qty   int             `json:"qty"`
	Img   string          `json:"img,omitempty"`
	Color string          `json:"color,omitempty"`
}

var palette = [...]string{"#2b8aef", "#f97316", "#10b981", "#eab308", "#8b5cf6", "#ec4899"}

// ColorFor assigns the display color for a new product. Hash of the title so
// the assignment is stable across runs; the color is stored once at creation
// and never re-derived.
func ColorFor(title string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(title))))
	return palette[h.Sum32()%uint32(len(palette))]
}

// DefaultCatalog is the seed set the reset operation restores.
func DefaultCatalog() []Product {
	return []Product{
		{ID: "p1", Title: "Trekking Poles", Price: decimal.RequireFromString("19.99"), Qty: 10, Img: "images/product1.png", Color: ColorFor("Trekking Poles")},
		{ID: "p2", Title: "Water Bottle", Price: decimal.RequireFromString("9.50"), Qty: 25, Img: "images/product2.png", Color: ColorFor("Water Bottle")},
		{ID: "p3", Title: "Backpack 20L", Price: decimal.RequireFromString("29.99"), Qty: 8, Img: "images/product3.png", Color: ColorFor("Backpack 20L")},
	}
}

func FindByID(catalog []Product, id string) (Product, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Search filters the catalog by case-insensitive title substring. An empty
// term returns the catalog unchanged.
func Search(catalog []Product, term string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return catalog
	}
	out := make([]Product, 0, len(catalog))
	for _, p := range catalog {
		if strings.Contains(strings.ToLower(p.Title), term) {
			out = append(out, p)
		}
	}
	return out
}

// UpsertInput carries the raw admin form fields. Price and Qty arrive as
// strings and fall back to zero when they do not parse as non-negative
// numbers.
type UpsertInput struct {
	Title string `json:"title"`
	Price string `json:"price"`
	Qty   string `json:"qty"`
	Img   string `json:"img"`
}

// ParsePrice parses a non-negative decimal price, falling back to zero on
// any parse failure or negative input.
func ParsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParseQty parses a non-negative integer quantity, falling back to zero.
func ParseQty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Upsert matches on title, case-insensitively. A match updates price and qty
// in place and replaces img only when a non-empty one was supplied; id,
// title and color stay as they are. No match appends a new product with a
// freshly generated id and a palette color. Editing a title into a collision
// with another product therefore merges on the next save; that is the
// catalog's documented behavior, not an accident.
func Upsert(catalog []Product, in UpsertInput, newID func() string) ([]Product, Product, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return catalog, Product{}, ErrTitleRequired
	}

	price := ParsePrice(in.Price)
	qty := ParseQty(in.Qty)
	img := strings.TrimSpace(in.Img)

	out := append([]Product(nil), catalog...)
	for i := range out {
		if strings.EqualFold(out[i].Title, title) {
			out[i].Price = price
			out[i].Qty = qty
			if img != "" {
				out[i].Img = img
			}
			return out, out[i], nil
		}
	}

	p := Product{
		ID:    newID(),
		Title: title,
		Price: price,
		Qty:   qty,
		Img:   img,
		Color: ColorFor(title),
	}
	return append(out, p), p, nil
}

// Delete removes the product with the given id. Cart lines that reference it
// are left alone; they resolve to zero available stock at checkout.
func Delete(catalog []Product, id string) ([]Product, bool) {
	out := make([]Product, 0, len(catalog))
	found := false
	for _, p := range catalog {
		if p.ID == id {
			found = true
			continue
		}
		out = append(out, p)
	}
	return out, found
}

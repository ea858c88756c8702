package shop

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func price(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad price %q: %v", s, err)
	}
	return d
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	cart, err := AddToCart(nil, DefaultCatalog(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(cart) != 0 {
		t.Fatalf("cart mutated on failure: %v", cart)
	}
}

func TestAddToCart_OutOfStock(t *testing.T) {
	catalog := []Product{{ID: "p1", Title: "Trekking Poles", Price: price(t, "19.99"), Qty: 0}}

	cart, err := AddToCart(nil, catalog, "p1")
	if !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("err = %v, want ErrOutOfStock", err)
	}
	if len(cart) != 0 {
		t.Fatalf("cart mutated on failure: %v", cart)
	}
}

func TestAddToCart_RepeatAddsCollapseToOneLine(t *testing.T) {
	catalog := DefaultCatalog()

	var cart []Line
	var err error
	for i := 0; i < 5; i++ {
		cart, err = AddToCart(cart, catalog, "p1")
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	if len(cart) != 1 {
		t.Fatalf("len(cart) = %d, want 1", len(cart))
	}
	if cart[0].ProductID != "p1" || cart[0].Qty != 5 {
		t.Fatalf("line = %+v, want p1 qty 5", cart[0])
	}
}

func TestAddToCart_SnapshotsTitleAndPrice(t *testing.T) {
	catalog := DefaultCatalog()

	cart, err := AddToCart(nil, catalog, "p2")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if cart[0].Title != "Water Bottle" || !cart[0].Price.Equal(price(t, "9.50")) {
		t.Fatalf("snapshot = %+v", cart[0])
	}
}

func TestAddToCart_DoesNotTouchCatalogStock(t *testing.T) {
	catalog := DefaultCatalog()

	if _, err := AddToCart(nil, catalog, "p1"); err != nil {
		t.Fatalf("add: %v", err)
	}

	p, _ := FindByID(catalog, "p1")
	if p.Qty != 10 {
		t.Fatalf("catalog qty = %d, want 10", p.Qty)
	}
}

func TestChangeQuantity_RemovesLineAtZeroOrBelow(t *testing.T) {
	cart := []Line{
		{ProductID: "p1", Qty: 2},
		{ProductID: "p2", Qty: 1},
	}

	cart = ChangeQuantity(cart, 1, -1)
	if len(cart) != 1 || cart[0].ProductID != "p1" {
		t.Fatalf("cart = %+v, want only p1", cart)
	}

	cart = ChangeQuantity(cart, 0, -5)
	if len(cart) != 0 {
		t.Fatalf("cart = %+v, want empty", cart)
	}
}

func TestChangeQuantity_NoUpperBound(t *testing.T) {
	cart := []Line{{ProductID: "p1", Qty: 1}}

	cart = ChangeQuantity(cart, 0, 100)
	if cart[0].Qty != 101 {
		t.Fatalf("qty = %d, want 101", cart[0].Qty)
	}
}

func TestChangeQuantity_StaleIndexIsNoOp(t *testing.T) {
	cart := []Line{{ProductID: "p1", Qty: 1}}

	for _, idx := range []int{-1, 1, 99} {
		got := ChangeQuantity(cart, idx, 1)
		if len(got) != 1 || got[0].Qty != 1 {
			t.Fatalf("index %d: cart = %+v, want unchanged", idx, got)
		}
	}
}

func TestRemoveLine(t *testing.T) {
	cart := []Line{
		{ProductID: "p1", Qty: 1},
		{ProductID: "p2", Qty: 3},
	}

	cart = RemoveLine(cart, 0)
	if len(cart) != 1 || cart[0].ProductID != "p2" {
		t.Fatalf("cart = %+v", cart)
	}

	cart = RemoveLine(cart, 7)
	if len(cart) != 1 {
		t.Fatalf("out-of-range remove mutated cart: %+v", cart)
	}
}

func TestTotal(t *testing.T) {
	cart := []Line{
		{ProductID: "p1", Price: price(t, "19.99"), Qty: 3},
		{ProductID: "p2", Price: price(t, "9.50"), Qty: 2},
	}

	if got, want := Total(cart), price(t, "78.97"); !got.Equal(want) {
		t.Fatalf("total = %s, want %s", got, want)
	}

	if !Total(nil).Equal(decimal.Zero) {
		t.Fatalf("empty total = %s, want 0", Total(nil))
	}
}

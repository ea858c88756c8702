package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"TrailStore/internal/shop"
)

func TestMemStore_SaveLoadRoundTrip(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	lines := []shop.Line{
		{ProductID: "p1", Title: "Trekking Poles", Price: decimal.RequireFromString("19.99"), Qty: 2},
	}
	if err := s.Save(ctx, "u_1", lines); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx, "u_1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].ProductID != "p1" || got[0].Qty != 2 {
		t.Fatalf("loaded = %+v", got)
	}

	// The store hands out copies; mutating a loaded slice must not leak back.
	got[0].Qty = 99
	again, _ := s.Load(ctx, "u_1")
	if again[0].Qty != 2 {
		t.Fatalf("store shares memory with callers: %+v", again)
	}
}

func TestMemStore_SaveEmptyClears(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	s.Save(ctx, "u_1", []shop.Line{{ProductID: "p1", Qty: 1}})

	if err := s.Save(ctx, "u_1", nil); err != nil {
		t.Fatalf("save nil: %v", err)
	}
	got, err := s.Load(ctx, "u_1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("cart = %+v, want empty", got)
	}
}

func TestMemStore_UnknownUserIsEmpty(t *testing.T) {
	s := NewMemStore()

	got, err := s.Load(context.Background(), "u_nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("cart = %+v, want empty", got)
	}
}

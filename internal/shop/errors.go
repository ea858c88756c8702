package shop

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrOutOfStock        = errors.New("out of stock")
	ErrEmptyCart         = errors.New("empty cart")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrTitleRequired     = errors.New("title required")
)

// StockError is returned by Checkout when a line asks for more than the
// catalog currently has. It unwraps to ErrInsufficientStock.
type StockError struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q (%s): requested %d, available %d",
		e.Title, e.ProductID, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

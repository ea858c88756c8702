package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"TrailStore/internal/shop"
)

var (
	ErrCatalogNotFound    = errors.New("catalog product not found")
	ErrCatalogBadStatus   = errors.New("catalog bad status")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// CatalogClient talks to the catalog service. Product reads are always
// fetched fresh — a cart built against stale stock must be re-validated
// against current catalog state, never against a client-cached copy.
type CatalogClient struct {
	BaseURL string
	Client  *http.Client
}

func NewCatalogClient(baseURL string) *CatalogClient {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &CatalogClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 3 * time.Second},
	}
}

func (c *CatalogClient) GetProduct(ctx context.Context, id string) (shop.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products/%s", c.BaseURL, id), nil)
	if err != nil {
		return shop.Product{}, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return shop.Product{}, asUnavailable(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return shop.Product{}, ErrCatalogNotFound
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return shop.Product{}, fmt.Errorf("%w: status=%d", ErrCatalogBadStatus, resp.StatusCode)
	}

	var p shop.Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return shop.Product{}, err
	}
	return p, nil
}

type checkoutReq struct {
	Lines []shop.Line `json:"lines"`
}

// Checkout hands the cart to the catalog's atomic validate-and-decrement
// endpoint. A 409 with stock detail comes back as *shop.StockError, so the
// caller can treat local and remote checkout failures uniformly.
func (c *CatalogClient) Checkout(ctx context.Context, lines []shop.Line) error {
	body, err := json.Marshal(checkoutReq{Lines: lines})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/internal/checkout", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return asUnavailable(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case http.StatusConflict:
		return decodeConflict(resp.Body)
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status=%d", ErrCatalogBadStatus, resp.StatusCode)
	}
}

func decodeConflict(body io.Reader) error {
	var payload struct {
		Error   string           `json:"error"`
		Details *shop.StockError `json:"details"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return fmt.Errorf("%w: status=409", ErrCatalogBadStatus)
	}

	if payload.Details != nil {
		return payload.Details
	}
	if payload.Error == "empty cart" {
		return shop.ErrEmptyCart
	}
	return shop.ErrInsufficientStock
}

// Connection refused, DNS failure, timeout: all the same to the caller.
func asUnavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
}

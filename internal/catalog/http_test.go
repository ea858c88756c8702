package catalog_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"TrailStore/internal/auth"
	"TrailStore/internal/catalog"
	"TrailStore/internal/shop"
)

const jwtSecret = "test-secret"

func newCatalogTS(t *testing.T) (*httptest.Server, *catalog.MemStore) {
	t.Helper()

	store := catalog.NewMemStore()
	s := &catalog.Server{
		Store: store,
		Log:   zap.NewNop(),
		JWT:   auth.NewTokenMaker(jwtSecret),
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "catalog",
	})

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts, store
}

func token(t *testing.T, role string) string {
	t.Helper()

	tok, err := auth.NewTokenMaker(jwtSecret).New("u_test", "tester", role, 15*time.Minute)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}
	return tok
}

func doJSON(t *testing.T, method, url, bearer string, body any) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func listProducts(t *testing.T, ts *httptest.Server, query string) []shop.Product {
	t.Helper()

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/products"+query, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status=%d body=%s", resp.StatusCode, raw)
	}

	var products []shop.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		t.Fatalf("unmarshal products: %v", err)
	}
	return products
}

func TestCatalog_ListAndSearch(t *testing.T) {
	ts, _ := newCatalogTS(t)

	if got := listProducts(t, ts, ""); len(got) != 3 {
		t.Fatalf("seed list = %d products, want 3", len(got))
	}

	got := listProducts(t, ts, "?q=bottle")
	if len(got) != 1 || got[0].ID != "p2" {
		t.Fatalf("search = %+v", got)
	}
}

func TestCatalog_GetNotFound(t *testing.T) {
	ts, _ := newCatalogTS(t)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/products/nope", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", resp.StatusCode)
	}
}

func TestCatalog_AdminRequiresRole(t *testing.T) {
	ts, _ := newCatalogTS(t)

	resp, _ := doJSON(t, http.MethodPut, ts.URL+"/admin/products", "", map[string]any{"title": "X"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: status=%d, want 401", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/admin/products", token(t, auth.RoleUser), map[string]any{"title": "X"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("user token: status=%d, want 403", resp.StatusCode)
	}
}

func TestCatalog_UpsertCreateAndMerge(t *testing.T) {
	ts, _ := newCatalogTS(t)
	admin := token(t, auth.RoleAdmin)

	resp, raw := doJSON(t, http.MethodPut, ts.URL+"/admin/products", admin, map[string]any{
		"title": "Headlamp",
		"price": "24.99",
		"qty":   "12",
		"img":   "images/headlamp.png",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status=%d body=%s", resp.StatusCode, raw)
	}

	var created shop.Product
	if err := json.Unmarshal(raw, &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.ID == "" || created.Qty != 12 {
		t.Fatalf("created = %+v", created)
	}

	if got := listProducts(t, ts, ""); len(got) != 4 {
		t.Fatalf("after create: %d products, want 4", len(got))
	}

	// Same title, any case: merge in place, catalog size unchanged.
	resp, raw = doJSON(t, http.MethodPut, ts.URL+"/admin/products", admin, map[string]any{
		"title": "water bottle",
		"price": "11.00",
		"qty":   "30",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("merge status=%d body=%s", resp.StatusCode, raw)
	}

	var merged shop.Product
	if err := json.Unmarshal(raw, &merged); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if merged.ID != "p2" || merged.Qty != 30 {
		t.Fatalf("merged = %+v", merged)
	}
	if got := listProducts(t, ts, ""); len(got) != 4 {
		t.Fatalf("after merge: %d products, want 4", len(got))
	}
}

func TestCatalog_UpsertTitleRequired(t *testing.T) {
	ts, _ := newCatalogTS(t)

	resp, _ := doJSON(t, http.MethodPut, ts.URL+"/admin/products", token(t, auth.RoleAdmin), map[string]any{
		"title": "   ",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", resp.StatusCode)
	}
}

func TestCatalog_DeleteProduct(t *testing.T) {
	ts, _ := newCatalogTS(t)
	admin := token(t, auth.RoleAdmin)

	resp, _ := doJSON(t, http.MethodDelete, ts.URL+"/admin/products/p1", admin, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status=%d, want 204", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/admin/products/p1", admin, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status=%d, want 404", resp.StatusCode)
	}
}

func TestCatalog_ResetRestoresSeed(t *testing.T) {
	ts, _ := newCatalogTS(t)
	admin := token(t, auth.RoleAdmin)

	doJSON(t, http.MethodDelete, ts.URL+"/admin/products/p1", admin, nil)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/admin/products/reset", admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset status=%d", resp.StatusCode)
	}

	first := listProducts(t, ts, "")
	if len(first) != 3 {
		t.Fatalf("after reset: %d products, want 3", len(first))
	}

	doJSON(t, http.MethodPost, ts.URL+"/admin/products/reset", admin, nil)
	second := listProducts(t, ts, "")

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	if !bytes.Equal(firstJSON, secondJSON) {
		t.Fatalf("reset not idempotent:\n%s\n%s", firstJSON, secondJSON)
	}
}

func TestCatalog_CheckoutDecrements(t *testing.T) {
	ts, _ := newCatalogTS(t)

	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/internal/checkout", "", map[string]any{
		"lines": []map[string]any{
			{"product_id": "p1", "title": "Trekking Poles", "price": "19.99", "qty": 3},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("checkout status=%d body=%s", resp.StatusCode, raw)
	}

	for _, p := range listProducts(t, ts, "") {
		if p.ID == "p1" && p.Qty != 7 {
			t.Fatalf("p1 qty = %d, want 7", p.Qty)
		}
	}
}

func TestCatalog_CheckoutShortfallIsAtomic(t *testing.T) {
	ts, _ := newCatalogTS(t)

	before := listProducts(t, ts, "")

	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/internal/checkout", "", map[string]any{
		"lines": []map[string]any{
			{"product_id": "p1", "title": "Trekking Poles", "price": "19.99", "qty": 2},
			{"product_id": "p3", "title": "Backpack 20L", "price": "29.99", "qty": 99},
		},
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status=%d body=%s, want 409", resp.StatusCode, raw)
	}

	var payload struct {
		Error   string           `json:"error"`
		Details *shop.StockError `json:"details"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Details == nil || payload.Details.ProductID != "p3" {
		t.Fatalf("details = %+v, want p3 named", payload.Details)
	}

	after := listProducts(t, ts, "")
	beforeJSON, _ := json.Marshal(before)
	afterJSON, _ := json.Marshal(after)
	if !bytes.Equal(beforeJSON, afterJSON) {
		t.Fatalf("catalog changed by failed checkout:\nbefore %s\nafter  %s", beforeJSON, afterJSON)
	}
}

func TestCatalog_CheckoutEmptyLines(t *testing.T) {
	ts, _ := newCatalogTS(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/internal/checkout", "", map[string]any{
		"lines": []map[string]any{},
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status=%d, want 409", resp.StatusCode)
	}
}

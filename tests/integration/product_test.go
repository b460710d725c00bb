//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 2 {
		t.Fatalf("expected 2 seeded products, got %d", len(products))
	}

	p := products[0]
	if p.Name != "Product 1" {
		t.Errorf("name: got %q, want %q", p.Name, "Product 1")
	}
	if !approx(p.Price, 9.99) {
		t.Errorf("price: got %v, want 9.99", p.Price)
	}
}

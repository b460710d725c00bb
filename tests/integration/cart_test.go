//go:build integration

package integration

import (
	"net/http"
	"testing"
)

// TestCartFlow walks the full cart lifecycle for user 1 so the test does not
// depend on other tests running first.
func TestCartFlow(t *testing.T) {
	// No cart yet.
	resp := doGet(t, "/cart/1")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("fresh cart: expected 404, got %d", resp.StatusCode)
	}

	// First add creates the cart.
	resp = doJSON(t, http.MethodPost, "/cart/add", map[string]any{
		"userId": 1, "productId": 1, "quantity": 2,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add: expected 200, got %d", resp.StatusCode)
	}
	c := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(c.Items) != 1 || c.Items[0].Quantity != 2 {
		t.Fatalf("add: unexpected cart %+v", c)
	}

	// Adding the same product accumulates into one line item.
	resp = doJSON(t, http.MethodPost, "/cart/add", map[string]any{
		"userId": 1, "productId": 1, "quantity": 3,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("re-add: expected 200, got %d", resp.StatusCode)
	}
	c = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(c.Items) != 1 {
		t.Fatalf("re-add: expected 1 line item, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 5 {
		t.Errorf("re-add: quantity: got %d, want 5", c.Items[0].Quantity)
	}

	// Update replaces the quantity.
	resp = doJSON(t, http.MethodPut, "/cart/update", map[string]any{
		"userId": 1, "productId": 1, "quantity": 1,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}
	c = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if c.Items[0].Quantity != 1 {
		t.Errorf("update: quantity: got %d, want 1", c.Items[0].Quantity)
	}

	// Updating a product that is not in the cart fails.
	resp = doJSON(t, http.MethodPut, "/cart/update", map[string]any{
		"userId": 1, "productId": 2, "quantity": 1,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("update missing pair: expected 404, got %d", resp.StatusCode)
	}

	// Remove the line item.
	resp = doJSON(t, http.MethodDelete, "/cart/remove", map[string]any{
		"userId": 1, "productId": 1,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("remove: expected 204, got %d", resp.StatusCode)
	}

	// Removing it again fails.
	resp = doJSON(t, http.MethodDelete, "/cart/remove", map[string]any{
		"userId": 1, "productId": 1,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("re-remove: expected 404, got %d", resp.StatusCode)
	}
}

func TestCartValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{"zero quantity", map[string]any{"userId": 1, "productId": 1, "quantity": 0}, http.StatusUnprocessableEntity},
		{"unknown user", map[string]any{"userId": 999, "productId": 1, "quantity": 1}, http.StatusNotFound},
		{"unknown product", map[string]any{"userId": 1, "productId": 999, "quantity": 1}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, "/cart/add", tt.body)
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}

			body := decodeJSON[errorResponse](t, resp)
			if body.Code != tt.wantStatus {
				t.Errorf("body code: got %d, want %d", body.Code, tt.wantStatus)
			}
			if body.Message == "" {
				t.Error("error message is empty")
			}
		})
	}
}

//go:build integration

package integration

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"
	"time"
)

// TestOrderFlow places an order for user 2 and drives it through its whole
// lifecycle: coupon application, status updates, and listing.
func TestOrderFlow(t *testing.T) {
	// An order cannot be placed without a cart.
	resp := doJSON(t, http.MethodPost, "/orders", map[string]any{"userId": 2})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("empty cart: expected 422, got %d", resp.StatusCode)
	}

	// Fill the cart: 2x Product 1 ($9.99) + 1x Product 2 ($19.99) = $39.97.
	for _, add := range []map[string]any{
		{"userId": 2, "productId": 1, "quantity": 2},
		{"userId": 2, "productId": 2, "quantity": 1},
	} {
		resp = doJSON(t, http.MethodPost, "/cart/add", add)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("add to cart: expected 200, got %d", resp.StatusCode)
		}
	}

	resp = doJSON(t, http.MethodPost, "/orders", map[string]any{"userId": 2})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create order: expected 201, got %d", resp.StatusCode)
	}
	placed := decodeJSON[orderResponse](t, resp)
	resp.Body.Close()

	if placed.Status != "PENDING" {
		t.Errorf("status: got %q, want PENDING", placed.Status)
	}
	if len(placed.Items) != 2 {
		t.Errorf("items: got %d, want 2", len(placed.Items))
	}
	if !approx(placed.Total, 39.97) {
		t.Errorf("total: got %v, want 39.97", placed.Total)
	}

	// The cart was consumed by the order.
	resp = doGet(t, "/cart/2")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("cart after order: expected 404, got %d", resp.StatusCode)
	}

	orderPath := fmt.Sprintf("/orders/%d", placed.ID)

	// Fetch without a coupon: plain subtotal.
	resp = doGet(t, orderPath)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get order: expected 200, got %d", resp.StatusCode)
	}
	got := decodeJSON[orderResponse](t, resp)
	resp.Body.Close()
	if !approx(got.Total, 39.97) {
		t.Errorf("total without coupon: got %v, want 39.97", got.Total)
	}

	// Apply SAVE10 (coupon 1, 10% off) and fetch again.
	resp = doJSON(t, http.MethodPut, "/orders/apply-coupon", map[string]any{
		"orderId": placed.ID, "couponId": 1,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("apply coupon: expected 204, got %d", resp.StatusCode)
	}

	resp = doGet(t, orderPath)
	got = decodeJSON[orderResponse](t, resp)
	resp.Body.Close()
	if got.CouponID == nil || *got.CouponID != 1 {
		t.Errorf("couponId: got %v, want 1", got.CouponID)
	}
	// 39.97 * 0.9 = 35.973, no rounding.
	if !approx(got.Total, 35.973) {
		t.Errorf("discounted total: got %v, want 35.973", got.Total)
	}

	// Status moves freely through the enum.
	resp = doJSON(t, http.MethodPut, orderPath+"/status", map[string]any{"status": "SHIPPED"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status: expected 200, got %d", resp.StatusCode)
	}

	resp = doGet(t, orderPath)
	got = decodeJSON[orderResponse](t, resp)
	resp.Body.Close()
	if got.Status != "SHIPPED" {
		t.Errorf("status after update: got %q, want SHIPPED", got.Status)
	}

	// The list view shows the undiscounted subtotal even with a coupon.
	resp = doGet(t, "/orders/2/orders")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list orders: expected 200, got %d", resp.StatusCode)
	}
	list := decodeJSON[[]orderResponse](t, resp)
	resp.Body.Close()
	if len(list) != 1 {
		t.Fatalf("list: got %d orders, want 1", len(list))
	}
	if !approx(list[0].Total, 39.97) {
		t.Errorf("list total: got %v, want 39.97", list[0].Total)
	}
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	resp := doJSON(t, http.MethodPost, "/cart/add", map[string]any{
		"userId": 2, "productId": 2, "quantity": 100,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add to cart: expected 200, got %d", resp.StatusCode)
	}
	t.Cleanup(func() {
		resp := doJSON(t, http.MethodDelete, "/cart/remove", map[string]any{
			"userId": 2, "productId": 2,
		})
		resp.Body.Close()
	})

	resp = doJSON(t, http.MethodPost, "/orders", map[string]any{"userId": 2})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

// TestCreateOrder_ConcurrentCheckout fires two checkout requests for one cart
// at the same time: exactly one may succeed, and the line items must be sold
// exactly once.
func TestCreateOrder_ConcurrentCheckout(t *testing.T) {
	stockBefore := productStock(t, 1)

	resp := doJSON(t, http.MethodPost, "/cart/add", map[string]any{
		"userId": 1, "productId": 1, "quantity": 1,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add to cart: expected 200, got %d", resp.StatusCode)
	}

	statuses := make(chan int, 2)
	errs := make(chan error, 2)
	for range 2 {
		go func() {
			req, err := http.NewRequest(http.MethodPost, baseURL+"/orders",
				bytes.NewReader([]byte(`{"userId":1}`)))
			if err != nil {
				errs <- err
				return
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := httpClient.Do(req)
			if err != nil {
				errs <- err
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}

	var created, rejected int
	for range 2 {
		select {
		case err := <-errs:
			t.Fatalf("concurrent checkout request: %v", err)
		case code := <-statuses:
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusUnprocessableEntity:
				rejected++
			default:
				t.Fatalf("unexpected status %d", code)
			}
		case <-time.After(30 * time.Second):
			t.Fatal("timed out waiting for checkout responses")
		}
	}

	if created != 1 || rejected != 1 {
		t.Fatalf("got %d created / %d rejected, want exactly 1 / 1", created, rejected)
	}

	if after := productStock(t, 1); after != stockBefore-1 {
		t.Errorf("stock: got %d, want %d (decremented exactly once)", after, stockBefore-1)
	}
}

func productStock(t *testing.T, id int64) int32 {
	t.Helper()

	resp := doGet(t, "/products")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list products: expected 200, got %d", resp.StatusCode)
	}

	for _, p := range decodeJSON[[]productResponse](t, resp) {
		if p.ID == id {
			return p.Stock
		}
	}
	t.Fatalf("product %d not in listing", id)
	return 0
}

func TestUpdateOrderStatus_Invalid(t *testing.T) {
	resp := doJSON(t, http.MethodPut, "/orders/1/status", map[string]any{"status": "TELEPORTED"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestApplyCoupon_UnknownCoupon(t *testing.T) {
	resp := doJSON(t, http.MethodPut, "/orders/apply-coupon", map[string]any{
		"orderId": 1, "couponId": 999,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	resp := doGet(t, "/orders/999999")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

package handler

import (
	"net/http"

	"github.com/edgarkh/storefront/internal/domain/order"
)

type createOrderRequest struct {
	UserID int64 `json:"userId"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

type applyCouponRequest struct {
	OrderID  int64 `json:"orderId"`
	CouponID int64 `json:"couponId"`
}

// CreateOrder handles POST /orders.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	o, err := h.orders.Create(r.Context(), req.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

// GetOrder handles GET /orders/{id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid order id")
		return
	}

	o, err := h.orders.Get(r.Context(), orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// UpdateOrderStatus handles PUT /orders/{id}/status.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid order id")
		return
	}

	var req updateOrderStatusRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), orderID, status); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

// ApplyCoupon handles PUT /orders/apply-coupon.
func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req applyCouponRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := h.orders.ApplyCoupon(r.Context(), req.OrderID, req.CouponID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListUserOrders handles GET /orders/{id}/orders, where {id} is a user ID.
func (h *Handler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid user id")
		return
	}

	orders, err := h.orders.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i := range orders {
		resp[i] = toOrderResponse(&orders[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

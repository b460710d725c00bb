package handler

import (
	"net/http"
)

type addToCartRequest struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
	Quantity  int32 `json:"quantity"`
}

type updateCartRequest struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
	Quantity  int32 `json:"quantity"`
}

type removeFromCartRequest struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
}

// GetCart handles GET /cart/{userID}.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		badRequest(w, "invalid user id")
		return
	}

	c, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// AddToCart handles POST /cart/add.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	c, err := h.carts.AddItem(r.Context(), req.UserID, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// UpdateCart handles PUT /cart/update.
func (h *Handler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	var req updateCartRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	c, err := h.carts.UpdateItem(r.Context(), req.UserID, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// RemoveFromCart handles DELETE /cart/remove.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	var req removeFromCartRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := h.carts.RemoveItem(r.Context(), req.UserID, req.ProductID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

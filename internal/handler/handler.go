// Package handler exposes the cart and order services over JSON HTTP.
// Request bodies are decoded into explicit schemas and validated before any
// service call; domain errors are translated to statuses in one place.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edgarkh/storefront/internal/domain/cart"
	"github.com/edgarkh/storefront/internal/domain/order"
	"github.com/edgarkh/storefront/internal/domain/product"
)

// Handler routes HTTP requests to the cart and order services.
type Handler struct {
	carts    *cart.Service
	orders   *order.Service
	products product.Repository
}

// NewHandler constructs a Handler with the required domain services.
func NewHandler(carts *cart.Service, orders *order.Service, products product.Repository) *Handler {
	return &Handler{
		carts:    carts,
		orders:   orders,
		products: products,
	}
}

// Routes returns the chi router for the full API surface.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/products", h.ListProducts)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/{userID}", h.GetCart)
		r.Post("/add", h.AddToCart)
		r.Put("/update", h.UpdateCart)
		r.Delete("/remove", h.RemoveFromCart)
	})

	// chi requires one wildcard name per position, so both the order routes
	// and the per-user listing share {id}.
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Put("/apply-coupon", h.ApplyCoupon)
		r.Get("/{id}", h.GetOrder)
		r.Put("/{id}/status", h.UpdateOrderStatus)
		r.Get("/{id}/orders", h.ListUserOrders)
	})

	return r
}

// --- Response shapes ---

type productResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int32   `json:"stock"`
}

type cartItemResponse struct {
	ProductID int64           `json:"productId"`
	Quantity  int32           `json:"quantity"`
	Product   productResponse `json:"product"`
}

type cartResponse struct {
	ID     int64              `json:"id"`
	UserID int64              `json:"userId"`
	Items  []cartItemResponse `json:"items"`
}

type orderItemResponse struct {
	ProductID int64           `json:"productId"`
	Quantity  int32           `json:"quantity"`
	Product   productResponse `json:"product"`
}

type orderResponse struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"userId"`
	Status    string              `json:"status"`
	CouponID  *int64              `json:"couponId,omitempty"`
	Total     float64             `json:"total"`
	CreatedAt time.Time           `json:"createdAt"`
	Items     []orderItemResponse `json:"items"`
}

func toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Stock:       p.Stock,
	}
}

func toCartResponse(c *cart.Cart) cartResponse {
	items := make([]cartItemResponse, len(c.Items))
	for i, it := range c.Items {
		items[i] = cartItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Product:   toProductResponse(it.Product),
		}
	}
	return cartResponse{
		ID:     c.ID,
		UserID: c.UserID,
		Items:  items,
	}
}

func toOrderResponse(o *order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Product:   toProductResponse(it.Product),
		}
	}
	return orderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		Status:    string(o.Status),
		CouponID:  o.CouponID,
		Total:     o.Total.InexactFloat64(),
		CreatedAt: o.CreatedAt,
		Items:     items,
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

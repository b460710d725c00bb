package order

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/edgarkh/storefront/internal/domain/cart"
	"github.com/edgarkh/storefront/internal/domain/coupon"
)

// Service encapsulates order placement and lifecycle business logic.
type Service struct {
	tx      Transactor
	orders  Repository
	coupons coupon.Repository
}

// NewService creates an order Service. The Transactor is used for order
// creation; the plain repositories serve non-transactional reads and updates.
func NewService(tx Transactor, orders Repository, coupons coupon.Repository) *Service {
	return &Service{
		tx:      tx,
		orders:  orders,
		coupons: coupons,
	}
}

// Create places an order from the user's current cart. The whole operation
// runs in one transaction: load and validate the cart, snapshot its line
// items into a PENDING order, delete the cart, and decrement stock for every
// purchased product. Any failure rolls the transaction back, leaving stock,
// cart, and orders untouched.
func (s *Service) Create(ctx context.Context, userID int64) (*Order, error) {
	var placed *Order

	err := s.tx.InTx(ctx, func(r TxRepos) error {
		c, err := r.Carts.GetByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, cart.ErrNotFound) {
				return ErrEmptyCart
			}
			return errors.Wrap(err, "get cart")
		}
		if len(c.Items) == 0 {
			return ErrEmptyCart
		}

		items := make([]Item, len(c.Items))
		for i, ci := range c.Items {
			// The schema already forbids quantity < 1; kept as a guard
			// against a corrupted row breaking stock accounting.
			if ci.Quantity < 1 {
				return cart.ErrInvalidQuantity
			}
			if ci.Quantity > ci.Product.Stock {
				return &InsufficientStockError{ProductID: ci.ProductID}
			}
			items[i] = Item{
				ProductID: ci.ProductID,
				Quantity:  ci.Quantity,
				Product:   ci.Product,
			}
		}

		o, err := r.Orders.Create(ctx, userID, items)
		if err != nil {
			return errors.Wrap(err, "create order")
		}

		if err := r.Carts.Delete(ctx, c.ID); err != nil {
			// A concurrent checkout already consumed this cart; abort so
			// the same line items are not sold twice.
			if errors.Is(err, cart.ErrNotFound) {
				return ErrEmptyCart
			}
			return errors.Wrap(err, "delete cart")
		}

		for _, it := range items {
			if err := r.Products.DecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				return errors.Wrapf(err, "decrement stock for product %d", it.ProductID)
			}
		}

		o.Total = Subtotal(items)
		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	return placed, nil
}

// Get returns an order with its line items and products. When the order
// references an active coupon, the coupon's discount fraction is applied to
// the total; inactive coupons leave the total unchanged.
func (s *Service) Get(ctx context.Context, orderID int64) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	o.Total = Subtotal(o.Items)
	if o.CouponID != nil {
		cp, err := s.coupons.GetByID(ctx, *o.CouponID)
		if err != nil {
			return nil, errors.Wrap(err, "get coupon")
		}
		o.Total = cp.Apply(o.Total)
	}

	return o, nil
}

// UpdateStatus sets the order's status. Transitions are not validated; any
// status may overwrite any other.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status Status) error {
	return s.orders.UpdateStatus(ctx, orderID, status)
}

// ApplyCoupon attaches a coupon to an order. The coupon must exist; whether
// it is active is only consulted when the order total is computed on read.
func (s *Service) ApplyCoupon(ctx context.Context, orderID, couponID int64) error {
	if _, err := s.coupons.GetByID(ctx, couponID); err != nil {
		return errors.Wrap(err, "get coupon")
	}
	return s.orders.SetCoupon(ctx, orderID, couponID)
}

// ListByUser returns all of a user's orders with line items and products.
// Totals are plain subtotals: coupon discounts are applied only on
// single-order fetch, never in the list view.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Total = Subtotal(orders[i].Items)
	}
	return orders, nil
}

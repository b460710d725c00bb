// Command seed-db loads the development fixture data: two users, two
// products, and the SAVE10/SAVE20 coupons. Seeding is idempotent.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/edgarkh/storefront/internal/storage/postgres"
)

type seedUser struct {
	name     string
	email    string
	password string
	address  string
}

type seedProduct struct {
	name        string
	description string
	price       string
	stock       int32
}

type seedCoupon struct {
	code     string
	discount string
	active   bool
}

var (
	users = []seedUser{
		{name: "John Doe", email: "john@example.com", password: "password123", address: "123 Main St"},
		{name: "Jane Smith", email: "jane@example.com", password: "password456", address: "456 Elm St"},
	}

	products = []seedProduct{
		{name: "Product 1", description: "Description 1", price: "9.99", stock: 10},
		{name: "Product 2", description: "Description 2", price: "19.99", stock: 5},
	}

	coupons = []seedCoupon{
		{code: "SAVE10", discount: "0.1", active: true},
		{code: "SAVE20", discount: "0.2", active: true},
	}
)

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	userRepo := postgres.NewUserRepository(pool)
	for _, u := range users {
		if err := userRepo.Upsert(ctx, u.name, u.email, u.password, u.address); err != nil {
			return errors.Wrapf(err, "upsert user %s", u.email)
		}
		slog.Info("upserted user", slog.String("email", u.email))
	}

	productRepo := postgres.NewProductRepository(pool)
	for _, p := range products {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return errors.Wrapf(err, "parse price for product %s", p.name)
		}
		if err := productRepo.Upsert(ctx, p.name, p.description, price, p.stock); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.name)
		}
		slog.Info("upserted product", slog.String("name", p.name), slog.String("price", p.price))
	}

	couponRepo := postgres.NewCouponRepository(pool)
	for _, c := range coupons {
		discount, err := decimal.NewFromString(c.discount)
		if err != nil {
			return errors.Wrapf(err, "parse discount for coupon %s", c.code)
		}
		if err := couponRepo.Upsert(ctx, c.code, discount, c.active); err != nil {
			return errors.Wrapf(err, "upsert coupon %s", c.code)
		}
		slog.Info("upserted coupon", slog.String("code", c.code), slog.String("discount", c.discount))
	}

	return nil
}

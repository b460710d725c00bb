// Command coupon-ingest bulk-imports promo codes from gzipped text files
// (one code per line) into the coupons table. Files are scanned concurrently;
// a bloom filter keeps already-seen codes from being upserted twice, which
// matters when the input lists overlap heavily.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/edgarkh/storefront/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	minCodeLen    = 6
	maxCodeLen    = 12
)

func main() {
	var (
		dataDir     string
		databaseURL string
		discountStr string
		active      bool
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.gz code lists")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&discountStr, "discount", "0.1", "discount fraction for ingested codes")
	flag.BoolVar(&active, "active", true, "mark ingested coupons active")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	discount, err := decimal.NewFromString(discountStr)
	if err != nil {
		slog.Error("invalid discount fraction", slog.String("discount", discountStr))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL, discount, active); err != nil {
		slog.Error("ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string, discount decimal.Decimal, active bool) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.gz"))
	if err != nil {
		return errors.Wrap(err, "glob data dir")
	}
	if len(files) == 0 {
		return errors.Errorf("no .gz files found in %s", dataDir)
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewCouponRepository(pool)

	var (
		mu   sync.Mutex
		seen = bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, file := range files {
		g.Go(func() error {
			n, err := ingestFile(gctx, repo, file, discount, active, &mu, seen)
			if err != nil {
				return errors.Wrapf(err, "ingest %s", file)
			}
			slog.Info("ingested file", slog.String("file", file), slog.Int("codes", n))
			return nil
		})
	}

	return g.Wait()
}

func ingestFile(
	ctx context.Context,
	repo *postgres.CouponRepository,
	path string,
	discount decimal.Decimal,
	active bool,
	mu *sync.Mutex,
	seen *bloom.BloomFilter,
) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "open file")
	}
	defer f.Close()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return 0, errors.Wrap(err, "open gzip reader")
	}
	defer gz.Close()

	var count int
	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		code := scanner.Text()
		if !validCode(code) {
			continue
		}

		mu.Lock()
		dup := seen.TestOrAddString(code)
		mu.Unlock()
		if dup {
			continue
		}

		if err := repo.Upsert(ctx, code, discount, active); err != nil {
			return count, err
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, errors.Wrap(err, "scan file")
	}

	return count, nil
}

// validCode accepts upper-case alphanumeric codes of reasonable length.
func validCode(code string) bool {
	if len(code) < minCodeLen || len(code) > maxCodeLen {
		return false
	}
	for i := range len(code) {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// Command loadgen replays a live-stream audience against the storefront API.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/livesale/backend/internal/infrastructure/logger"
	"github.com/livesale/backend/internal/loadgen"
	"go.uber.org/zap"
)

func main() {
	var (
		baseURL      string
		productList  string
		productsFile string
		metricsAddr  string
		customers    int
		bazarPct     int
		seed         uint64
		cfg          loadgen.Config
	)
	flag.StringVar(&baseURL, "base-url", "http://localhost:8080/api/v1", "Storefront API base URL")
	flag.StringVar(&productList, "products", "", "Comma separated product IDs")
	flag.StringVar(&productsFile, "products-file", "", "File with one product ID at the start of each line (cmd/seed output)")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9091")
	flag.IntVar(&customers, "customers", 50, "Audience size")
	flag.IntVar(&bazarPct, "bazar-pct", 20, "Percent of sales on the BAZAR channel")
	flag.Uint64Var(&seed, "seed", 0, "Random seed, 0 for random")
	flag.IntVar(&cfg.Workers, "workers", 8, "Concurrent workers")
	flag.Float64Var(&cfg.QPS, "qps", 20, "Target requests per second, 0 for unlimited")
	flag.IntVar(&cfg.Burst, "burst", 0, "Token bucket burst, defaults to qps")
	flag.Int64Var(&cfg.Sales, "sales", 0, "Stop after this many sales")
	flag.DurationVar(&cfg.Duration, "duration", time.Minute, "Stop after this long")
	flag.Float64Var(&cfg.RetryRatio, "retry-ratio", 0.05, "Share of sales re-sent with the same Idempotency-Key")
	flag.Float64Var(&cfg.PriceRatio, "price-ratio", 0.1, "Share of sales followed by a checkout price request")
	flag.StringVar(&cfg.CouponCode, "coupon", "", "Coupon code sent with price requests")
	flag.Parse()

	log, err := logger.New(&logger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	products, err := loadProducts(productList, productsFile)
	if err != nil {
		log.Fatal("Invalid product list", zap.Error(err))
	}
	gen, err := loadgen.NewGenerator(products, customers, bazarPct, seed)
	if err != nil {
		log.Fatal("Failed to create generator", zap.Error(err))
	}
	client, err := loadgen.NewClient(baseURL, 10*time.Second)
	if err != nil {
		log.Fatal("Failed to create client", zap.Error(err))
	}

	metrics := loadgen.NewMetrics()
	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Metrics server failed", zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Load run starting",
		zap.String("base_url", baseURL),
		zap.Int("products", len(products)),
		zap.Int("customers", customers),
		zap.Int("workers", cfg.Workers),
		zap.Float64("qps", cfg.QPS),
		zap.Duration("duration", cfg.Duration),
	)

	summary := loadgen.NewRunner(cfg, gen, client, metrics, log).Run(ctx)

	log.Info("Load run finished",
		zap.Int64("sales", summary.Sales),
		zap.Int64("retries", summary.Retries),
		zap.Int64("replays", summary.Replays),
		zap.Int64("priced", summary.Priced),
		zap.Int64("failures", summary.Failures),
		zap.Duration("elapsed", summary.Elapsed),
	)
	ops := make([]string, 0, len(summary.StatusByOp))
	for op := range summary.StatusByOp {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		for status, n := range summary.StatusByOp[op] {
			fmt.Printf("%-12s %d %d\n", op, status, n)
		}
	}

	if summary.Failures > 0 {
		os.Exit(1)
	}
}

func loadProducts(list, file string) ([]uuid.UUID, error) {
	var raw []string
	if list != "" {
		raw = strings.Split(list, ",")
	}
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			if fields := strings.Fields(sc.Text()); len(fields) > 0 {
				raw = append(raw, fields[0])
			}
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("product id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

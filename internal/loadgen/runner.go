package loadgen

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	opSale   = "sale"
	opReplay = "sale_retry"
	opPrice  = "price"
)

// Config controls one load run
type Config struct {
	Workers    int
	QPS        float64
	Burst      int
	Sales      int64         // stop after this many sales, 0 for no limit
	Duration   time.Duration // stop after this long, 0 for no limit
	RetryRatio float64       // share of sales re-sent with the same Idempotency-Key
	PriceRatio float64       // share of sales followed by a checkout price request
	CouponCode string
}

// Summary totals a finished run
type Summary struct {
	Sales      int64
	Retries    int64
	Replays    int64
	Priced     int64
	Failures   int64
	StatusByOp map[string]map[int]int64
	Elapsed    time.Duration
}

// Runner drives the API with a token bucket shared by all workers
type Runner struct {
	cfg     Config
	gen     *Generator
	client  *Client
	metrics *Metrics
	limiter *rate.Limiter
	logger  *zap.Logger

	started  atomic.Int64
	sales    atomic.Int64
	retries  atomic.Int64
	replays  atomic.Int64
	priced   atomic.Int64
	failures atomic.Int64

	mu       sync.Mutex
	statuses map[string]map[int]int64
}

// NewRunner creates a Runner. metrics may be nil.
func NewRunner(cfg Config, gen *Generator, client *Client, metrics *Metrics, logger *zap.Logger) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	limit := rate.Inf
	if cfg.QPS > 0 {
		limit = rate.Limit(cfg.QPS)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = max(1, int(cfg.QPS))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		gen:      gen,
		client:   client,
		metrics:  metrics,
		limiter:  rate.NewLimiter(limit, cfg.Burst),
		logger:   logger,
		statuses: make(map[string]map[int]int64),
	}
}

// Run blocks until the sale budget is spent, the duration elapses or ctx ends
func (r *Runner) Run(ctx context.Context) Summary {
	if r.cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Duration)
		defer cancel()
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Workers; i++ {
		g.Go(func() error {
			r.work(gctx)
			return nil
		})
	}
	_ = g.Wait()

	return r.summary(time.Since(start))
}

func (r *Runner) work(ctx context.Context) {
	for {
		if r.cfg.Sales > 0 && r.started.Add(1) > r.cfg.Sales {
			return
		}
		if err := r.limiter.Wait(ctx); err != nil {
			return
		}

		sale := r.gen.NextSale()
		key := r.gen.IdempotencyKey()
		out, ok := r.call(ctx, opSale, func() (Outcome, error) { return r.client.RecordSale(ctx, sale, key) })
		if !ok || out.Status != http.StatusCreated {
			continue
		}
		r.sales.Add(1)

		if r.gen.Chance(r.cfg.RetryRatio) && r.limiter.Wait(ctx) == nil {
			r.retries.Add(1)
			retry, ok := r.call(ctx, opReplay, func() (Outcome, error) { return r.client.RecordSale(ctx, sale, key) })
			if ok && retry.Replayed {
				r.replays.Add(1)
			}
		}

		if r.gen.Chance(r.cfg.PriceRatio) && r.limiter.Wait(ctx) == nil {
			if priced, ok := r.call(ctx, opPrice, func() (Outcome, error) {
				return r.client.PriceOrder(ctx, out.OrderID, r.cfg.CouponCode)
			}); ok && priced.Status == http.StatusOK {
				r.priced.Add(1)
			}
		}
	}
}

// call runs fn and records it. ok is false on transport errors.
func (r *Runner) call(ctx context.Context, op string, fn func() (Outcome, error)) (Outcome, bool) {
	start := time.Now()
	out, err := fn()
	elapsed := time.Since(start)

	if r.metrics != nil {
		r.metrics.Observe(op, out.Status, out.Replayed, elapsed)
	}
	if err != nil {
		if ctx.Err() == nil {
			r.failures.Add(1)
			r.logger.Warn("request failed", zap.String("op", op), zap.Error(err))
		}
		return out, false
	}

	r.mu.Lock()
	byStatus, found := r.statuses[op]
	if !found {
		byStatus = make(map[int]int64)
		r.statuses[op] = byStatus
	}
	byStatus[out.Status]++
	r.mu.Unlock()

	if out.Status >= http.StatusInternalServerError {
		r.failures.Add(1)
		r.logger.Warn("server error", zap.String("op", op), zap.Int("status", out.Status), zap.String("code", out.Code))
	}
	return out, true
}

func (r *Runner) summary(elapsed time.Duration) Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	statuses := make(map[string]map[int]int64, len(r.statuses))
	for op, byStatus := range r.statuses {
		cp := make(map[int]int64, len(byStatus))
		for status, n := range byStatus {
			cp[status] = n
		}
		statuses[op] = cp
	}
	return Summary{
		Sales:      r.sales.Load(),
		Retries:    r.retries.Load(),
		Replays:    r.replays.Load(),
		Priced:     r.priced.Load(),
		Failures:   r.failures.Load(),
		StatusByOp: statuses,
		Elapsed:    elapsed,
	}
}

package loadgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProducts = []uuid.UUID{
	uuid.MustParse("6f1c5b8e-6a43-4bb4-9a53-2f3b9d0c4a11"),
	uuid.MustParse("0e8a8c9e-2b7f-4b8e-9d1c-3f6a1a2b3c4d"),
}

func TestNewGenerator_RequiresProducts(t *testing.T) {
	_, err := NewGenerator(nil, 10, 0, 1)
	assert.ErrorIs(t, err, ErrNoProducts)
}

func TestGenerator_NextSale(t *testing.T) {
	gen, err := NewGenerator(testProducts, 5, 0, 42)
	require.NoError(t, err)
	require.Len(t, gen.Customers(), 5)

	phones := map[string]bool{}
	for _, c := range gen.Customers() {
		assert.Len(t, c.Phone, 11)
		phones[c.Phone] = true
	}

	for i := 0; i < 200; i++ {
		sale := gen.NextSale()
		assert.True(t, phones[sale.Phone], "sale from outside the audience")
		assert.Contains(t, testProducts, sale.ProductID)
		assert.GreaterOrEqual(t, sale.Quantity, 1)
		assert.LessOrEqual(t, sale.Quantity, 3)
		assert.Equal(t, "LIVE", sale.Channel)
	}
}

func TestGenerator_AllBazar(t *testing.T) {
	gen, err := NewGenerator(testProducts, 3, 100, 1)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		assert.Equal(t, "BAZAR", gen.NextSale().Channel)
	}
}

func TestGenerator_SeedIsDeterministic(t *testing.T) {
	a, err := NewGenerator(testProducts, 4, 30, 7)
	require.NoError(t, err)
	b, err := NewGenerator(testProducts, 4, 30, 7)
	require.NoError(t, err)

	assert.Equal(t, a.Customers(), b.Customers())
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.NextSale(), b.NextSale())
	}
}

func TestGenerator_Chance(t *testing.T) {
	gen, err := NewGenerator(testProducts, 1, 0, 1)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		assert.False(t, gen.Chance(0))
		assert.True(t, gen.Chance(1))
	}
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewClient("localhost:8080", time.Second)
	assert.Error(t, err)
}

// fakeStorefront answers /sales with idempotent replays and /checkout/price with 200
type fakeStorefront struct {
	mu        sync.Mutex
	responses map[string][]byte
	prices    int
	failSales bool
}

func (f *fakeStorefront) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/api/v1/sales":
		if f.failSales {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":"ERR_INTERNAL"}}`))
			return
		}
		var sale Sale
		if err := json.NewDecoder(r.Body).Decode(&sale); err != nil || sale.ProductID == uuid.Nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		key := r.Header.Get(idempotencyKeyHeader)
		if body, ok := f.responses[key]; ok {
			w.Header().Set(replayedHeader, "true")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write(body)
			return
		}
		body := []byte(`{"success":true,"data":{"order_id":"` + uuid.NewString() + `"}}`)
		f.responses[key] = body
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)

	case "/api/v1/checkout/price":
		var req struct {
			OrderID uuid.UUID `json:"order_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == uuid.Nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.prices++
		_, _ = w.Write([]byte(`{"success":true,"data":{}}`))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestRunner(t *testing.T, api *fakeStorefront, cfg Config) (*Runner, *Metrics) {
	t.Helper()

	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	gen, err := NewGenerator(testProducts, 10, 20, 3)
	require.NoError(t, err)
	client, err := NewClient(srv.URL+"/api/v1/", time.Second)
	require.NoError(t, err)

	metrics := NewMetrics()
	return NewRunner(cfg, gen, client, metrics, nil), metrics
}

func TestRunner_StopsAfterSaleBudget(t *testing.T) {
	api := &fakeStorefront{responses: map[string][]byte{}}
	runner, metrics := newTestRunner(t, api, Config{Workers: 3, Sales: 12, RetryRatio: 1, PriceRatio: 1})

	summary := runner.Run(context.Background())

	assert.Equal(t, int64(12), summary.Sales)
	assert.Equal(t, int64(12), summary.Retries)
	assert.Equal(t, int64(12), summary.Replays)
	assert.Equal(t, int64(12), summary.Priced)
	assert.Zero(t, summary.Failures)
	assert.Equal(t, map[int]int64{http.StatusCreated: 12}, summary.StatusByOp[opSale])
	assert.Equal(t, map[int]int64{http.StatusOK: 12}, summary.StatusByOp[opPrice])

	assert.Len(t, api.responses, 12, "each sale uses its own key")
	assert.Equal(t, 12, api.prices)
	assert.Equal(t, float64(12), testutil.ToFloat64(metrics.replays))
	assert.Equal(t, float64(12), testutil.ToFloat64(metrics.requests.WithLabelValues(opSale, "201")))
}

func TestRunner_CountsServerErrors(t *testing.T) {
	api := &fakeStorefront{responses: map[string][]byte{}, failSales: true}
	runner, _ := newTestRunner(t, api, Config{Workers: 2, Sales: 5, PriceRatio: 1})

	summary := runner.Run(context.Background())

	assert.Zero(t, summary.Sales)
	assert.Zero(t, summary.Priced)
	assert.Equal(t, int64(5), summary.Failures)
	assert.Equal(t, map[int]int64{http.StatusInternalServerError: 5}, summary.StatusByOp[opSale])
}

func TestRunner_StopsAtDuration(t *testing.T) {
	api := &fakeStorefront{responses: map[string][]byte{}}
	runner, _ := newTestRunner(t, api, Config{Workers: 2, QPS: 50, Burst: 1, Duration: 200 * time.Millisecond})

	summary := runner.Run(context.Background())

	assert.Positive(t, summary.Sales)
	assert.Less(t, summary.Sales, int64(50))
	assert.Less(t, summary.Elapsed, 2*time.Second)
}

func TestMetrics_TransportErrorLabel(t *testing.T) {
	m := NewMetrics()
	m.Observe(opSale, 0, false, time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues(opSale, "error")))
}

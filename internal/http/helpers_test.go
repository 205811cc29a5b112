package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/idempotency"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/user"
)

var fixedNow = time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)

type recordingPublisher struct {
	mu      sync.Mutex
	created []int64
	changes [][2]order.Status
	err     error
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, o *order.Order, _ events.EnvelopeMetadata) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, o.ID())
	return p.err
}

func (p *recordingPublisher) PublishOrderStatusChanged(_ context.Context, _ int64, from, to order.Status, _ events.EnvelopeMetadata) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, [2]order.Status{from, to})
	return p.err
}

type testServer struct {
	handler   http.Handler
	users     *user.MemoryRepository
	catalog   *catalog.MemoryRepository
	orders    *order.MemoryRepository
	publisher *recordingPublisher
	metrics   *metrics.ServerMetrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	reg := prometheus.NewRegistry()
	ts := &testServer{
		users:     user.NewMemoryRepository(),
		catalog:   catalog.NewMemoryRepository(),
		orders:    order.NewMemoryRepository(),
		publisher: &recordingPublisher{},
		metrics:   metrics.NewServerMetrics(reg),
	}
	h := NewHandler(Deps{
		Users:            ts.users,
		Catalog:          ts.catalog,
		Orders:           ts.orders,
		Idempotency:      idempotency.NewMemoryStore(time.Hour),
		Publisher:        ts.publisher,
		Metrics:          ts.metrics,
		Gatherer:         reg,
		CORSAllowOrigins: []string{"*"},
		Now:              func() time.Time { return fixedNow },
	})
	ts.handler = NewRouter(h)
	return ts
}

func (ts *testServer) addProduct(t *testing.T, name, sku, price string, stock int) catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductParams{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		SKU:           sku,
		CategoryID:    1,
		StockQuantity: stock,
		IsActive:      true,
	})
	require.NoError(t, err)
	created, err := ts.catalog.CreateProduct(context.Background(), p)
	require.NoError(t, err)
	return created
}

func (ts *testServer) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[map[string]string](t, rr)["error"]
}

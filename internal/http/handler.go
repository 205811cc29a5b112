package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/idempotency"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/user"
)

const serviceName = "storefront-api"

// Deps wires the handler. Users, Catalog and Orders are required; the rest
// fall back to in-process or no-op implementations.
type Deps struct {
	Logger      *slog.Logger
	Users       user.Repository
	Catalog     catalog.Repository
	Orders      order.Repository
	Idempotency idempotency.Store
	Publisher   events.OrderPublisher
	Metrics     *metrics.ServerMetrics
	Gatherer    prometheus.Gatherer

	RequestTimeout   time.Duration
	CORSAllowOrigins []string
	Now              func() time.Time
}

type Handler struct {
	logger      *slog.Logger
	users       user.Repository
	catalog     catalog.Repository
	orders      order.Repository
	idem        idempotency.Store
	publisher   events.OrderPublisher
	metrics     *metrics.ServerMetrics
	gatherer    prometheus.Gatherer
	timeout     time.Duration
	corsOrigins []string
	now         func() time.Time
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		logger:      d.Logger,
		users:       d.Users,
		catalog:     d.Catalog,
		orders:      d.Orders,
		idem:        d.Idempotency,
		publisher:   d.Publisher,
		metrics:     d.Metrics,
		gatherer:    d.Gatherer,
		timeout:     d.RequestTimeout,
		corsOrigins: d.CORSAllowOrigins,
		now:         d.Now,
	}
	if h.logger == nil {
		h.logger = logging.Discard()
	}
	if h.idem == nil {
		h.idem = idempotency.NewMemoryStore(24 * time.Hour)
	}
	if h.publisher == nil {
		h.publisher = events.NoopPublisher{}
	}
	if h.timeout <= 0 {
		h.timeout = 3 * time.Second
	}
	if h.now == nil {
		h.now = func() time.Time { return time.Now().UTC() }
	}
	return h
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Welcome to the storefront API",
		"description": "Users, catalog and orders built on the shared storefront packages",
		"endpoints": []string{
			"/users",
			"/users/{id}",
			"/users/{id}/profile",
			"/products",
			"/products/{id}",
			"/categories",
			"/orders",
			"/orders/{id}",
			"/orders/{id}/items",
			"/orders/{id}/items/{itemId}",
			"/orders/{id}/status",
			"/import/{users|products}",
			"/utils/capitalize/{text}",
			"/utils/slugify/{text}",
			"/utils/validate-email/{email}",
			"/utils/current-time",
		},
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
	})
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	if l := logging.FromCtx(r.Context()); l != slog.Default() {
		return l
	}
	return h.logger
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeObject reads a JSON object body keeping numbers as json.Number.
func decodeObject(r *http.Request) (map[string]any, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}

func missingFieldsMessage(missing []string) string {
	quoted := make([]string, 0, len(missing))
	for _, f := range missing {
		quoted = append(quoted, "'"+f+"'")
	}
	return "Missing fields: [" + strings.Join(quoted, ", ") + "]"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeStrict(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

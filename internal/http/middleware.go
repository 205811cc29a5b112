package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/metrics"
)

const HeaderCorrelationID = "X-Correlation-Id"

type ctxKey int

const ctxCorrelationID ctxKey = iota

func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get(HeaderCorrelationID)
		if cid == "" {
			cid = uuid.NewString()
		}
		w.Header().Set(HeaderCorrelationID, cid)

		ctx := context.WithValue(r.Context(), ctxCorrelationID, cid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetCorrelationID(ctx context.Context) string {
	if s, ok := ctx.Value(ctxCorrelationID).(string); ok {
		return s
	}
	return ""
}

// RequestLogger puts a request scoped logger in the context and writes one
// http_request record when the handler returns.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			l := base.With(
				"req_id", middleware.GetReqID(r.Context()),
				"correlation_id", GetCorrelationID(r.Context()),
			)
			next.ServeHTTP(ww, r.WithContext(logging.WithCtx(r.Context(), l)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			l.Info("http_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"dur_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic", "err", rec, "correlation_id", GetCorrelationID(r.Context()))
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func CORS(allowOrigins []string) func(http.Handler) http.Handler {
	allowAll := len(allowOrigins) == 1 && allowOrigins[0] == "*"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			writeCORSHeaders(w, origin, allowOrigins, allowAll)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeCORSHeaders(w http.ResponseWriter, origin string, allowOrigins []string, allowAll bool) {
	if origin == "" {
		return
	}
	if !allowAll && !originAllowed(origin, allowOrigins) {
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Vary", "Origin")
	w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Idempotency-Key, X-Correlation-Id")
}

func originAllowed(origin string, allow []string) bool {
	for _, a := range allow {
		if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(origin)) {
			return true
		}
	}
	return false
}

// Metrics records request counts and latency by route pattern, so
// /orders/1 and /orders/2 share a series.
func Metrics(m *metrics.ServerMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.Requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			m.LatencyMS.WithLabelValues(r.Method, route).Observe(float64(time.Since(start).Milliseconds()))
		})
	}
}

// SplitOrigins turns a comma separated origin list into the CORS allow list.
func SplitOrigins(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package httpapi

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dateutil"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/textutil"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validation"
)

func (h *Handler) Capitalize(w http.ResponseWriter, r *http.Request) {
	text := pathText(r, "text")
	writeJSON(w, http.StatusOK, map[string]string{
		"original":    text,
		"capitalized": textutil.CapitalizeWords(text),
	})
}

func (h *Handler) Slugify(w http.ResponseWriter, r *http.Request) {
	text := pathText(r, "text")
	writeJSON(w, http.StatusOK, map[string]string{
		"original":  text,
		"slugified": textutil.Slugify(text),
	})
}

func (h *Handler) ValidateEmail(w http.ResponseWriter, r *http.Request) {
	email := pathText(r, "email")
	writeJSON(w, http.StatusOK, map[string]any{
		"email":    email,
		"is_valid": validation.IsValidEmail(email),
	})
}

func (h *Handler) CurrentTime(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	writeJSON(w, http.StatusOK, map[string]string{
		"timestamp":          now.Format(time.RFC3339Nano),
		"formatted_date":     dateutil.Format(now, dateutil.DateLayout),
		"formatted_datetime": dateutil.Format(now, dateutil.DateTimeLayout),
	})
}

// pathText returns the decoded path parameter. chi matches on RawPath when the
// request has one and on the already decoded Path otherwise.
func pathText(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if dec, err := url.PathUnescape(v); err == nil {
		return dec
	}
	return v
}

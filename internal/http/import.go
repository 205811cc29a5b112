package httpapi

import (
	"context"
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/ingest"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/user"
)

const maxImportBytes = 10 << 20

// Import runs a batch of user or product rows through the ingester and
// stores the rows that convert. The body is CSV when the content type says
// so, JSON otherwise.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if kind != "users" && kind != "products" {
		writeError(w, http.StatusNotFound, "Unknown import kind '"+kind+"'")
		return
	}

	format := ingest.FormatJSON
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mt == "text/csv" {
		format = ingest.FormatCSV
	}

	rows, err := ingest.Read(http.MaxBytesReader(w, r.Body, maxImportBytes), format)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+string(format)+" input: "+err.Error())
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	var (
		result    any
		ok, count int
	)
	switch kind {
	case "users":
		res := ingest.Run(rows, ingest.Users(), h.now())
		err = res.Store(ctx, h.createUser)
		result, ok, count = res, res.TotalProcessed(), res.TotalErrors()
	case "products":
		res := ingest.Run(rows, ingest.Products(), h.now())
		err = res.Store(ctx, h.createProduct)
		result, ok, count = res, res.TotalProcessed(), res.TotalErrors()
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusGatewayTimeout, "import timed out")
			return
		}
		h.log(r).Error("import failed", "kind", kind, "err", err)
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}

	h.metrics.ObserveIngest(kind, ok, count)
	h.log(r).Info("import finished", "kind", kind, "stored", ok, "errors", count)
	writeJSON(w, http.StatusOK, result)
}

// Batch records carry their row ordinal as id; stored records take the
// repository's id instead.
func (h *Handler) createUser(ctx context.Context, u user.User) (user.User, error) {
	u.ID = 0
	return h.users.Create(ctx, u)
}

func (h *Handler) createProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	p.ID = 0
	return h.catalog.CreateProduct(ctx, p)
}

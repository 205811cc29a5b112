package httpapi

import (
	"errors"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/ingest"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validation"
)

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	cats, err := h.catalog.ListCategories(ctx)
	if err != nil {
		h.log(r).Error("list categories failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	if cats == nil {
		cats = []catalog.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		h.log(r).Error("list products failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	p, err := h.catalog.GetProduct(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.log(r).Error("get product failed", "product_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := decodeObject(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if missing := validation.MissingFields(body, ingest.ProductFields); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, missingFieldsMessage(missing))
		return
	}

	p, err := ingest.Products().Convert(0, ingest.Row(body), h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	created, err := h.catalog.CreateProduct(ctx, p)
	if errors.Is(err, catalog.ErrConflict) {
		writeError(w, http.StatusConflict, "SKU already exists")
		return
	}
	if err != nil {
		h.log(r).Error("create product failed", "sku", p.SKU, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to create product")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

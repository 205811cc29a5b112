package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/metrics"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(CorrelationID)
	r.Use(RequestLogger(h.logger))
	r.Use(Recover(h.logger))
	r.Use(CORS(h.corsOrigins))
	if h.metrics != nil {
		r.Use(Metrics(h.metrics))
	}

	r.Get("/", h.Home)
	r.Get("/health", h.Health)
	if h.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(h.gatherer))
	}

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Get("/{id}", h.GetUser)
		r.Get("/{id}/profile", h.GetProfile)
		r.Put("/{id}/profile", h.PutProfile)
	})

	r.Get("/categories", h.ListCategories)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/{id}", h.GetProduct)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.CreateOrder)
		r.Get("/{id}", h.GetOrder)
		r.Post("/{id}/items", h.AddOrderItem)
		r.Delete("/{id}/items/{itemId}", h.RemoveOrderItem)
		r.Patch("/{id}/status", h.UpdateOrderStatus)
	})

	r.Post("/import/{kind}", h.Import)

	r.Route("/utils", func(r chi.Router) {
		r.Get("/capitalize/{text}", h.Capitalize)
		r.Get("/slugify/{text}", h.Slugify)
		r.Get("/validate-email/{email}", h.ValidateEmail)
		r.Get("/current-time", h.CurrentTime)
	})

	return r
}

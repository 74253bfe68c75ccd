package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Boutique/pkg/kit"
)

const (
	Version = "1.0.0"

	readyTimeout = 2 * time.Second
)

type Server struct {
	Store   Store
	Log     *zap.Logger
	Service string

	// SearchLimiter throttles /api/search per client IP when set.
	SearchLimiter *kit.IPRateLimiter
}

type productsResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Category *string   `json:"category"`
}

type productResponse struct {
	Product Product `json:"product"`
}

type categoriesResponse struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
}

type categoryResponse struct {
	Category Category `json:"category"`
}

type categoryProductsResponse struct {
	Products []Product `json:"products"`
	Category Category  `json:"category"`
	Total    int       `json:"total"`
}

type searchResponse struct {
	Query    string    `json:"query"`
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.NotFound(kit.NotFound)
	r.MethodNotAllowed(kit.MethodNotAllowed)

	r.Get("/", s.root)
	r.Get("/health", s.health)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Route("/api", func(api chi.Router) {
		api.Get("/products", s.listProducts)
		api.Get("/products/{product_id}", s.getProduct)
		api.Get("/products/category/{category_id}", s.productsByCategory)
		api.Get("/categories", s.listCategories)
		api.Get("/categories/{category_id}", s.getCategory)

		search := api.With()
		if s.SearchLimiter != nil {
			search = api.With(s.SearchLimiter.Middleware)
		}
		search.Get("/search", s.search)
	})

	return r
}

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to " + s.serviceName(),
		"version": Version,
		"endpoints": map[string]string{
			"products":   "/api/products",
			"categories": "/api/categories",
			"search":     "/api/search",
			"health":     "/health",
		},
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": s.serviceName(),
	})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.log().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	products, err := s.Store.ListProducts(r.Context(), category)
	if err != nil {
		s.writeStoreError(w, r, err, "list products")
		return
	}

	resp := productsResponse{Products: products, Total: len(products)}
	if category != "" {
		resp.Category = &category
	}
	kit.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "product_id")

	p, err := s.Store.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			kit.WriteError(w, r, http.StatusNotFound, "Product not found", map[string]any{"id": id})
			return
		}
		s.writeStoreError(w, r, err, "get product", zap.String("product_id", id))
		return
	}
	kit.WriteJSON(w, http.StatusOK, productResponse{Product: p})
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.Store.ListCategories(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err, "list categories")
		return
	}
	kit.WriteJSON(w, http.StatusOK, categoriesResponse{Categories: categories, Total: len(categories)})
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "category_id")

	c, err := s.Store.GetCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			kit.WriteError(w, r, http.StatusNotFound, "Category not found", map[string]any{"id": id})
			return
		}
		s.writeStoreError(w, r, err, "get category", zap.String("category_id", id))
		return
	}
	kit.WriteJSON(w, http.StatusOK, categoryResponse{Category: c})
}

func (s *Server) productsByCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "category_id")

	products, c, err := s.Store.ProductsByCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			kit.WriteError(w, r, http.StatusNotFound, "Category not found", map[string]any{"id": id})
			return
		}
		s.writeStoreError(w, r, err, "products by category", zap.String("category_id", id))
		return
	}
	kit.WriteJSON(w, http.StatusOK, categoryProductsResponse{
		Products: products,
		Category: c,
		Total:    len(products),
	})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "limit must be an integer", map[string]any{"limit": r.URL.Query().Get("limit")})
		return
	}

	products, err := s.Store.Search(r.Context(), q, limit)
	if err != nil {
		s.writeStoreError(w, r, err, "search", zap.String("q", q))
		return
	}
	kit.WriteJSON(w, http.StatusOK, searchResponse{Query: q, Products: products, Total: len(products)})
}

// parseLimit returns DefaultSearchLimit for an absent limit. Values <= 0 mean
// no limit.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultSearchLimit, nil
	}
	return strconv.Atoi(raw)
}

// writeStoreError covers the failures every endpoint shares. Load errors are
// server-side; the cause is logged, not returned.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error, op string, fields ...zap.Field) {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		kit.WriteError(w, r, http.StatusBadRequest, "Search query must be at least 2 characters", map[string]any{"min_len": MinQueryLen})
	case errors.Is(err, ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "not found", nil)
	default:
		s.log().Error(op+" failed", append(fields, zap.Error(err))...)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func (s *Server) serviceName() string {
	if s.Service == "" {
		return "Boutique API"
	}
	return s.Service
}

func (s *Server) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

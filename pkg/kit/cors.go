package kit

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

const (
	anyOrigin  = "*"
	corsMaxAge = 600
)

// CORS allows read-only cross-origin access from origins. A "*" entry allows
// every origin; the request origin is echoed back since credentials are on.
func CORS(origins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}

	switch {
	case slices.Contains(origins, anyOrigin):
		opts.AllowOriginFunc = func(_ *http.Request, _ string) bool { return true }
	case len(origins) == 0:
		// go-chi/cors treats an empty allow-list as "allow all".
		opts.AllowOriginFunc = func(_ *http.Request, _ string) bool { return false }
	default:
		opts.AllowedOrigins = origins
	}

	return cors.Handler(opts)
}

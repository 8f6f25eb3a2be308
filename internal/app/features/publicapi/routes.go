package publicapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Routes mounts the public JSON endpoints behind CORS so the marketing
// widgets can be embedded on other origins.
func Routes(h *Handler, allowedOrigins []string) chi.Router {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Get("/weather", h.Weather)
	r.Get("/conversion-rates", h.ConversionRates)
	r.Get("/galleriescount", h.GalleriesCount)
	return r
}

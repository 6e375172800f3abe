// AngelaMos | 2026
// cors.go

package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/partnerdesk/agreements-api/internal/config"
)

func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}

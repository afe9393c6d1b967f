package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// DefaultCORSConfig allows the given origins to call the JSON API.
func DefaultCORSConfig(origins []string) *CORSConfig {
	return &CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         3600,
	}
}

// CORS only allows explicitly configured origins. An empty list allows none.
func CORS(config *CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return slices.Contains(config.AllowedOrigins, origin)
		},
		AllowedMethods: config.AllowedMethods,
		AllowedHeaders: config.AllowedHeaders,
		MaxAge:         config.MaxAge,
	})
}

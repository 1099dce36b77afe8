package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the web client to call the API from its own origin. Requests
// authenticate with a bearer token, not cookies, so credentials stay off.
// Content-Disposition is exposed for the export download name.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           600,
	})
}

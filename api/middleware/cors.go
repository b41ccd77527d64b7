package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the console's dev origins with credentials. Production origins
// arrive via a reverse proxy on the same host, so only local dev servers need
// listing here.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}

package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORSHandler はフロントエンドのオリジンを許可するCORSミドルウェアを返します。
//
// Parameters:
//   - clientOrigin: 許可するオリジン (例: http://localhost:3000)
func CORSHandler(clientOrigin string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{clientOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler
}

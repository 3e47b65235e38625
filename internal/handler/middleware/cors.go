package middleware

import (
	"log/slog"
	"slices"

	"grooming-waitlist/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware always lets browsers send Idempotency-Key and read X-Request-ID,
// whatever the configured lists say.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allow := withHeader(cfg.AllowHeaders, "Idempotency-Key")
	expose := withHeader(cfg.ExposeHeaders, RequestIDHeader)

	slog.Info("CORS middleware initialized", "allow_origins", cfg.AllowOrigins, "allow_headers", allow)
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     allow,
		ExposeHeaders:    expose,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}

func withHeader(headers []string, h string) []string {
	if slices.Contains(headers, h) {
		return headers
	}
	return append(slices.Clone(headers), h)
}

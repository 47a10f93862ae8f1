package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"textok/internal/config"
)

// CORS allows credentialed requests from the configured origins.
func CORS(cfg config.CORSConfig) fiber.Handler {
	origins := strings.Join(cfg.AllowedOrigins, ",")
	if origins == "" || origins == "*" {
		// fiber rejects a wildcard together with credentials
		origins = "http://localhost:3000"
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders:    RequestIDHeader,
		AllowCredentials: true,
	})
}

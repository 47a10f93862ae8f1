package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"

	"textok/internal/http/rsdata"
)

const healthTimeout = 2 * time.Second

// HealthCheck pings PostgreSQL and Redis.
//
// @Summary Readiness check
// @Tags Health
// @Produce json
// @Success 200 {object} rsdata.RsData
// @Failure 503 {object} rsdata.RsData
// @Router /health [get]
func HealthCheck(db *sql.DB, rdb redis.Cmdable) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		status := fiber.Map{"database": "up", "redis": "up"}
		healthy := true
		if err := db.PingContext(ctx); err != nil {
			status["database"] = "down"
			healthy = false
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			status["redis"] = "down"
			healthy = false
		}

		if !healthy {
			return rsdata.Send(c, "503-1", "dependency unavailable", status)
		}
		return rsdata.Send(c, "200-1", "healthy", status)
	}
}

// LivenessProbe answers 200 as long as the process serves requests.
//
// @Summary Liveness probe
// @Tags Health
// @Success 200
// @Router /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

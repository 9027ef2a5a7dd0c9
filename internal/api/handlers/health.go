package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const version = "1.0.0"

// HealthCheck reports liveness plus the state of the backing stores.
func HealthCheck(pool *pgxpool.Pool, rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "healthy"
		if pool == nil {
			dbStatus = "unavailable"
		} else if err := pool.Ping(c.Context()); err != nil {
			dbStatus = "unhealthy"
		}

		redisStatus := "healthy"
		if rdb == nil {
			redisStatus = "unavailable"
		} else if err := rdb.Ping(c.Context()).Err(); err != nil {
			redisStatus = "unhealthy"
		}

		return c.JSON(fiber.Map{
			"status":       "healthy",
			"version":      version,
			"db_status":    dbStatus,
			"redis_status": redisStatus,
		})
	}
}

// ReadinessCheck reports whether the service can accept traffic. Redis
// is optional (notifications degrade), Postgres is not.
func ReadinessCheck(pool *pgxpool.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if pool == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not_ready",
				"reason": "Database not connected",
			})
		}
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not_ready",
				"reason": "Database unreachable",
			})
		}

		return c.JSON(fiber.Map{
			"status": "ready",
		})
	}
}

// Root returns basic API info
func Root() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":    "InternHub Scraping API",
			"version": version,
			"health":  "/health",
			"ready":   "/ready",
		})
	}
}

package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	CorrelationIDHeader = "X-Correlation-ID"
	CorrelationIDKey    = "correlationID"
)

// replay is a cached 2xx response
type replay struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// Idempotency replays the first successful response for a repeated
// X-Correlation-ID on mutating requests. Keys are scoped to the
// authenticated user so ids never collide across accounts. Requests without
// the header get a fresh id that is echoed back but not cached.
func Idempotency(redisClient *redis.Client, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Only apply to mutating methods
		if c.Method() != fiber.MethodPost && c.Method() != fiber.MethodPatch && c.Method() != fiber.MethodPut {
			return c.Next()
		}

		correlationID := c.Get(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.NewString()
			c.Locals(CorrelationIDKey, correlationID)
			c.Set(CorrelationIDHeader, correlationID)
			return c.Next()
		}
		c.Locals(CorrelationIDKey, correlationID)
		c.Set(CorrelationIDHeader, correlationID)

		if redisClient == nil {
			return c.Next()
		}

		key := "ironlog:" + GetUserID(c) + ":idempotency:" + correlationID
		ctx := c.UserContext()

		// Check if we have a cached response
		if cached, err := redisClient.Get(ctx, key).Bytes(); err == nil {
			var prev replay
			if err := json.Unmarshal(cached, &prev); err == nil {
				c.Set("X-Idempotent-Replay", "true")
				c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
				return c.Status(prev.Status).Send(prev.Body)
			}
		} else if err != redis.Nil {
			log.WithError(err).WithField("correlation_id", correlationID).Warn("idempotency lookup failed")
		}

		// Process the request
		if err := c.Next(); err != nil {
			return err
		}

		// Cache successful responses (2xx status codes)
		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			return nil
		}

		data, err := json.Marshal(replay{Status: status, Body: c.Response().Body()})
		if err != nil {
			return nil
		}
		setCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := redisClient.Set(setCtx, key, data, ttl).Err(); err != nil {
			log.WithError(err).WithField("correlation_id", correlationID).Warn("failed to store idempotent response")
		}
		return nil
	}
}

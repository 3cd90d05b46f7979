package middleware

import (
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// WriteLimiter keeps one token bucket per key. Requests without a key share
// the bucket of the client IP.
type WriteLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewWriteLimiter allows perSecond requests per key with the given burst.
func NewWriteLimiter(perSecond float64, burst int) *WriteLimiter {
	return &WriteLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *WriteLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	return lim
}

// Allow reports whether one more request for key fits the budget.
func (l *WriteLimiter) Allow(key string) bool {
	return l.limiter(key).Allow()
}

// Handler rejects mutating requests over budget with 429. Reads pass through.
func (l *WriteLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		key := Username(c)
		if key == "" {
			key = c.IP()
		}
		if !l.Allow(key) {
			log.Printf("Write rate limit exceeded for %s on %s", key, c.Path())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests",
			})
		}
		return c.Next()
	}
}

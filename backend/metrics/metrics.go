package metrics

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
)

type Collector struct {
	requests   uint64
	errors     uint64
	rateLimits uint64
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) IncRequests() {
	atomic.AddUint64(&c.requests, 1)
}

func (c *Collector) IncErrors() {
	atomic.AddUint64(&c.errors, 1)
}

func (c *Collector) IncRateLimited() {
	atomic.AddUint64(&c.rateLimits, 1)
}

// Snapshot returns requests, 5xx responses and rate-limited requests.
func (c *Collector) Snapshot() (uint64, uint64, uint64) {
	return atomic.LoadUint64(&c.requests), atomic.LoadUint64(&c.errors), atomic.LoadUint64(&c.rateLimits)
}

// Middleware counts every request. It must wrap the middleware that renders handler errors,
// otherwise the final status is not yet known.
func Middleware(c *Collector) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if c == nil {
			return err
		}
		c.IncRequests()
		status := ctx.Response().StatusCode()
		var fiberErr *fiber.Error
		switch {
		case err == nil:
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
		default:
			status = fiber.StatusInternalServerError
		}
		if status >= fiber.StatusInternalServerError {
			c.IncErrors()
		}
		if status == fiber.StatusTooManyRequests {
			c.IncRateLimited()
		}
		return err
	}
}

// Handler serves the counters in the Prometheus text format.
func Handler(c *Collector) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var requests, failures, limited uint64
		if c != nil {
			requests, failures, limited = c.Snapshot()
		}
		var b strings.Builder
		fmt.Fprintf(&b, "# HELP prashiskshan_requests_total Total number of HTTP requests.\n")
		fmt.Fprintf(&b, "# TYPE prashiskshan_requests_total counter\n")
		fmt.Fprintf(&b, "prashiskshan_requests_total %d\n", requests)
		fmt.Fprintf(&b, "# HELP prashiskshan_errors_total Total number of 5xx HTTP responses.\n")
		fmt.Fprintf(&b, "# TYPE prashiskshan_errors_total counter\n")
		fmt.Fprintf(&b, "prashiskshan_errors_total %d\n", failures)
		fmt.Fprintf(&b, "# HELP prashiskshan_rate_limited_total Total number of requests rejected by rate limits.\n")
		fmt.Fprintf(&b, "# TYPE prashiskshan_rate_limited_total counter\n")
		fmt.Fprintf(&b, "prashiskshan_rate_limited_total %d\n", limited)

		ctx.Set(fiber.HeaderContentType, "text/plain; version=0.0.4")
		return ctx.SendString(b.String())
	}
}

package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LoggingMiddleware writes one line per request. Handler errors are rendered here through the
// app error handler so the logged status is the one sent to the client.
func LoggingMiddleware(logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			if handleErr := c.App().Config().ErrorHandler(c, err); handleErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		requestID, _ := c.Locals("requestid").(string)
		if err != nil {
			logger.Printf("%s %s %s %d %v request_id=%s error=%q",
				c.IP(), c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start), requestID, err.Error())
			return nil
		}
		logger.Printf("%s %s %s %d %v request_id=%s",
			c.IP(), c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start), requestID)
		return nil
	}
}

package utils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Response is the envelope shared by every API reply.
type Response struct {
	Success    bool         `json:"success"`
	Message    string       `json:"message,omitempty"`
	Data       interface{}  `json:"data,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
	Pagination *Pagination  `json:"pagination,omitempty"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func NewPagination(page, limit int, total int64) *Pagination {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return &Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Success sends a successful JSON envelope.
func Success(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func OK(c *fiber.Ctx, data interface{}) error {
	return Success(c, fiber.StatusOK, "", data)
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return Success(c, fiber.StatusCreated, message, data)
}

// Paginate sends a page of results with pagination metadata.
func Paginate(c *fiber.Ctx, data interface{}, page, limit int, total int64) error {
	return c.JSON(Response{
		Success:    true,
		Data:       data,
		Pagination: NewPagination(page, limit, total),
	})
}

func statusForKind(kind ErrorKind) int {
	switch kind {
	case KindValidation, KindConflict:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindForbidden:
		return fiber.StatusForbidden
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindRateLimited:
		return fiber.StatusTooManyRequests
	case KindUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler converts errors returned by handlers into the JSON envelope.
// Server errors are logged and answered with a generic message.
func ErrorHandler(logger *log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *AppError
		if errors.As(err, &appErr) {
			status := statusForKind(appErr.Kind)
			if status >= fiber.StatusInternalServerError && appErr.Kind == KindInternal {
				logServerError(logger, c, err)
				return c.Status(status).JSON(Response{Success: false, Message: "Server error"})
			}
			return c.Status(status).JSON(Response{
				Success: false,
				Message: appErr.Message,
				Errors:  appErr.Fields,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			if fiberErr.Code >= fiber.StatusInternalServerError {
				logServerError(logger, c, err)
			}
			return c.Status(fiberErr.Code).JSON(Response{Success: false, Message: fiberErr.Message})
		}

		logServerError(logger, c, err)
		return c.Status(fiber.StatusInternalServerError).JSON(Response{Success: false, Message: "Server error"})
	}
}

func logServerError(logger *log.Logger, c *fiber.Ctx, err error) {
	if logger == nil {
		return
	}
	requestID, _ := c.Locals("requestid").(string)
	logger.Printf("server error request_id=%s %s %s: %v", requestID, c.Method(), c.Path(), err)
}

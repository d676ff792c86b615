package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prashiskshan/backend/models"
	"prashiskshan/backend/services"
	"prashiskshan/backend/testutil"
	"prashiskshan/backend/utils"
)

func TestRateLimiterWindow(t *testing.T) {
	limiter := NewRateLimiter()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("apply:s:i", 3, time.Minute), "attempt %d", i+1)
	}
	assert.False(t, limiter.Allow("apply:s:i", 3, time.Minute))
	assert.True(t, limiter.Allow("apply:s:other", 3, time.Minute), "keys are independent")

	now = now.Add(61 * time.Second)
	assert.True(t, limiter.Allow("apply:s:i", 3, time.Minute), "a new window starts after expiry")
}

func TestRateLimiterConcurrent(t *testing.T) {
	limiter := NewRateLimiter()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("login:1.2.3.4", 10, time.Minute) {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, allowed)
}

func TestRedisLimiterNilFailsOpen(t *testing.T) {
	var limiter *RedisLimiter
	assert.Nil(t, NewRedisLimiter(nil, "x"))
	assert.True(t, limiter.Allow("k", 1, time.Minute))
}

func newApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	auth := services.NewAuthService(db, cfg)

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(nil)})
	app.Use(LoggingMiddleware(utils.InitLogger(utils.LoggerConfig{Output: io.Discard})))
	app.Get("/me", AuthMiddleware(auth), func(c *fiber.Ctx) error {
		return c.SendString(CurrentUser(c).Email)
	})
	app.Get("/admin", AuthMiddleware(auth), Authorize(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("welcome")
	})

	t.Cleanup(func() { _ = app.Shutdown() })
	return app, auth
}

func get(t *testing.T, app *fiber.App, path, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthMiddleware(t *testing.T) {
	app, auth := newApp(t)
	ctx := context.Background()

	result, err := auth.Register(ctx, services.RegisterInput{
		Email:    "kiran@example.com",
		Password: "secret123",
		Role:     "student",
		Profile:  services.ProfileInput{FirstName: "Kiran", LastName: "Rao"},
	})
	require.NoError(t, err)

	status, body := get(t, app, "/me", "Bearer "+result.Token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "kiran@example.com", body)

	status, body = get(t, app, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "No token, authorization denied")

	for _, header := range []string{"Bearer", "Basic abc", "Bearer not-a-jwt"} {
		status, _ = get(t, app, "/me", header)
		assert.Equal(t, http.StatusUnauthorized, status, header)
	}

	status, body = get(t, app, "/admin", "Bearer "+result.Token)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, body, "Insufficient permissions")
}

func TestRateLimitMiddleware(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(nil)})
	app.Get("/login", RateLimit(NewRateLimiter(), ClientIP("login"), 2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/open", RateLimit(nil, ClientIP("open"), 1, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	codes := []int{}
	for i := 0; i < 3; i++ {
		status, _ := get(t, app, "/login", "")
		codes = append(codes, status)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	for i := 0; i < 3; i++ {
		status, _ := get(t, app, "/open", "")
		assert.Equal(t, http.StatusNoContent, status)
	}
}

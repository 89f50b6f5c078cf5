package middleware_test

import (
	"net/http/httptest"
	"testing"

	"clan-ledger/core/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(apiKey string) *fiber.App {
	app := fiber.New()
	app.Use(middleware.RayID())
	app.Use(middleware.Auth(apiKey))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("ray_id").(string))
	})
	return app
}

func TestAuth(t *testing.T) {
	app := newApp("secret")

	req := httptest.NewRequest("GET", "/ping", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(middleware.APIKeyHeader, "secret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuth_Disabled(t *testing.T) {
	app := newApp("")

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRayID(t *testing.T) {
	app := newApp("")

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(middleware.RayIDHeader))

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(middleware.RayIDHeader, "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(middleware.RayIDHeader))
}

package economy

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (*fiber.App, *Store) {
	s := setupStore(t)
	app := fiber.New()
	f := NewFeature(s)
	require.NoError(t, f.Load(app))
	assert.Equal(t, "economy", f.Name())
	assert.True(t, f.IsEnabled())
	return app, s
}

func TestHandler_GetBalance(t *testing.T) {
	app, s := setupApp(t)
	_, err := s.Adjust(context.Background(), "Foo", Delta{Gold: 40})
	require.NoError(t, err)
	_, err = s.AddAchievement(context.Background(), "foo", "FIRST_DONATION")
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/economy/balances/FOO", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body BalanceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Foo", body.Username)
	assert.Equal(t, int64(40), body.Gold)
	assert.Equal(t, []string{"FIRST_DONATION"}, body.Achievements)

	resp, err = app.Test(httptest.NewRequest("GET", "/economy/balances/nobody", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandler_Adjust(t *testing.T) {
	app, s := setupApp(t)

	req := httptest.NewRequest("POST", "/economy/adjust", strings.NewReader(`{"username":"Bar","gems":-20,"reason":"refund"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	rec, err := s.Get(context.Background(), "bar")
	require.NoError(t, err)
	assert.Equal(t, int64(-20), rec.Gems)

	req = httptest.NewRequest("POST", "/economy/adjust", strings.NewReader(`{"username":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandler_ListBalances(t *testing.T) {
	app, s := setupApp(t)
	require.NoError(t, s.Ensure(context.Background(), "Zed"))
	require.NoError(t, s.Ensure(context.Background(), "amy"))

	resp, err := app.Test(httptest.NewRequest("GET", "/economy/balances", nil))
	require.NoError(t, err)

	var recs []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "amy", recs[0]["username"])
}

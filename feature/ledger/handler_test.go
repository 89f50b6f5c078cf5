package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"clan-ledger/core/scheduler"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type triggerFunc func(ctx context.Context, name string) error

func (f triggerFunc) Trigger(ctx context.Context, name string) error {
	return f(ctx, name)
}

func setupApp(t *testing.T, trigger Trigger) (*fiber.App, *fixture, *Jobs) {
	f := setup(t)
	feed := new(feedMock)
	feed.On("Ledger", mock.Anything).Return(nil, nil)
	j := f.jobs(feed, nil)
	if trigger == nil {
		trigger = triggerFunc(func(ctx context.Context, name string) error {
			if name == JobDonations {
				return j.Donations(ctx)
			}
			return j.Mission(ctx)
		})
	}
	app := fiber.New()
	feature := NewFeature(NewHandler(j, f.missions(), trigger, zap.NewNop()))
	require.NoError(t, feature.Load(app))
	assert.Equal(t, "ledger", feature.Name())
	return app, f, j
}

func request(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestHandler_Ingest(t *testing.T) {
	app, _, _ := setupApp(t, nil)

	status, body := request(t, app, "POST", "/ledger/ingest", "")
	assert.Equal(t, fiber.StatusOK, status)
	batch, ok := body["last_batch"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(0), batch["seen"])

	status, _ = request(t, app, "POST", "/ledger/ingest?feed=wood", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandler_IngestBusy(t *testing.T) {
	app, _, _ := setupApp(t, triggerFunc(func(context.Context, string) error {
		return scheduler.ErrBusy
	}))
	status, _ := request(t, app, "POST", "/ledger/ingest?feed=mission", "")
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestHandler_IngestFailure(t *testing.T) {
	app, _, _ := setupApp(t, triggerFunc(func(context.Context, string) error {
		return errors.New("feed unavailable")
	}))
	status, body := request(t, app, "POST", "/ledger/ingest", "")
	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Equal(t, "feed unavailable", body["error"])
}

func TestHandler_ManualMission(t *testing.T) {
	app, f, _ := setupApp(t, nil)

	status, body := request(t, app, "POST", "/ledger/missions", `{"mission_id":"m1","currency":"oro","participants":["Foo","Bar",""]}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "m1", body["mission_id"])
	assert.Equal(t, float64(2), body["resolved_participants"])
	assert.Equal(t, float64(1000), body["total_cost"])
	assert.Equal(t, int64(-500), f.record(t, "Foo").Gold)

	status, body = request(t, app, "POST", "/ledger/missions", `{"currency":"gems","participants":["Foo"]}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, strings.HasPrefix(body["mission_id"].(string), "manual-"))

	status, _ = request(t, app, "POST", "/ledger/missions", `{"currency":"wood","participants":["Foo"]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = request(t, app, "POST", "/ledger/missions", `{"currency":"gold","participants":[]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = request(t, app, "POST", "/ledger/missions", `{`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandler_Status(t *testing.T) {
	app, _, _ := setupApp(t, nil)
	status, body := request(t, app, "GET", "/ledger/status", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body)
}

package identity

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"clan-ledger/core/gameapi"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T, dir Directory) (*fiber.App, *fixture) {
	f := setup(t)
	var v *Verifier
	if dir != nil {
		v = newVerifier(f, dir)
	}
	app := fiber.New()
	feature := NewFeature(NewHandler(f.resolver, f.linker, v, zap.NewNop()))
	require.NoError(t, feature.Load(app))
	assert.Equal(t, "identity", feature.Name())
	assert.True(t, feature.IsEnabled())
	return app, f
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *fiberResponse {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	out := &fiberResponse{Status: resp.StatusCode, Body: map[string]any{}}
	_ = json.NewDecoder(resp.Body).Decode(&out.Body)
	return out
}

type fiberResponse struct {
	Status int
	Body   map[string]any
}

func TestHandler_LinkAndResolve(t *testing.T) {
	app, _ := setupApp(t, nil)

	resp := postJSON(t, app, "/identity/link", `{"chat_id":1,"game_username":"Old"}`)
	assert.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, true, resp.Body["created"])

	resp = postJSON(t, app, "/identity/link", `{"chat_id":1,"game_username":"New"}`)
	assert.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, true, resp.Body["game_username_changed"])
	assert.Equal(t, "Old", resp.Body["previous_game_username"])

	resp = postJSON(t, app, "/identity/link", `{"chat_id":2,"game_username":"new"}`)
	assert.Equal(t, fiber.StatusConflict, resp.Status)
	assert.Equal(t, ConflictUsernameTaken, resp.Body["reason"])

	resp = postJSON(t, app, "/identity/link", `{"chat_id":2,"game_username":""}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)

	r, err := app.Test(httptest.NewRequest("GET", "/identity/resolve?username=old", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, r.StatusCode)
	var id Identity
	require.NoError(t, json.NewDecoder(r.Body).Decode(&id))
	assert.Equal(t, "New", id.Resolved)
	assert.True(t, id.AliasResolved)
}

func TestHandler_GetProfile(t *testing.T) {
	app, f := setupApp(t, nil)
	f.link(t, 11, "Foo")

	r, err := app.Test(httptest.NewRequest("GET", "/identity/profiles/11", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, r.StatusCode)
	var snap ProfileSnapshot
	require.NoError(t, json.NewDecoder(r.Body).Decode(&snap))
	assert.Equal(t, "Foo", snap.GameUsername)

	r, err = app.Test(httptest.NewRequest("GET", "/identity/profiles/12", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, r.StatusCode)

	r, err = app.Test(httptest.NewRequest("GET", "/identity/profiles/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, r.StatusCode)
}

func TestHandler_Verification(t *testing.T) {
	dir := &directoryMock{}
	app, _ := setupApp(t, dir)

	dir.On("PlayerByUsername", mock.Anything, "Outsider").Return(&gameapi.Player{ID: "x", ClanID: "other"}, nil).Once()
	resp := postJSON(t, app, "/identity/verification/start", `{"chat_id":1,"game_username":"Outsider"}`)
	assert.Equal(t, fiber.StatusForbidden, resp.Status)

	resp = postJSON(t, app, "/identity/verification/confirm", `{"chat_id":1}`)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)

	dir.On("PlayerByUsername", mock.Anything, "Foo").Return(&gameapi.Player{ID: "acc", Username: "Foo", ClanID: "clan-1"}, nil).Once()
	resp = postJSON(t, app, "/identity/verification/start", `{"chat_id":1,"game_username":"Foo"}`)
	require.Equal(t, fiber.StatusOK, resp.Status)
	code, _ := resp.Body["code"].(string)
	require.Len(t, code, 6)

	dir.On("PlayerByID", mock.Anything, "acc").Return(&gameapi.Player{ID: "acc", Username: "Foo", PersonalMessage: "code " + code}, nil).Once()
	resp = postJSON(t, app, "/identity/verification/confirm", `{"chat_id":1}`)
	assert.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, true, resp.Body["verified"])
	dir.AssertExpectations(t)
}

func TestHandler_VerificationWithoutDirectory(t *testing.T) {
	app, _ := setupApp(t, nil)
	resp := postJSON(t, app, "/identity/verification/start", `{"chat_id":1,"game_username":"Foo"}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.Status)
}

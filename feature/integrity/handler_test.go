package integrity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"clan-ledger/core/reconcile"
	"clan-ledger/core/storage/mocks"
	"clan-ledger/feature/economy"
	economymodels "clan-ledger/feature/economy/models"
	"clan-ledger/feature/identity"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db       *gorm.DB
	profiles *identity.Store
	economy  *economy.Store
	linker   *identity.Linker
}

func setup(t *testing.T) *fixture {
	t.Helper()
	dbName := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	profiles := identity.NewStore(db)
	require.NoError(t, profiles.Migrate())
	eco := economy.NewStore(db, zap.NewNop())
	require.NoError(t, eco.Migrate())
	return &fixture{db: db, profiles: profiles, economy: eco, linker: identity.NewLinker(profiles, eco, zap.NewNop())}
}

func (f *fixture) service(opts Options) *Service {
	engine := reconcile.NewEngine(f.profiles, f.economy, zap.NewNop())
	return NewService(f.db, economymodels.All(), engine, opts, zap.NewNop())
}

func (f *fixture) app(t *testing.T, opts Options) *fiber.App {
	t.Helper()
	app := fiber.New()
	require.NoError(t, NewFeature(f.service(opts)).Load(app))
	return app
}

func get(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestFeature_Name(t *testing.T) {
	f := NewFeature(nil)
	assert.Equal(t, "integrity", f.Name())
	assert.True(t, f.IsEnabled())
}

func TestHandleSchemaCheck(t *testing.T) {
	app := setup(t).app(t, Options{})

	status, body := get(t, app, "/integrity/schema")
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["matched"])
}

func TestHandleArchiveCheck(t *testing.T) {
	f := setup(t)

	t.Run("disabled", func(t *testing.T) {
		status, body := get(t, f.app(t, Options{}), "/integrity/archive")
		assert.Equal(t, 200, status)
		assert.Equal(t, false, body["enabled"])
	})

	t.Run("disabled fix", func(t *testing.T) {
		status, body := get(t, f.app(t, Options{}), "/integrity/archive?fix=true")
		assert.Equal(t, 409, status)
		assert.Equal(t, ErrArchiveDisabled.Error(), body["error"])
	})

	t.Run("missing bucket is created", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "feeds").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "feeds", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil).Once()

		app := f.app(t, Options{Client: client, Bucket: "feeds", Region: "us-east-1"})
		status, body := get(t, app, "/integrity/archive?fix=true")
		assert.Equal(t, 200, status)
		assert.Equal(t, true, body["exists"])
		client.AssertExpectations(t)
	})

	t.Run("missing bucket without fix", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "feeds").Return(false, nil)

		app := f.app(t, Options{Client: client, Bucket: "feeds"})
		status, body := get(t, app, "/integrity/archive")
		assert.Equal(t, 200, status)
		assert.Equal(t, false, body["exists"])
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandleAliasCheck(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	_, err := f.linker.Link(ctx, identity.LinkRequest{ChatID: 1, GameUsername: "Old"})
	require.NoError(t, err)
	_, err = f.linker.Link(ctx, identity.LinkRequest{ChatID: 1, GameUsername: "New"})
	require.NoError(t, err)
	_, err = f.economy.Adjust(ctx, "Old", economy.Delta{Gold: 50})
	require.NoError(t, err)

	status, body := get(t, f.app(t, Options{}), "/integrity/aliases")
	assert.Equal(t, 200, status)
	summary := body["summary"].(map[string]any)
	assert.EqualValues(t, 1, summary["stale"])
	assert.Len(t, body["results"], 1)
}

func TestHandleIntegrityCheck(t *testing.T) {
	status, body := get(t, setup(t).app(t, Options{}), "/integrity")
	assert.Equal(t, 200, status)
	assert.Contains(t, body, "schema")
	assert.Contains(t, body, "archive")
	assert.Contains(t, body, "aliases")
}

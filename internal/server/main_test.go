package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"promptvault/internal/cache"
	"promptvault/internal/config"
	"promptvault/internal/middleware"
	"promptvault/internal/models"
	"promptvault/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

type testEnv struct {
	srv *Server
	app *fiber.App
	db  *gorm.DB
}

// newTestEnv builds the full app over an in-memory sqlite database and no Redis.
func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Port:         "0",
		Env:          "test",
		JWTSecret:    testSecret,
		FeatureFlags: "assist=on",
		DBDriver:     config.DriverSQLite,
	}
	for _, m := range mutate {
		m(cfg)
	}

	db := testutil.NewSQLiteDB(t)
	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cache.SetClient(nil) })

	return &testEnv{srv: srv, app: srv.NewApp(), db: db}
}

// do sends a request and returns the status and raw body.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

// doJSON is do with the body decoded into a map.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	status, raw := e.do(t, method, path, token, body)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return status, out
}

// register creates an account through the API and returns its id and token.
func (e *testEnv) register(t *testing.T, username string) (string, string) {
	t.Helper()
	status, body := e.doJSON(t, http.MethodPost, "/api/register", "", map[string]any{
		"username":    username,
		"password":    "secret-" + username,
		"displayName": username,
	})
	require.Equal(t, http.StatusCreated, status, body)
	user := body["user"].(map[string]any)
	return user["id"].(string), body["token"].(string)
}

// tokenFor issues a session token for a user created directly in the database.
func tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := middleware.IssueToken(testSecret, u.ID, time.Hour)
	require.NoError(t, err)
	return token
}

func decodeList(t *testing.T, raw []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

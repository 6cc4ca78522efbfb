package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"estimator-backend/config"
	"estimator-backend/repository"
	"estimator-backend/storage"
	"estimator-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "test-secret"
	testUsername = "admin"
	testPassword = "s3cret-pass"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return config.Config{
		PublicBaseURL: "https://quotes.example.com",
		JWT:           config.JWTConfig{Secret: testSecret, TTL: time.Hour},
		Admin:         config.AdminConfig{Username: testUsername, PasswordHash: string(hash), Role: "super_admin"},
	}
}

type testEnv struct {
	router *gin.Engine
	store  *storage.MemoryStore
	cfg    config.Config
}

// newTestEnv builds a router over a memory store. When seeded is true the
// default calculator is loaded first.
func newTestEnv(t *testing.T, seeded bool, notifier QuoteNotifier) *testEnv {
	t.Helper()
	store := storage.NewMemoryStore()
	if seeded {
		_, _, err := repository.SeedIfEmpty(context.Background(), store, repository.DefaultSeed(), repository.FormatAuto)
		require.NoError(t, err)
	}
	cfg := testConfig(t)
	router := NewRouter(Deps{
		Store:    store,
		Config:   cfg,
		Notifier: notifier,
		Seed:     repository.DefaultSeed(),
	})
	return &testEnv{router: router, store: store, cfg: cfg}
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateAdminJWT(testSecret, testUsername, "super_admin", time.Hour)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
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
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[map[string]any](t, w)["error"].(string)
}

var webAppSelections = map[string]any{
	"projectType":        "web-app",
	"selectedIndustries": []string{"Startup"},
	"selectedServices":   []string{"ui-ux-design"},
	"scope":              "mvp",
	"team":               "small",
	"timeline":           "standard",
	"support":            "basic",
}

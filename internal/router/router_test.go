package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/paradb/paradb-api/internal/config"
	"github.com/paradb/paradb-api/internal/dto"
	"github.com/paradb/paradb-api/internal/search"
	"github.com/paradb/paradb-api/internal/search/searchtest"
	"github.com/paradb/paradb-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routerTestEnv struct {
	router *gin.Engine
	engine *searchtest.Engine
}

func setupRouter(t *testing.T) routerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	frontendDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(frontendDir, "index.html"), []byte("<html>paradb</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(frontendDir, "app.js"), []byte("console.log(1)"), 0o644))

	mapsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(mapsDir, "M1.zip"), []byte("zipdata"), 0o644))

	cfg := &config.Config{
		SessionSecret: "secret",
		GinMode:       gin.TestMode,
		FrontendDir:   frontendDir,
		MapsDir:       mapsDir,
	}

	engine := searchtest.NewEngine()
	r, err := New(Deps{
		Config:       cfg,
		DB:           testutil.SetupTestDB(t),
		SearchEngine: engine,
	})
	require.NoError(t, err)

	return routerTestEnv{router: r, engine: engine}
}

func do(r *gin.Engine, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		raw, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	env := setupRouter(t)

	w := do(env.router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestFrontendRoutes(t *testing.T) {
	env := setupRouter(t)

	for _, path := range []string{"/", "/login", "/signup", "/map/M1"} {
		w := do(env.router, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "paradb", path)
	}

	w := do(env.router, http.MethodGet, "/static/app.js", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	w = do(env.router, http.MethodGet, "/static/map_data/M1.zip", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "zipdata", w.Body.String())

	w = do(env.router, http.MethodGet, "/favicon.ico", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(env.router, http.MethodGet, "/logout", nil, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	env := setupRouter(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/users/me"},
		{http.MethodGet, "/api/users/me/favorites"},
		{http.MethodPost, "/api/maps"},
		{http.MethodDelete, "/api/maps/M1"},
		{http.MethodPost, "/api/maps/M1/favorite"},
		{http.MethodDelete, "/api/maps/M1/favorite"},
	}
	for _, rt := range routes {
		w := do(env.router, rt.method, rt.path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", rt.method, rt.path)
	}
}

func TestSubmitAndSearchFlow(t *testing.T) {
	env := setupRouter(t)

	w := do(env.router, http.MethodPost, "/api/users/signup", map[string]string{
		"username": "mapper",
		"email":    "mapper@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = do(env.router, http.MethodGet, "/api/users/me", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(env.router, http.MethodPost, "/api/maps", map[string]any{
		"title":      "Through the Fire",
		"artist":     "DragonForce",
		"complexity": 2,
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created dto.MapDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(env.router, http.MethodPost, "/api/maps/"+created.ID+"/favorite", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(env.router, http.MethodGet, "/api/maps/"+created.ID, nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var detail dto.MapDetailDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, int64(1), detail.Favorites)
	require.NotNil(t, detail.UserFavorited)
	assert.True(t, *detail.UserFavorited)

	w = do(env.router, http.MethodGet, "/api/maps/search?q=fire", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var results dto.MapSearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results.Maps, 1)
	assert.Equal(t, created.ID, results.Maps[0].ID)

	w = do(env.router, http.MethodDelete, "/api/maps/"+created.ID, nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.engine.State(search.MapsIndex).Documents)

	w = do(env.router, http.MethodPost, "/api/users/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestNewSessionStore_Cookie(t *testing.T) {
	store, err := NewSessionStore(&config.Config{SessionSecret: "secret"})
	require.NoError(t, err)
	assert.NotNil(t, store)
}

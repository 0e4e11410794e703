package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"mergington/internal/activities"
	"mergington/internal/shared/config"
	"mergington/internal/shared/database"
	"mergington/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Mergington High School</h1>"), 0o644))

	return &config.Config{
		APIVersion:     "v1",
		StaticDir:      dir,
		MetricsEnabled: true,
	}
}

func newTestEngine(t *testing.T, cfg *config.Config, db *database.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := activities.NewRepository(activities.DefaultActivities(), cfg.Activities.EnforceCapacity)
	require.NoError(t, err)

	engine := gin.New()
	NewRouter(cfg, db, activities.NewService(repo, nil, logger.Discard()), logger.Discard()).SetupRoutes(engine)
	return engine
}

func perform(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func participation(activity, action, email string) string {
	return "/activities/" + url.PathEscape(activity) + "/" + action + "?email=" + url.QueryEscape(email)
}

func roster(t *testing.T, engine *gin.Engine, activity string) []string {
	t.Helper()
	w := perform(engine, http.MethodGet, "/activities")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]activities.ActivityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body, activity)
	return body[activity].Participants
}

func TestRootRedirectsToLandingPage(t *testing.T) {
	engine := newTestEngine(t, testConfig(t), &database.DB{})

	w := perform(engine, http.MethodGet, "/")

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/static/index.html", w.Header().Get("Location"))
}

func TestStaticFilesServed(t *testing.T) {
	engine := newTestEngine(t, testConfig(t), &database.DB{})

	w := perform(engine, http.MethodGet, "/static/index.html")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mergington High School")
}

func TestSignupThenUnregisterRoundTrip(t *testing.T) {
	engine := newTestEngine(t, testConfig(t), &database.DB{})
	before := roster(t, engine, "Chess Club")

	w := perform(engine, http.MethodPost, participation("Chess Club", "signup", "newbie@mergington.edu"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Signed up newbie@mergington.edu for Chess Club"}`, w.Body.String())
	assert.Equal(t, append(append([]string{}, before...), "newbie@mergington.edu"), roster(t, engine, "Chess Club"))

	w = perform(engine, http.MethodPost, participation("Chess Club", "signup", "newbie@mergington.edu"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"Student is already signed up"}`, w.Body.String())

	w = perform(engine, http.MethodDelete, participation("Chess Club", "unregister", "newbie@mergington.edu"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Unregistered newbie@mergington.edu from Chess Club"}`, w.Body.String())
	assert.Equal(t, before, roster(t, engine, "Chess Club"))

	w = perform(engine, http.MethodDelete, participation("Chess Club", "unregister", "newbie@mergington.edu"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Student is not registered for this activity"}`, w.Body.String())
}

func TestUnknownActivity(t *testing.T) {
	engine := newTestEngine(t, testConfig(t), &database.DB{})

	for _, action := range []struct{ method, name string }{
		{http.MethodPost, "signup"},
		{http.MethodDelete, "unregister"},
	} {
		w := perform(engine, action.method, participation("Underwater Basket Weaving", action.name, "a@mergington.edu"))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"detail":"Activity not found"}`, w.Body.String())
	}
}

func TestHealthRoutes(t *testing.T) {
	engine := newTestEngine(t, testConfig(t), &database.DB{})

	w := perform(engine, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	w = perform(engine, http.MethodGet, "/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"pong"`)

	w = perform(engine, http.MethodGet, "/status")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"operational"`)
	assert.Contains(t, w.Body.String(), `"redis":false`)
}

func TestHealthReportsRedisOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	engine := newTestEngine(t, testConfig(t), &database.DB{Redis: client})

	w := perform(engine, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	mr.Close()
	w = perform(engine, http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"unhealthy"`)
}

func TestHealthReportsRedisUnreachableAtStartup(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.Redis = config.RedisConfig{Enabled: true, Addr: addr}
	db, err := database.InitDB(cfg)
	require.Error(t, err)

	engine := newTestEngine(t, cfg, db)

	w := perform(engine, http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"unhealthy"`)

	w = perform(engine, http.MethodPost, participation("Chess Club", "signup", "still@mergington.edu"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	cfg := testConfig(t)
	engine := newTestEngine(t, cfg, &database.DB{})

	perform(engine, http.MethodPost, participation("Art Club", "signup", "painter@mergington.edu"))
	w := perform(engine, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "activity_signups_total")

	cfg.MetricsEnabled = false
	engine = newTestEngine(t, cfg, &database.DB{})
	w = perform(engine, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSwaggerDocServed(t *testing.T) {
	engine := newTestEngine(t, testConfig(t), &database.DB{})

	w := perform(engine, http.MethodGet, "/swagger/doc.json")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/activities/{name}/signup")
}

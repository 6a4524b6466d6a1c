package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// routeTestFS returns a minimal template filesystem for route handler tests.
func routeTestFS() fstest.MapFS {
	return fstest.MapFS{
		"templates/layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{ define "base" }}{{ block "content" . }}{{ end }}{{ end }}`),
		},
		"templates/errors/404.html": &fstest.MapFile{
			Data: []byte(`{{ template "base" . }}{{ define "content" }}404:{{ .Status }}{{ end }}`),
		},
		"templates/errors/500.html": &fstest.MapFile{
			Data: []byte(`{{ template "base" . }}{{ define "content" }}500:{{ .Code }}{{ end }}`),
		},
	}
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	r := gin.New()
	renderer, err := NewTemplateRenderer(routeTestFS(), true)
	if err != nil {
		t.Fatalf("setup renderer: %v", err)
	}
	r.HTMLRender = renderer
	return r
}

func openTestSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db
}

func decodeHealth(t *testing.T, w *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body struct {
		Status     string `json:"status"`
		Components struct {
			Database string `json:"database"`
		} `json:"components"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return body.Status, body.Components.Database
}

// --- health ---

func TestHealthHandler_OK(t *testing.T) {
	r := gin.New()
	r.GET("/health", healthHandler(openTestSQLiteDB(t)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if status, db := decodeHealth(t, w); status != "ok" || db != "ok" {
		t.Errorf("status=%q database=%q; want ok/ok", status, db)
	}
}

func TestHealthHandler_DBDown(t *testing.T) {
	db := openTestSQLiteDB(t)
	sqlDB, _ := db.DB()
	sqlDB.Close()

	r := gin.New()
	r.GET("/health", healthHandler(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if status, db := decodeHealth(t, w); status != "degraded" || db != "error" {
		t.Errorf("status=%q database=%q; want degraded/error", status, db)
	}
}

func TestHealthHandler_NilDB(t *testing.T) {
	r := gin.New()
	r.GET("/health", healthHandler(nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestHealthHandler_UsesRequestContextTimeout(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	mock.ExpectPing().WillDelayFor(5 * time.Second)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	r := gin.New()
	r.GET("/health", healthHandler(db))

	reqCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	t.Cleanup(cancel)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil).WithContext(reqCtx)

	start := time.Now()
	r.ServeHTTP(w, req)
	elapsed := time.Since(start)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if elapsed > 500*time.Millisecond {
		t.Fatalf("health check ignored the request deadline, elapsed=%v", elapsed)
	}
}

// --- no route ---

func TestNoRouteHandler(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		accept   string
		wantJSON bool
		wantBody string
	}{
		{"json_client", "/nonexistent", "application/json", true, ""},
		{"json_with_wildcard", "/nonexistent", "application/json, */*", true, ""},
		{"browser", "/nonexistent", "text/html", false, "404:Not Found"},
		{"wildcard", "/nonexistent", "*/*", false, "404:Not Found"},
		{"api_prefers_json", "/api/nonexistent", "*/*", true, ""},
		{"api_html_accept", "/api/advocates/x", "text/html", true, ""},
		{"bare_api_path", "/api", "*/*", false, "404:Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupTestRouter(t)
			r.NoRoute(noRouteHandler())

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Accept", tt.accept)
			r.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Fatalf("expected 404, got %d", w.Code)
			}
			ct := w.Header().Get("Content-Type")
			if tt.wantJSON {
				var body map[string]any
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("unmarshal: %v; body=%q", err, w.Body.String())
				}
				if body["message"] != "not found" {
					t.Errorf("message = %v; want not found", body["message"])
				}
				if !strings.Contains(ct, "application/json") {
					t.Errorf("Content-Type = %q; want JSON", ct)
				}
				return
			}
			if !strings.Contains(ct, "text/html") {
				t.Errorf("Content-Type = %q; want HTML", ct)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body = %q; want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

// --- static ---

func TestRegisterStaticRoutes(t *testing.T) {
	for _, mode := range []string{gin.DebugMode, gin.ReleaseMode} {
		t.Run(mode, func(t *testing.T) {
			r := gin.New()
			if err := registerStaticRoutes(r, mode); err != nil {
				t.Fatalf("registerStaticRoutes: %v", err)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("GET /static/app.css = %d", w.Code)
			}

			cc := w.Header().Get("Cache-Control")
			if mode == gin.ReleaseMode && cc != "public, max-age=86400" {
				t.Errorf("Cache-Control = %q; want one day", cc)
			}
			if mode == gin.DebugMode && cc != "" {
				t.Errorf("Cache-Control = %q; debug assets should not be cached", cc)
			}
		})
	}
}

func TestCacheStaticHandler_SetsCacheControl(t *testing.T) {
	memFS := fstest.MapFS{
		"test.css": &fstest.MapFile{Data: []byte("body{}")},
	}

	r := gin.New()
	r.GET("/static/*filepath", cacheStaticHandler(http.FS(memFS)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/test.css", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=86400" {
		t.Errorf("Cache-Control = %q", cc)
	}
}

// --- RegisterRoutes ---

type mockModule struct {
	called bool
}

func (m *mockModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	m.called = true
	api.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "api") })
	pages.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "page") })
}

func TestRegisterRoutes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		router  *gin.Engine
		deps    *RouteDeps
		wantErr string
	}{
		{"nil_router", nil, &RouteDeps{}, "router is nil"},
		{"nil_deps", gin.New(), nil, "route dependencies are nil"},
		{"no_modules", gin.New(), &RouteDeps{Mode: gin.ReleaseMode}, "at least one module is required"},
		{"nil_module", gin.New(), &RouteDeps{Modules: []Module{&mockModule{}, nil}, Mode: gin.ReleaseMode}, "module at index 1 is nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RegisterRoutes(tt.router, tt.deps)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("RegisterRoutes() error = %v; want %q", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterRoutes_MountsGroups(t *testing.T) {
	m := &mockModule{}
	r := setupTestRouter(t)
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("metrics"))
	})
	err := RegisterRoutes(r, &RouteDeps{
		Modules:     []Module{m},
		DB:          openTestSQLiteDB(t),
		Mode:        gin.ReleaseMode,
		Metrics:     metricsHandler,
		MetricsPath: "/internal/metrics",
	})
	if err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}
	if !m.called {
		t.Fatal("expected module RegisterRoutes to be called")
	}

	for path, want := range map[string]string{
		"/api/ping":         "api",
		"/ping":             "page",
		"/internal/metrics": "metrics",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Errorf("GET %s = %d %q; want 200 %q", path, w.Code, w.Body.String(), want)
		}
	}
}

func TestRegisterRoutes_DefaultMetricsPath(t *testing.T) {
	r := setupTestRouter(t)
	err := RegisterRoutes(r, &RouteDeps{
		Modules: []Module{&mockModule{}},
		Mode:    gin.ReleaseMode,
		Metrics: http.NotFoundHandler(),
	})
	if err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}

	found := false
	for _, route := range r.Routes() {
		if route.Method == http.MethodGet && route.Path == "/metrics" {
			found = true
		}
	}
	if !found {
		t.Error("expected metrics at /metrics when no path is configured")
	}
}

package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/techiral/go-content-backend/internal/config"
	"github.com/techiral/go-content-backend/internal/store"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.OpenBadgerInMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.Config{
		APIBasePath: "/api",
		Upstream: config.UpstreamConfig{
			APIKey:  "k",
			BaseURL: "http://upstream.invalid",
			Model:   "m",
			Timeout: time.Second,
		},
		Secondary: config.SecondaryConfig{APIKey: "k2", BaseURL: "http://secondary.invalid"},
	}
	cfg.OTEL.ServiceName = "content-backend-test"

	r := gin.New()
	RegisterRoutes(r, st, cfg)
	return r
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	r := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/health status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("/health body = %s", w.Body.String())
	}
	if acao := w.Header().Get("Access-Control-Allow-Origin"); acao != "*" {
		t.Fatalf("ACAO = %q, want * with no configured origins", acao)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d", w.Code)
	}
}

func TestFallbackEnvelopes(t *testing.T) {
	r := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown route status = %d", w.Code)
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "not_found" {
		t.Fatalf("code = %q", resp.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("bad method status = %d", w.Code)
	}
}

func TestRelayMethodNotAllowedShape(t *testing.T) {
	r := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/relay", strings.NewReader("{}")))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Method Not Allowed" {
		t.Fatalf("relay 405 kept the envelope shape: %v", body)
	}
}

func TestContentRoutesMounted(t *testing.T) {
	r := testRouter(t)

	// Empty store lists still answer 200 with a pagination envelope.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("/api/videos status = %d: %s", w.Code, w.Body.String())
	}

	// Upsert through the mounted route, read it back.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/videos/v1",
		strings.NewReader(`{"title":"T","transcript":"words"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/videos/v1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

}

func TestRelayPreflight(t *testing.T) {
	r := testRouter(t)

	// A browser preflight carries an Origin header and is answered by the
	// CORS middleware before the relay handler runs.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/relay", nil)
	req.Header.Set("Origin", "https://site.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", w.Code)
	}
	if acao := w.Header().Get("Access-Control-Allow-Origin"); acao != "*" {
		t.Fatalf("ACAO = %q, want *", acao)
	}

	// A header-less OPTIONS probe falls through to the relay handler.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/relay", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("plain OPTIONS status = %d, want 200", w.Code)
	}
}

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// swapLogger redirects the global logger to a buffer for one test.
func swapLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

func loggedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(Logger())
	return r
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/videos", func(c *gin.Context) {
		if v, ok := c.Get(requestIDKey); !ok || v == "" {
			t.Fatalf("request id missing from context")
		}
		c.Status(http.StatusOK)
	})

	t.Run("generated when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/videos", nil))
		if w.Header().Get(requestIDHeader) == "" {
			t.Fatalf("expected generated %s header", requestIDHeader)
		}
	})

	t.Run("inbound id propagated", func(t *testing.T) {
		for _, hdr := range []string{requestIDHeader, strings.ToLower(requestIDHeader)} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/videos", nil)
			req.Header.Set(hdr, "req-778899")
			r.ServeHTTP(w, req)
			if got := w.Header().Get(requestIDHeader); got != "req-778899" {
				t.Fatalf("header %s: propagated id = %q, want req-778899", hdr, got)
			}
		}
	})
}

type failSentinel struct{}

func (failSentinel) Error() string { return "boom" }

func TestLogger_LevelsAndPathFallback(t *testing.T) {
	buf := swapLogger(t)

	r := loggedRouter()
	r.GET("/videos/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/broken", func(c *gin.Context) {
		_ = c.Error(failSentinel{})
		c.Status(http.StatusBadRequest)
	})

	for _, path := range []string{"/videos/v42", "/nowhere", "/broken"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	logs := buf.String()
	// 200 logs at info with the route pattern, not the concrete path.
	if !strings.Contains(logs, `"level":"info"`) || !strings.Contains(logs, `"path":"/videos/:id"`) {
		t.Fatalf("expected info log with route pattern, got:\n%s", logs)
	}
	// 404 has no route pattern; the raw URL is the fallback. Warn level.
	if !strings.Contains(logs, `"level":"warn"`) || !strings.Contains(logs, `"path":"/nowhere"`) {
		t.Fatalf("expected warn log with raw path, got:\n%s", logs)
	}
	// Attached gin errors escalate to error level.
	if !strings.Contains(logs, `"level":"error"`) {
		t.Fatalf("expected error log, got:\n%s", logs)
	}
	// The API is anonymous: no caller identity field should ever appear.
	if strings.Contains(logs, `"user_id"`) {
		t.Fatalf("unexpected user identity in logs:\n%s", logs)
	}
}

func TestRecovery_PanicBecomesJSON500(t *testing.T) {
	buf := swapLogger(t)

	r := loggedRouter()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	if body["code"] != "internal_error" || body["message"] != "internal server error" {
		t.Fatalf("unexpected body: %v", body)
	}
	if out := buf.String(); !strings.Contains(out, "panic recovered") && !strings.Contains(out, `"panic"`) {
		t.Fatalf("expected panic log, got:\n%s", out)
	}
}

func TestRecovery_PanicAfterWrite(t *testing.T) {
	buf := swapLogger(t)

	r := loggedRouter()
	r.Use(Recovery())
	// Once bytes are on the wire Recovery must not append a JSON body.
	// This matters for the relay: a panic mid-stream cannot be "fixed".
	r.GET("/stream", func(c *gin.Context) {
		c.String(http.StatusOK, "data: {}\n\n")
		panic("late kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream", nil))

	if strings.Contains(w.Body.String(), "internal error") ||
		strings.Contains(strings.ToLower(w.Header().Get("Content-Type")), "application/json") {
		t.Fatalf("JSON error body written after partial response: CT=%q body=%q",
			w.Header().Get("Content-Type"), w.Body.String())
	}
	if out := buf.String(); !strings.Contains(out, "panic recovered") && !strings.Contains(out, `"panic"`) {
		t.Fatalf("expected panic log, got:\n%s", out)
	}
}

func TestLoggerFrom(t *testing.T) {
	t.Run("fallback without Logger middleware", func(t *testing.T) {
		buf := swapLogger(t)
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.Use(RequestID())
		r.GET("/use", func(c *gin.Context) {
			LoggerFrom(c).Info().Msg("custom")
			c.Status(http.StatusOK)
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/use", nil))
		out := buf.String()
		if !strings.Contains(out, `"message":"custom"`) {
			t.Fatalf("missing custom log:\n%s", out)
		}
		if strings.Contains(out, `"request_id"`) {
			t.Fatalf("fallback logger unexpectedly request-scoped:\n%s", out)
		}
	})

	t.Run("request-scoped with Logger middleware", func(t *testing.T) {
		buf := swapLogger(t)
		r := loggedRouter()
		r.GET("/use", func(c *gin.Context) {
			LoggerFrom(c).Info().Msg("custom2")
			c.Status(http.StatusOK)
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/use", nil))
		out := buf.String()
		if !strings.Contains(out, `"message":"custom2"`) || !strings.Contains(out, `"request_id"`) {
			t.Fatalf("expected request-scoped log with request_id:\n%s", out)
		}
	})
}

func Test_asString_truncate(t *testing.T) {
	if asString("x") != "x" || asString(123) != "" {
		t.Fatalf("asString failed")
	}
	if truncate("hello", 10) != "hello" {
		t.Fatalf("truncate no-op failed")
	}
	if got := truncate("abcdefgh", 5); got != "abcde…" {
		t.Fatalf("truncate = %q, want %q", got, "abcde…")
	}
	if truncate("abc", 0) != "abc" {
		t.Fatalf("truncate with max<=0 should be a no-op")
	}
}

package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// secRequest runs one GET through a router with the given options and an
// optional pre-middleware, returning the response headers.
func secRequest(t *testing.T, opt SecurityOptions, pre gin.HandlerFunc, handler gin.HandlerFunc, mutate func(*http.Request)) http.Header {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if pre != nil {
		r.Use(pre)
	}
	r.Use(SecurityHeaders(opt))
	if handler == nil {
		handler = func(c *gin.Context) { c.Status(http.StatusOK) }
	}
	r.GET("/api/videos", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	if mutate != nil {
		mutate(req)
	}
	r.ServeHTTP(w, req)
	return w.Header()
}

func TestSecurityHeaders_Baseline(t *testing.T) {
	h := secRequest(t, SecurityOptions{}, nil, nil, nil)

	for name, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "no-referrer",
	} {
		if got := h.Get(name); got != want {
			t.Fatalf("%s = %q, want %q", name, got, want)
		}
	}
	// Optional headers stay off by default.
	for _, name := range []string{
		"Permissions-Policy", "X-Permitted-Cross-Domain-Policies",
		"Cache-Control", "Pragma", "Expires", "Strict-Transport-Security",
	} {
		if got := h.Get(name); got != "" {
			t.Fatalf("unexpected %s = %q", name, got)
		}
	}
}

func TestSecurityHeaders_ExposesRequestID(t *testing.T) {
	setRID := func(rid, expose string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Header("X-Request-ID", rid)
			if expose != "" {
				c.Header("Access-Control-Expose-Headers", expose)
			}
			c.Next()
		}
	}

	cases := []struct {
		name     string
		existing string
		want     string
	}{
		{"added when absent", "", "X-Request-ID"},
		{"appended to existing", "Foo", "Foo, X-Request-ID"},
		{"not duplicated", "X-Request-ID, Foo", "X-Request-ID, Foo"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := secRequest(t, SecurityOptions{}, setRID("rid-1", tc.existing), nil, nil)
			if got := h.Get("Access-Control-Expose-Headers"); got != tc.want {
				t.Fatalf("expose header = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSecurityHeaders_AllOptionsOverTLS(t *testing.T) {
	h := secRequest(t, SecurityOptions{
		EnableHSTS:   true,
		HSTSMaxAge:   24 * time.Hour,
		NoStore:      true,
		EnablePolicy: true,
	}, nil, nil, func(req *http.Request) {
		req.TLS = &tls.ConnectionState{}
	})

	if h.Get("Permissions-Policy") == "" || h.Get("X-Permitted-Cross-Domain-Policies") != "none" {
		t.Fatalf("missing policy headers: %#v", h)
	}
	if h.Get("Cache-Control") != "no-store" || h.Get("Pragma") != "no-cache" || h.Get("Expires") != "0" {
		t.Fatalf("missing cache headers: %#v", h)
	}
	if got, want := h.Get("Strict-Transport-Security"), "max-age=86400; includeSubDomains; preload"; got != want {
		t.Fatalf("HSTS = %q, want %q", got, want)
	}
}

func TestSecurityHeaders_HSTSBehindProxy(t *testing.T) {
	h := secRequest(t, SecurityOptions{EnableHSTS: true, HSTSMaxAge: time.Hour}, nil, nil,
		func(req *http.Request) { req.Header.Set("X-Forwarded-Proto", "https") })
	if got := h.Get("Strict-Transport-Security"); !strings.HasPrefix(got, "max-age=") {
		t.Fatalf("expected HSTS header, got %q", got)
	}

	// Plain HTTP must never receive HSTS even when enabled.
	h = secRequest(t, SecurityOptions{EnableHSTS: true, HSTSMaxAge: time.Hour}, nil, nil, nil)
	if got := h.Get("Strict-Transport-Security"); got != "" {
		t.Fatalf("HSTS on plain HTTP: %q", got)
	}
}

// Handlers that stream (the relay) set their own Cache-Control after this
// middleware runs; the handler value must win even with NoStore enabled.
func TestSecurityHeaders_HandlerCacheControlWins(t *testing.T) {
	h := secRequest(t, SecurityOptions{NoStore: true}, nil, func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache")
		c.String(http.StatusOK, "data: {}\n\n")
	}, nil)
	if got := h.Get("Cache-Control"); got != "no-cache" {
		t.Fatalf("Cache-Control = %q, want handler override no-cache", got)
	}
}

func Test_isHTTPS(t *testing.T) {
	plain := httptest.NewRequest(http.MethodGet, "/", nil)
	if isHTTPS(plain) {
		t.Fatalf("plain HTTP reported as https")
	}

	tlsReq := httptest.NewRequest(http.MethodGet, "/", nil)
	tlsReq.TLS = &tls.ConnectionState{}
	if !isHTTPS(tlsReq) {
		t.Fatalf("TLS request not reported as https")
	}

	fwd := httptest.NewRequest(http.MethodGet, "/", nil)
	fwd.Header.Set("X-Forwarded-Proto", "HTTPS")
	if !isHTTPS(fwd) {
		t.Fatalf("forwarded https not reported as https")
	}
}

func Test_itoa(t *testing.T) {
	for _, v := range []int{0, 1, 9, 10, 42, 86400, 1234567890, -1, -42} {
		if got, want := itoa(v), strconv.Itoa(v); got != want {
			t.Fatalf("itoa(%d) = %q, want %q", v, got, want)
		}
	}
}

// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, and security headers.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - The relay routes stay outside the gzip group: compressing an SSE
//     response would buffer it and break token-by-token delivery
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/techiral/go-content-backend/internal/config"
	"github.com/techiral/go-content-backend/internal/http/handlers"
	"github.com/techiral/go-content-backend/internal/http/middleware"
	"github.com/techiral/go-content-backend/internal/llm"
	"github.com/techiral/go-content-backend/internal/relay"
	"github.com/techiral/go-content-backend/internal/services"
	"github.com/techiral/go-content-backend/internal/store"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), CORS and security
// headers, health and metrics endpoints, and then mounts the public API under
// cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with credential scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. CORS and security headers
func RegisterRoutes(r *gin.Engine, st store.Store, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction. The relay endpoints carry no
	// client credentials, but masking the auth headers keeps accidental
	// forwarding out of the logs.
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"Authorization",
			"X-API-Key",
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services over the store and upstream clients.
	llmClient := llm.New(cfg.Upstream)
	genSvc := services.NewGenerationService(st, llmClient)
	chatSvc := services.NewChatService(st, llmClient)
	h := handlers.New(st, genSvc, chatSvc)
	rh := handlers.NewRelay(relay.NewClient(cfg.Upstream), relay.NewSecondary(cfg.Secondary), st)

	base := cfg.APIBasePath

	// Relay surface: no gzip, no response buffering of any kind.
	rr := groupWithPrefix(r, base)
	{
		rr.POST("/relay", rh.Proxy)
		rr.GET("/relay", rh.SecondaryProxy)
		// Browser preflights (OPTIONS with an Origin header) are answered
		// 204 by the CORS middleware before reaching this handler; only
		// header-less OPTIONS probes get its 200.
		rr.OPTIONS("/relay", rh.Preflight)
		for _, m := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead} {
			rr.Handle(m, "/relay", rh.MethodNotAllowed)
		}
	}

	// Content and chat API (JSON only, safe to compress)
	api := groupWithPrefix(r, base)
	api.Use(gzip.Gzip(gzip.DefaultCompression))
	{
		// Videos
		api.GET("/videos", h.ListVideos)
		api.GET("/videos/:id", h.GetVideo)
		api.PUT("/videos/:id", h.PutVideo)
		api.DELETE("/videos/:id", h.DeleteVideo)
		api.POST("/videos/:id/generate", h.GenerateVideoMetadata)
		api.POST("/videos/:id/faqs", h.GenerateVideoFAQs)
		api.POST("/videos/:id/faqs/more", h.GenerateMoreVideoFAQs)

		// Blogs
		api.GET("/blogs", h.ListBlogs)
		api.GET("/blogs/:id", h.GetBlog)
		api.PUT("/blogs/:id", h.PutBlog)
		api.DELETE("/blogs/:id", h.DeleteBlog)
		api.POST("/blogs/:id/generate", h.GenerateBlogMetadata)

		// Chat sessions
		api.POST("/chat/sessions", h.CreateSession)
		api.GET("/chat/sessions/:id/messages", h.ListSessionMessages)
		api.POST("/chat/sessions/:id/messages", h.SendMessage)
		api.DELETE("/chat/sessions/:id", h.EndSession)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

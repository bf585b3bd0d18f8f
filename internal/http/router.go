// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, and rate limiting.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/careline/clinic-backend/internal/config"
	"github.com/careline/clinic-backend/internal/domain"
	"github.com/careline/clinic-backend/internal/http/handlers"
	"github.com/careline/clinic-backend/internal/http/middleware"
	"github.com/careline/clinic-backend/internal/intent"
	"github.com/careline/clinic-backend/internal/repo"
	"github.com/careline/clinic-backend/internal/services"
)

// adminRepoShim adapts the repository free functions to the services.AdminRepo
// interface expected by AuthService. This keeps services decoupled from the
// concrete repo package while reusing the existing functions.
type adminRepoShim struct{}

func (adminRepoShim) FindAdminByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.Admin, error) {
	return repo.FindAdminByUsername(ctx, db, username)
}

func (adminRepoShim) CreateAdmin(ctx context.Context, db *gorm.DB, username, passwordHash string) (*domain.Admin, error) {
	return repo.CreateAdmin(ctx, db, username, passwordHash)
}

// chatRepoShim adapts the repository free functions to services.ChatRepo.
type chatRepoShim struct{}

func (chatRepoShim) InsertMessage(ctx context.Context, db *gorm.DB, m *domain.ChatMessage) (*domain.ChatMessage, error) {
	return repo.InsertMessage(ctx, db, m)
}

func (chatRepoShim) ListConversation(ctx context.Context, db *gorm.DB, userID string) ([]domain.ChatMessage, error) {
	return repo.ListConversation(ctx, db, userID)
}

func (chatRepoShim) ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]domain.ChatMessage, error) {
	return repo.ListRecent(ctx, db, limit)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine: observability, rate limiting, CORS and security headers, health and
// metrics endpoints, and the public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. Rate limiter (per admin/IP)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cls *intent.Classifier, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compress JSON responses
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per admin/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	corsHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization"}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     corsHeaders,
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

	// Dependency injection: services ← repo/db/classifier
	authSvc := services.NewAuthService(db, adminRepoShim{}, []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL, cfg.Auth.BcryptCost)
	chatSvc := services.NewChatService(db, chatRepoShim{}, cls)
	chatSvc.RecentDefault = cfg.RecentDefault
	chatSvc.RecentMax = cfg.RecentMax
	docSvc := &services.DoctorService{DB: db}
	h := handlers.New(authSvc, chatSvc, docSvc)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api"
	{
		// Admin session
		api.POST("/admin/login", h.Login)

		// Chat log
		api.POST("/chat/messages", h.PostMessage)
		api.GET("/chat/messages", h.ListConversation)
		api.POST("/chat/suggest", h.Suggest)

		// Doctor directory
		api.GET("/doctors", h.ListDoctors)

		// Support view, admin session required
		secured := api.Group("", middleware.RequireAdmin([]byte(cfg.Auth.JWTSecret)))
		secured.GET("/chat/messages/recent", h.ListRecent)
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

// Package router assembles the gin engine and its route table.
package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ingrediguard/internal/allergy"
	"ingrediguard/internal/auth"
	"ingrediguard/internal/menu"
	"ingrediguard/internal/metrics"
	"ingrediguard/internal/middleware"
	"ingrediguard/internal/ocr"
	"ingrediguard/internal/settings"
	"ingrediguard/internal/version"
)

// Deps carries everything the route table needs.
type Deps struct {
	Log         *zap.Logger
	Metrics     *metrics.Metrics
	CORSOrigins []string
	// MetricsHandler serves /metrics when non-nil.
	MetricsHandler http.Handler
	// Ping reports database health for /health.
	Ping func(ctx context.Context) error

	Tokens   middleware.TokenValidator
	Allergy  *allergy.Handler
	Menu     *menu.Handler
	Auth     *auth.Handler
	OCR      *ocr.Handler
	Settings *settings.Handler
}

func NewRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	m := d.Metrics
	if m == nil {
		m = metrics.NewUnregistered()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.Metrics(m))

	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// ───────────────────────── PUBLIC ─────────────────────────
	r.GET("/health", health(d.Ping))
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": version.String(), "short": version.Short()})
	})
	if d.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(d.MetricsHandler))
	}

	r.POST("/auth/login", d.Auth.Login)

	r.GET("/allergens", d.Allergy.Categories)
	r.POST("/allergy/check", d.Allergy.CheckMenu)
	r.POST("/allergy/filter", d.Allergy.FilterItems)
	r.GET("/menu", d.Menu.List)

	// ───────────────────────── ADMIN ─────────────────────────
	admin := r.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(d.Tokens),
		middleware.RequireRole(auth.RoleAdmin),
	)
	{
		// Menu
		admin.POST("/menu", d.Menu.Add)
		admin.DELETE("/menu", d.Menu.Clear)
		admin.DELETE("/menu/:id", d.Menu.Delete)
		admin.POST("/menu/import", d.Menu.Import)
		admin.GET("/menu/export", d.Menu.Export)

		// OCR uploads
		admin.POST("/menu/uploads", d.OCR.Upload)
		admin.GET("/menu/uploads/:id", d.OCR.Status)
		admin.POST("/menu/uploads/:id/retry", d.OCR.Retry)

		// Users
		admin.GET("/users", d.Auth.ListUsers)
		admin.POST("/users", d.Auth.CreateUser)
		admin.POST("/users/reset", d.Auth.Reset)
		admin.PATCH("/users/:id/status", d.Auth.SetStatus)
		admin.PATCH("/users/:id/admin", d.Auth.SetAdmin)
		admin.PUT("/users/:id/password", d.Auth.ChangePassword)

		// Settings
		admin.GET("/settings/ocr-key", d.Settings.GetOCRKey)
		admin.PUT("/settings/ocr-key", d.Settings.SetOCRKey)
	}

	return r
}

func health(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.String()})
	}
}

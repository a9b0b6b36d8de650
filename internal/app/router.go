package app

import (
	"time"

	"thinkdrills_backend/internal/config"
	"thinkdrills_backend/internal/middleware"
	"thinkdrills_backend/internal/model"
	"thinkdrills_backend/pkg/monitoring"
	"thinkdrills_backend/pkg/security"

	"github.com/gin-gonic/gin"
)

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(monitoring.MetricsMiddleware())

	if cfg.RateLimit.MaxRequests > 0 {
		window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
		if window <= 0 {
			window = time.Minute
		}
		router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))
	}

	// Page-level gate: redirects browsers hitting /student/* or /parent/*
	// pages without the right session. The /api group below does its own
	// token enforcement and returns JSON errors instead.
	router.Use(middleware.RouteGuard(cfg))
}

func (a *App) registerRoutes(router *gin.Engine, ctrls *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", ctrls.health.HealthCheck)

		// Authentication, no token required.
		api.POST("/register", ctrls.auth.Register)
		api.POST("/login", ctrls.auth.LoginParent)
		api.POST("/student/login", ctrls.auth.LoginStudent)
		api.POST("/forgot-password", ctrls.auth.ForgotPassword)
		api.GET("/validate-reset-token", ctrls.auth.ValidateResetToken)
		api.POST("/reset-password", ctrls.auth.ResetPassword)

		authorized := api.Group("")
		authorized.Use(middleware.AuthMiddleware(cfg))
		{
			// Worksheet browsing is shared: students see their own,
			// parents review their children's.
			authorized.GET("/worksheets/:id", ctrls.worksheet.Get)

			student := authorized.Group("")
			student.Use(middleware.RoleMiddleware(model.RoleStudent))
			{
				student.POST("/worksheets", ctrls.worksheet.Generate)
				student.GET("/worksheets", ctrls.worksheet.List)
				student.PUT("/worksheets", ctrls.worksheet.Update)
			}

			parent := authorized.Group("")
			parent.Use(middleware.RoleMiddleware(model.RoleParent))
			{
				parent.GET("/parent/profile", ctrls.parent.Profile)
				parent.DELETE("/parent/account", ctrls.parent.DeleteAccount)

				parent.POST("/students", ctrls.student.Create)
				parent.GET("/students", ctrls.student.List)
				parent.GET("/students/:id", ctrls.student.Get)
				parent.PUT("/students/:id", ctrls.student.Update)
				parent.PUT("/students/:id/password", ctrls.student.ResetPassword)
				parent.DELETE("/students/:id", ctrls.student.Delete)

				parent.GET("/reports", ctrls.report.Reports)
			}
		}
	}
}

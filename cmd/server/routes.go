package main

import (
	"github.com/gin-gonic/gin"
	"github.com/onebase1/guestglow-backend/internal/handlers"
	"github.com/onebase1/guestglow-backend/internal/middleware"
	"github.com/onebase1/guestglow-backend/internal/models"
	"github.com/onebase1/guestglow-backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	db := models.GetDB()
	cfg := svc.cfg

	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for the public, unauthenticated surface
	publicLimiter := middleware.NewRateLimiter(10, 20)

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	// Token redemption links land here from approver emails; the page is
	// plain HTML so it works from any mail client.
	approvalHandler := handlers.NewApprovalHandler(db, cfg)
	r.GET("/approval/redeem", approvalHandler.Redeem)

	// API routes
	api := r.Group("/api/v1")
	{
		feedbackHandler := handlers.NewFeedbackHandler(db)
		tenantHandler := handlers.NewTenantHandler(db)
		qrHandler := handlers.NewQRCodeHandler(cfg)

		// Public routes (guest-facing, rate limited)
		public := api.Group("", publicLimiter.Middleware())
		{
			public.POST("/feedback", feedbackHandler.Submit)
			public.GET("/tenants/:slug/branding", tenantHandler.GetBranding)
			public.GET("/qr/feedback", qrHandler.FeedbackQR)
		}

		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", svc.authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		protected.Use(middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Feedback lifecycle
			protected.GET("/feedback", feedbackHandler.List)
			protected.GET("/feedback/:id", feedbackHandler.Get)
			protected.POST("/feedback/:id/acknowledge", feedbackHandler.Acknowledge)
			protected.POST("/feedback/:id/start", feedbackHandler.StartProgress)
			protected.POST("/feedback/:id/resolve", feedbackHandler.Resolve)

			// Risk assessment
			riskHandler := handlers.NewRiskHandler(db, cfg)
			protected.POST("/risk/assess", riskHandler.Assess)
			protected.POST("/risk/assess-and-record", riskHandler.AssessAndRecord)

			// Response generation
			respondentHandler := handlers.NewRespondentHandler(db, cfg)
			protected.POST("/responses/generate", respondentHandler.Generate)
			protected.POST("/responses/generate-ai", respondentHandler.GenerateAI)
			protected.POST("/responses/detect-issues", respondentHandler.DetectIssues)

			// Approvals
			protected.GET("/approvals", approvalHandler.ListPending)
			protected.GET("/approvals/:id", approvalHandler.Get)

			// Escalation
			escalationHandler := handlers.NewEscalationHandler(db, cfg)
			protected.POST("/escalations/check", escalationHandler.RunCheck)
			protected.GET("/escalations/stats", escalationHandler.Stats)
			protected.GET("/escalations/rules", escalationHandler.ListRules)
			protected.POST("/escalations/rules", escalationHandler.UpsertRule)

			// Email dispatch
			emailHandler := handlers.NewEmailHandler(db, cfg)
			protected.POST("/emails/send", emailHandler.Send)
			protected.GET("/emails/history", emailHandler.History)
			protected.GET("/emails/senders", emailHandler.Senders)

			// External reviews
			reviewHandler := handlers.NewReviewHandler(db, cfg)
			protected.POST("/reviews/sync", reviewHandler.Sync)
			protected.GET("/reviews", reviewHandler.List)
			protected.GET("/reviews/:id", reviewHandler.Get)
			protected.POST("/reviews/:id/responses", reviewHandler.CreateDraft)
			protected.GET("/reviews/:id/responses", reviewHandler.ListResponses)
			protected.POST("/review-responses/:id/status", reviewHandler.SetResponseStatus)

			// Rating goals
			goalHandler := handlers.NewGoalHandler(db)
			protected.POST("/goals", goalHandler.SetGoal)
			protected.GET("/goals", goalHandler.ListGoals)
			protected.GET("/goals/progress", goalHandler.ProgressHistory)

			// Dashboard
			dashboardHandler := handlers.NewDashboardHandler(db)
			protected.GET("/dashboard/stats", dashboardHandler.GetStats)

			// Admin-only routes
			admin := protected.Group("/admin")
			admin.Use(middleware.AdminRequired())
			{
				admin.GET("/tenants", tenantHandler.List)
				admin.POST("/tenants", tenantHandler.Create)
				admin.PUT("/tenants/:id", tenantHandler.Update)

				settingsHandler := handlers.NewSettingsHandler(db)
				admin.GET("/settings", settingsHandler.GetGroup)
				admin.PUT("/settings", settingsHandler.Set)
				admin.GET("/settings/countries", settingsHandler.Countries)

				systemLogHandler := handlers.NewSystemLogHandler(db)
				admin.GET("/logs", systemLogHandler.List)
				admin.GET("/logs/modules", systemLogHandler.GetModules)
				admin.GET("/logs/retention", systemLogHandler.GetRetention)
				admin.PUT("/logs/retention", systemLogHandler.SetRetention)
				admin.POST("/logs/cleanup", systemLogHandler.Cleanup)
			}
		}
	}
}

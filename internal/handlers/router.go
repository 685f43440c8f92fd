package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learnhub-service/internal/auth"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/services"
	"github.com/SAP-F-2025/learnhub-service/internal/utils"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

type HandlerManager struct {
	authHandler      *AuthHandler
	userHandler      *UserHandler
	videoHandler     *VideoHandler
	contentHandler   *ContentHandler
	learningHandler  *LearningHandler
	uploadHandler    *UploadHandler
	dashboardHandler *DashboardHandler
	viewHandler      *ViewHandler
	authMiddleware   *AuthMiddleware
	guard            *auth.RoleGuard
	health           func(ctx context.Context) error
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	sessions Sessions,
	uploader Uploader,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	guard := auth.NewRoleGuard(nil)

	return &HandlerManager{
		authHandler:      NewAuthHandler(sessions, guard, validator, logger),
		userHandler:      NewUserHandler(serviceManager.User(), sessions, validator, logger),
		videoHandler:     NewVideoHandler(serviceManager.Video(), serviceManager.Comment(), logger),
		contentHandler:   NewContentHandler(serviceManager.Challenge(), serviceManager.Event(), serviceManager.Category(), logger),
		learningHandler:  NewLearningHandler(serviceManager.Roadmap(), serviceManager.Assist(), logger),
		uploadHandler:    NewUploadHandler(uploader, logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), serviceManager.Export(), logger),
		viewHandler:      NewViewHandler(serviceManager.View(), logger),
		authMiddleware:   NewAuthMiddleware(sessions, guard, logger),
		guard:            guard,
		health:           serviceManager.HealthCheck,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	am := hm.authMiddleware
	authors := am.RequireRole(models.RoleTeacher)
	admins := am.RequireRole(models.RoleAdmin)

	// Role landing pages redirect instead of answering 401/403
	router.GET("/admin/*page", am.Landing(models.RoleAdmin), hm.viewHandler.Landing(hm.guard))
	router.GET("/teacher/*page", am.Landing(models.RoleTeacher), hm.viewHandler.Landing(hm.guard))
	router.GET("/learner/*page", am.Landing(models.RoleLearner), hm.viewHandler.Landing(hm.guard))

	v1 := router.Group("/api/v1")

	// Auth routes
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/signin", hm.authHandler.SignIn)
		authGroup.POST("/signout", am.RequireAuth(), hm.authHandler.SignOut)
		authGroup.GET("/me", am.RequireAuth(), hm.authHandler.Me)
	}

	// Public reads; a signed-in caller gets their own engagement flags
	public := v1.Group("")
	public.Use(am.OptionalAuth())
	{
		public.GET("/videos", hm.videoHandler.ListVideos)
		public.GET("/videos/:id", hm.videoHandler.GetVideo)
		public.POST("/videos/:id/view", hm.videoHandler.RecordView)
		public.GET("/videos/:id/comments", hm.videoHandler.ListComments)
		public.GET("/videos/:id/comments/:cid/replies", hm.videoHandler.ListReplies)

		public.GET("/challenges", hm.contentHandler.ListChallenges)
		public.GET("/challenges/:id", hm.contentHandler.GetChallenge)
		public.GET("/events", hm.contentHandler.ListEvents)
		public.GET("/events/:id", hm.contentHandler.GetEvent)
		public.GET("/categories", hm.contentHandler.ListCategories)
	}

	protected := v1.Group("")
	protected.Use(am.RequireAuth())
	{
		// User routes
		users := protected.Group("/users")
		{
			users.GET("", admins, hm.userHandler.ListUsers)
			users.GET("/directory", admins, hm.userHandler.Directory)
			users.GET("/me/preferences", hm.userHandler.ListPreferences)
			users.POST("/me/preferences", hm.userHandler.AddPreference)
			users.DELETE("/me/preferences/:categoryId", hm.userHandler.RemovePreference)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PUT("/:id", hm.userHandler.UpdateProfile)
			users.DELETE("/:id", admins, hm.userHandler.DeleteUser)
		}

		// Video routes
		videos := protected.Group("/videos")
		{
			videos.POST("", authors, hm.videoHandler.CreateVideo)
			videos.PUT("/:id", authors, hm.videoHandler.UpdateVideo)
			videos.DELETE("/:id", authors, hm.videoHandler.DeleteVideo)

			videos.POST("/:id/like", hm.videoHandler.ToggleLike)
			videos.POST("/:id/bookmark", hm.videoHandler.ToggleBookmark)
			videos.POST("/:id/rate", hm.videoHandler.RateVideo)
			videos.POST("/:id/report", hm.videoHandler.ReportVideo)
			videos.GET("/:id/reports", authors, hm.videoHandler.ListReports)

			videos.POST("/:id/comments", hm.videoHandler.AddComment)
			videos.DELETE("/:id/comments/:cid", hm.videoHandler.DeleteComment)
			videos.POST("/:id/comments/:cid/replies", hm.videoHandler.AddReply)
		}

		// Challenge routes
		challenges := protected.Group("/challenges")
		challenges.Use(authors)
		{
			challenges.POST("", hm.contentHandler.CreateChallenge)
			challenges.PUT("/:id", hm.contentHandler.UpdateChallenge)
			challenges.DELETE("/:id", hm.contentHandler.DeleteChallenge)
		}

		// Event routes
		events := protected.Group("/events")
		events.Use(authors)
		{
			events.POST("", hm.contentHandler.CreateEvent)
			events.PUT("/:id", hm.contentHandler.UpdateEvent)
			events.DELETE("/:id", hm.contentHandler.DeleteEvent)
		}

		// Category routes
		categories := protected.Group("/categories")
		categories.Use(admins)
		{
			categories.POST("", hm.contentHandler.CreateCategory)
			categories.DELETE("/:id", hm.contentHandler.DeleteCategory)
		}

		// Roadmap routes
		roadmaps := protected.Group("/roadmaps")
		{
			roadmaps.GET("", hm.learningHandler.ListRoadmaps)
			roadmaps.POST("/generate", hm.learningHandler.GenerateRoadmap)
			roadmaps.GET("/:id", hm.learningHandler.GetRoadmap)
			roadmaps.DELETE("/:id", hm.learningHandler.DeleteRoadmap)
			roadmaps.POST("/:id/steps/:sid/toggle", hm.learningHandler.ToggleStep)
		}

		// Learning assist routes
		assist := protected.Group("/assist")
		{
			assist.POST("/summarize", hm.learningHandler.Summarize)
			assist.POST("/key-points", hm.learningHandler.KeyPoints)
			assist.POST("/stream", hm.learningHandler.StreamSummary)
		}

		// Upload routes
		protected.POST("/uploads/:kind", hm.uploadHandler.Upload)

		// Dashboard routes
		dashboard := protected.Group("/dashboard")
		{
			dashboard.GET("/admin", admins, hm.dashboardHandler.GetAdminStats)
			dashboard.GET("/teacher", authors, hm.dashboardHandler.GetTeacherStats)
			dashboard.GET("/learner", hm.dashboardHandler.GetLearnerHome)
			dashboard.GET("/export/:entity", admins, hm.dashboardHandler.Export)
		}

		// List view routes
		views := protected.Group("/views")
		{
			views.GET("/:entity", hm.viewHandler.Query)
			views.GET("/:entity/stream", hm.viewHandler.Stream)
			views.PUT("/pages/:pid/filters", hm.viewHandler.SetFilters)
			views.DELETE("/pages/:pid/records/:rid", hm.viewHandler.RemoveRecord)
			views.DELETE("/pages/:pid", hm.viewHandler.ClosePage)
		}
	}
}

// HealthCheck reports whether the store and cache are reachable
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := hm.health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "learnhub-service",
	})
}

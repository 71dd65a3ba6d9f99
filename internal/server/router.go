package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/trainhub/trainhub-backend/internal/handlers"
	"github.com/trainhub/trainhub-backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string

	AuthMiddleware *middleware.AuthMiddleware

	HealthcheckHandler  *handlers.HealthcheckHandler
	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	SessionHandler      *handlers.SessionHandler
	RegistrationHandler *handlers.RegistrationHandler
	CourseHandler       *handlers.CourseHandler
	ContentHandler      *handlers.ContentHandler
	CompletionHandler   *handlers.CompletionHandler
	CategoryHandler     *handlers.CategoryHandler
	NotificationHandler *handlers.NotificationHandler
	DashboardHandler    *handlers.DashboardHandler
	FeedbackHandler     *handlers.FeedbackHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("trainhub-backend"))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	router.POST("/api/register", cfg.AuthHandler.Register)
	router.POST("/api/login", cfg.AuthHandler.Login)
	router.POST("/api/refresh", cfg.AuthHandler.Refresh)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	api.POST("/logout", cfg.AuthHandler.Logout)

	api.GET("/users/me", cfg.UserHandler.GetProfile)
	api.PUT("/users/me", cfg.UserHandler.UpdateProfile)
	api.POST("/users/me/avatar", cfg.UserHandler.UpdateAvatar)
	api.GET("/users", cfg.UserHandler.ListUsers)

	api.GET("/training-sessions", cfg.SessionHandler.List)
	api.POST("/training-sessions", cfg.SessionHandler.Create)
	api.GET("/training-sessions/:id", cfg.SessionHandler.Get)
	api.PUT("/training-sessions/:id", cfg.SessionHandler.Update)
	api.DELETE("/training-sessions/:id", cfg.SessionHandler.Archive)
	api.GET("/training-sessions/:id/feedback", feedbackBySession(cfg.FeedbackHandler))
	api.GET("/training-sessions/:id/registrations", registrationsBySession(cfg.RegistrationHandler))
	api.GET("/training-sessions/:id/courses", coursesBySession(cfg.CourseHandler))
	api.POST("/training-sessions/:id/courses", createCourse(cfg.CourseHandler))
	api.POST("/training-sessions/:id/enroll", enroll(cfg.RegistrationHandler))
	api.GET("/training-sessions/:id/eligibility", eligibility(cfg.RegistrationHandler))

	api.GET("/registrations", cfg.RegistrationHandler.ListMine)
	api.GET("/registrations/status/pending", cfg.RegistrationHandler.ListPending)
	api.GET("/registrations/dashboard/stats", cfg.DashboardHandler.Stats)
	api.POST("/registrations/:id/approve", cfg.RegistrationHandler.Approve)
	api.POST("/registrations/:id/reject", cfg.RegistrationHandler.Reject)
	api.POST("/registrations/:id/withdraw", cfg.RegistrationHandler.Withdraw)
	api.POST("/registrations/:id/cancel", cfg.RegistrationHandler.Cancel)
	api.POST("/registrations/:id/feedback", cfg.FeedbackHandler.Submit)

	api.PUT("/training-courses/:courseId", cfg.CourseHandler.Update)
	api.GET("/training-courses/:courseId/content", cfg.ContentHandler.GetCurrent)
	api.POST("/training-courses/:courseId/content", cfg.ContentHandler.Save)
	api.POST("/training-courses/:courseId/content/upload", cfg.ContentHandler.Upload)
	api.DELETE("/course-content/:id", cfg.ContentHandler.Delete)

	api.POST("/course-completions/mark-complete", cfg.CompletionHandler.MarkComplete)
	api.GET("/course-completions", cfg.CompletionHandler.ListMine)

	api.GET("/categories", cfg.CategoryHandler.List)
	api.POST("/categories", cfg.CategoryHandler.Create)
	api.PUT("/categories/:id", cfg.CategoryHandler.Update)

	api.GET("/notifications", cfg.NotificationHandler.List)
	api.GET("/notifications/unread-count", cfg.NotificationHandler.UnreadCount)
	api.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)
	api.POST("/notifications/read-all", cfg.NotificationHandler.MarkAllRead)

	return router
}

// Session-scoped routes share the ":id" wildcard, so these adapters rename
// the param the nested handlers expect.
func withParam(from, to string, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Params = append(c.Params, gin.Param{Key: to, Value: c.Param(from)})
		h(c)
	}
}

func feedbackBySession(h *handlers.FeedbackHandler) gin.HandlerFunc {
	return withParam("id", "sessionId", h.ListBySession)
}

func registrationsBySession(h *handlers.RegistrationHandler) gin.HandlerFunc {
	return withParam("id", "sessionId", h.ListBySession)
}

func coursesBySession(h *handlers.CourseHandler) gin.HandlerFunc {
	return withParam("id", "sessionId", h.ListBySession)
}

func createCourse(h *handlers.CourseHandler) gin.HandlerFunc {
	return withParam("id", "sessionId", h.Create)
}

func enroll(h *handlers.RegistrationHandler) gin.HandlerFunc {
	return withParam("id", "sessionId", h.Enroll)
}

func eligibility(h *handlers.RegistrationHandler) gin.HandlerFunc {
	return withParam("id", "sessionId", h.Eligibility)
}

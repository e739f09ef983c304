package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vikram-2101/project-manager-app/internal/handlers"
	"github.com/vikram-2101/project-manager-app/internal/middleware"
	"github.com/vikram-2101/project-manager-app/internal/repositories"
	"github.com/vikram-2101/project-manager-app/internal/types"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Users         *handlers.UserHandler
	Projects      *handlers.ProjectHandler
	Tasks         *handlers.TaskHandler
	Comments      *handlers.CommentHandler
	Notifications *handlers.NotificationHandler
	Dashboard     *handlers.DashboardHandler
	WS            *handlers.WSHandler
}

func New(h Handlers, users repositories.UserRepository) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authRequired := middleware.AuthMiddleware(users)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", authRequired, h.WS.Connect)

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", authRequired, h.Auth.Me)
		}

		api.GET("/users", authRequired, h.Users.List)
		api.GET("/dashboard/stats", authRequired, h.Dashboard.Stats)

		projects := api.Group("/projects", authRequired)
		{
			projects.POST("", h.Projects.Create)
			projects.GET("", h.Projects.List)
			projects.GET("/:project_id", h.Projects.Get)
			projects.PATCH("/:project_id", h.Projects.Update)
			projects.DELETE("/:project_id", h.Projects.Delete)
			projects.POST("/:project_id/members", h.Projects.AddMembers)
			projects.GET("/:project_id/tasks", h.Tasks.ListByProject)
			projects.POST("/:project_id/tasks", h.Tasks.Create)
		}

		tasks := api.Group("/tasks", authRequired)
		{
			tasks.GET("", h.Tasks.List)
			tasks.GET("/:task_id", h.Tasks.Get)
			tasks.PATCH("/:task_id", h.Tasks.Update)
			tasks.DELETE("/:task_id", h.Tasks.Delete)
			tasks.GET("/:task_id/comments", h.Comments.List)
			tasks.POST("/:task_id/comments", h.Comments.Create)
		}

		comments := api.Group("/comments", authRequired)
		{
			comments.PATCH("/:comment_id", h.Comments.Update)
			comments.DELETE("/:comment_id", h.Comments.Delete)
		}

		notifications := api.Group("/notifications", authRequired)
		{
			notifications.GET("", h.Notifications.List)
			notifications.GET("/unread-count", h.Notifications.UnreadCount)
			notifications.PUT("/mark-all-read", h.Notifications.MarkAllRead)
			notifications.PUT("/:notification_id/read", h.Notifications.MarkRead)
		}
	}

	return r
}

package main

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vikram-2101/project-manager-app/db"
	"github.com/vikram-2101/project-manager-app/internal/auth"
	"github.com/vikram-2101/project-manager-app/internal/handlers"
	"github.com/vikram-2101/project-manager-app/internal/notifications"
	"github.com/vikram-2101/project-manager-app/internal/realtime"
	"github.com/vikram-2101/project-manager-app/internal/repositories"
	"github.com/vikram-2101/project-manager-app/internal/router"
	"github.com/vikram-2101/project-manager-app/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if err := db.ConnectDatabase(dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	userRepo := repositories.NewUserRepository(db.DB)
	projectRepo := repositories.NewProjectRepository(db.DB)
	taskRepo := repositories.NewTaskRepository(db.DB)
	commentRepo := repositories.NewCommentRepository(db.DB)
	notificationRepo := repositories.NewNotificationRepository(db.DB)

	hub := realtime.NewHub()
	notificationSvc := notifications.NewService(notificationRepo, hub)

	projectSvc := services.NewProjectService(projectRepo, taskRepo, commentRepo, notificationRepo, userRepo, notificationSvc)
	taskSvc := services.NewTaskService(taskRepo, projectRepo, commentRepo, userRepo, notificationSvc)
	commentSvc := services.NewCommentService(commentRepo, taskRepo, projectRepo, notificationSvc)

	r := router.New(router.Handlers{
		Auth:          handlers.NewAuthHandler(userRepo),
		Users:         handlers.NewUserHandler(userRepo),
		Projects:      handlers.NewProjectHandler(projectSvc),
		Tasks:         handlers.NewTaskHandler(taskSvc),
		Comments:      handlers.NewCommentHandler(commentSvc),
		Notifications: handlers.NewNotificationHandler(notificationSvc),
		Dashboard:     handlers.NewDashboardHandler(userRepo, projectRepo, taskRepo, notificationRepo),
		WS:            handlers.NewWSHandler(hub, notificationSvc),
	}, userRepo)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

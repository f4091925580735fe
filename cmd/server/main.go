package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"

	"mannequins/backend/internal/auth"
	"mannequins/backend/internal/config"
	"mannequins/backend/internal/handlers"
	"mannequins/backend/internal/mail"
	"mannequins/backend/internal/middleware"
	"mannequins/backend/internal/storage"
	"mannequins/backend/internal/tokens"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	cfg := config.Load()

	ctx := context.Background()
	store, err := storage.Connect(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to storage: %v", err)
	}
	defer store.Disconnect(ctx)

	resets, err := tokens.NewRedisRegistry(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer resets.Close()

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.AccessTokenExpireDays)*24*time.Hour)
	mailer := mail.New(cfg)

	authHandler := handlers.NewAuthHandler(store, issuer, resets, mailer)
	userHandler := handlers.NewUserHandler(store)
	projectHandler := handlers.NewProjectHandler(store)
	fileHandler := handlers.NewFileHandler(store)

	// Daily reconciliation for blobs orphaned by a crash between the
	// blob write and the metadata insert.
	scheduler := gocron.NewScheduler(time.UTC)
	_, err = scheduler.Every(1).Day().Do(func() {
		removed, err := store.SweepOrphanBlobs(context.Background())
		if err != nil {
			log.Printf("Orphan blob sweep failed: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("Orphan blob sweep removed %d blobs", removed)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule orphan blob sweep: %v", err)
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	router := gin.Default()
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		api.POST("/login", authHandler.Login)
		api.POST("/register", authHandler.Register)
		api.POST("/forgot_password", authHandler.ForgotPassword)
		api.POST("/reset_password", authHandler.ResetPassword)

		api.GET("/files/:fileId/unrestricted/download", fileHandler.DownloadUnrestricted)

		protected := api.Group("/").Use(middleware.RequireAuth(issuer, store))
		{
			protected.GET("/users/me/details", userHandler.Details)
			protected.PATCH("/users/me/details", userHandler.UpdateDetails)
			protected.POST("/users/me/change_password", userHandler.ChangePassword)
			protected.DELETE("/users/me", userHandler.Delete)

			protected.POST("/projects", projectHandler.Create)
			protected.GET("/projects", projectHandler.List)
			protected.GET("/projects/:projectId", projectHandler.Get)
			protected.PATCH("/projects/:projectId", projectHandler.Update)
			protected.DELETE("/projects/:projectId", projectHandler.Delete)
			protected.POST("/projects/:projectId/access", projectHandler.GrantAccess)
			protected.DELETE("/projects/:projectId/access/:userId", projectHandler.RevokeAccess)

			protected.POST("/projects/:projectId/files", fileHandler.Upload)
			protected.PATCH("/projects/:projectId/files/:fileId", fileHandler.Update)
			protected.DELETE("/projects/:projectId/files/:fileId", fileHandler.Delete)

			protected.GET("/files/:fileId/download", fileHandler.Download)
		}
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

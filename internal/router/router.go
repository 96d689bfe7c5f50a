package router

import (
	"log"

	"github.com/crewlink/backend/internal/handlers"
	"github.com/crewlink/backend/internal/middleware"
	"github.com/crewlink/backend/internal/models"
	"github.com/crewlink/backend/internal/push"
	"github.com/crewlink/backend/internal/repositories"
	"github.com/crewlink/backend/internal/services"
	"github.com/crewlink/backend/pkg/config"
	fb "github.com/crewlink/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseApp *fb.App, logger zerolog.Logger) {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(&models.Notification{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories and the dispatch pipeline ---
	userStore := repositories.NewMongoUserStore(mgClient.Database(cfg.MongoDBName))
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	multicaster := push.NewFCMMulticaster(firebaseApp)

	classifier := services.NewClassifier(userStore, logger)
	dispatcher := services.NewDispatcher(userStore, multicaster, logger)
	reconciler := services.NewReconciler(logger)
	engine := services.NewEngine(classifier, notificationRepo, dispatcher, reconciler, userStore, logger)

	// --- Event ingest (shared-secret auth for the event source) ---
	ingest := e.Group("/api/v1")
	ingest.Use(middleware.EventSourceAuthMiddleware(cfg.EventSourceToken))
	eventHandler := handlers.NewEventHandler(engine)
	eventHandler.RegisterEventRoutes(ingest)
	log.Println("Event ingest routes configured.")

	// --- Notification read API (Firebase ID-token auth) ---
	api := e.Group("/api/v1")
	api.Use(middleware.FirebaseAuthMiddleware(firebaseApp.AuthClient))
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}

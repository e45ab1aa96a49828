package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/arisros/one-time-message/internal/app"
	"github.com/arisros/one-time-message/internal/config"
	"github.com/arisros/one-time-message/internal/controllers"
	"github.com/arisros/one-time-message/internal/middleware"
	"github.com/arisros/one-time-message/internal/routes"
	"github.com/arisros/one-time-message/internal/services"
	"github.com/arisros/one-time-message/internal/utils"
	"github.com/arisros/one-time-message/internal/web"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize application:", err)
	}
	defer application.Close()

	//----------------------------------------------------------------------
	// Services
	//----------------------------------------------------------------------
	messageService := services.NewMessageService(application.MessageRepo)
	cleanupService := services.NewMessageCleanupService(application.MessageRepo)

	//----------------------------------------------------------------------
	// Controllers
	//----------------------------------------------------------------------
	messageController := controllers.NewMessageController(messageService)
	healthController := controllers.NewHealthController(messageService)

	//----------------------------------------------------------------------
	// Router & Endpoints
	//----------------------------------------------------------------------
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger())

	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Message, messageController.CreateMessage).Methods(http.MethodPost)
	router.HandleFunc(routes.MessageByID, messageController.FetchMessage).Methods(http.MethodGet)
	router.HandleFunc(routes.AvailableByID, messageController.CheckAvailability).Methods(http.MethodGet)

	// Form UI, registered last so the API keeps precedence.
	router.PathPrefix("/").Handler(web.Handler()).Methods(http.MethodGet)

	//----------------------------------------------------------------------
	// Setup hourly expiry sweep via cron
	//----------------------------------------------------------------------
	c := cron.New()
	_, schErr := c.AddFunc("@hourly", func() {
		if e := cleanupService.PurgeExpired(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled message expiry sweep failed")
		}
	})
	if schErr != nil {
		utils.Logger.WithError(schErr).Fatal("Failed to schedule message expiry sweep")
	}
	c.Start()

	//----------------------------------------------------------------------
	// CORS
	//----------------------------------------------------------------------
	co := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.AppUrl},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Server error:", err)
	}
}

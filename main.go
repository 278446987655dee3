// File: dulai/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dulai/config"
	"dulai/database"
	calendarRepo "dulai/database/repository/calendar"
	sessionRepo "dulai/database/repository/session"
	"dulai/handlers"
	"dulai/middleware"
	"dulai/routes"
	"dulai/services/assistant"
	"dulai/services/booking"
	"dulai/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	if config.AppConfig.OpenAIAPIKey == "" {
		logger.Sugar().Fatal("main: OPENAI_API_KEY not set")
	}

	systemPrompt, err := os.ReadFile(config.AppConfig.SystemPromptPath)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to read system prompt: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	var calendar calendarRepo.SlotStore
	switch config.AppConfig.CalendarBackend {
	case "mongo":
		database.InitDB()
		calendar = calendarRepo.NewMongoSlotStore()
	default:
		calendar = calendarRepo.NewMemorySlotStore()
	}

	var sessions sessionRepo.SessionStore
	switch config.AppConfig.SessionBackend {
	case "redis":
		sessions = sessionRepo.NewRedisSessionStore(utils.GetSessionCacheClient(), 7*24*time.Hour)
	default:
		sessions = sessionRepo.NewMemorySessionStore()
	}

	// services.
	bookingService := &booking.DefaultBookingService{
		Calendar: calendar,
	}

	registry, err := assistant.NewRegistry(bookingService)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid function registry: %v", err)
	}

	streamer := assistant.NewOpenAIStreamer(
		config.AppConfig.OpenAIAPIKey,
		config.AppConfig.OpenAIBaseURL,
		config.AppConfig.OpenAIModel,
	)

	assistantService := &assistant.DefaultAssistantService{
		Streamer:        streamer,
		Registry:        registry,
		Sessions:        sessions,
		SystemPrompt:    string(systemPrompt),
		UpstreamTimeout: time.Duration(config.AppConfig.UpstreamTimeoutSec) * time.Second,
	}

	chatHandler := handlers.NewChatHandler(assistantService, sessions)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		ChatHandler: chatHandler.HandleChat,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

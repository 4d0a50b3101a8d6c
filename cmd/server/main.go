package main

import (
	"log"

	_ "github.com/PNHMEDIA/faktury-app-v2/docs"
	"github.com/PNHMEDIA/faktury-app-v2/internal/config"
	"github.com/PNHMEDIA/faktury-app-v2/internal/handler"
	"github.com/PNHMEDIA/faktury-app-v2/internal/middleware"
	"github.com/PNHMEDIA/faktury-app-v2/internal/openai"
	"github.com/PNHMEDIA/faktury-app-v2/internal/raster"
	"github.com/PNHMEDIA/faktury-app-v2/internal/repository"
	"github.com/PNHMEDIA/faktury-app-v2/internal/server"
	"github.com/PNHMEDIA/faktury-app-v2/internal/service"
)

// @title Faktury API
// @version 2.0
// @description Self-hosted invoice intake: upload invoice images/PDFs, extract fields with a vision model, store and manage the renamed documents.
// @BasePath /
func main() {
	// Load configuration
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the filesystem repository
	log.Printf("Initializing storage in %s...", cfg.DataDir)
	repo, err := repository.NewFileRepository(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize the OpenAI extraction client
	extractorClient := openai.NewClient(&openai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		ModelID: cfg.OpenAIModelID,
		Timeout: cfg.OpenAITimeout,
	})

	// Create services
	log.Println("Creating services...")
	rasterizer := raster.NewRasterizer(cfg.PopplerPath)
	ingestService := service.NewIngestService(extractorClient, rasterizer, repo)
	invoiceService := service.NewInvoiceService(repo)
	authService := service.NewAuthService(service.AuthConfig{
		Password:      cfg.AppPassword,
		PasswordHash:  cfg.AppPasswordHash,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
	})

	// Create and configure server
	log.Println("Configuring server...")
	appServer := server.NewServer(cfg)

	authHandler := handler.NewAuthHandler(authService)
	authHandler.RegisterRoutes(appServer.GetRouter())

	invoiceHandler := handler.NewInvoiceHandler(ingestService, invoiceService, cfg.MaxUploadSize)
	invoiceHandler.RegisterRoutes(appServer.GetRouter(), middleware.SessionAuth(authService))

	// Start server (blocking call)
	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Delandiluca/finly/internal/api"
	"github.com/Delandiluca/finly/internal/audit"
	"github.com/Delandiluca/finly/internal/config"
	"github.com/Delandiluca/finly/internal/logging"
	"github.com/Delandiluca/finly/internal/repository"
	"github.com/Delandiluca/finly/internal/service"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	log := logging.Setup()

	// Load configuration
	cfg := config.LoadConfig()

	// Set up database connection and run migrations
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to set up database: %v", err)
	}
	defer db.Close()

	// Create repositories
	store := repository.NewStore(db)

	// Create audit recorder and service
	recorder := audit.NewRecorder(store.AuditLogs, log)
	svc := service.NewDefaultService(store, recorder, log, cfg.Auth.JWTSecret)

	// Create API handler
	handler := api.NewHandler(svc, log)

	// Set up Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.RequestLogger(log))

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Infof("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

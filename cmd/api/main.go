package main

import (
	"context"
	"log"

	"feedfind-api-server/config"
	"feedfind-api-server/internal/api/routes"
	"feedfind-api-server/internal/auth"
	"feedfind-api-server/internal/database"
	"feedfind-api-server/internal/logger"
	"feedfind-api-server/internal/s3"
	"feedfind-api-server/internal/socket"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments inject env vars directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	zapLog := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer zapLog.Sync()

	auth.Init(cfg.JWT.Secret, cfg.JWT.Expiration)

	client, db, err := database.Connect(cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := database.SeedSuperuser(db, cfg.Seed); err != nil {
		log.Fatalf("Failed to seed superuser: %v", err)
	}

	var s3Uploader *s3.Uploader
	if cfg.S3.Bucket != "" {
		s3Uploader, err = s3.NewUploader(cfg.S3)
		if err != nil {
			log.Fatalf("Failed to create S3 uploader: %v", err)
		}
	}

	wsHub := socket.NewHub(zapLog)

	router := routes.SetupRouter(cfg, db, s3Uploader, wsHub, zapLog)

	log.Printf("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

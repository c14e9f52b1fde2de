package database

import (
	"context"
	"log"
	"time"

	"feedfind-api-server/config"
	"feedfind-api-server/internal/auth"
	"feedfind-api-server/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedSuperuser creates the platform superuser account if it does not exist
// yet. Safe to run on every startup.
func SeedSuperuser(db *mongo.Database, cfg config.SeedConfig) error {
	email := cfg.AdminEmail
	if email == "" {
		email = "admin@feedfind.local"
	}
	password := cfg.AdminPassword
	if password == "" {
		password = "changeme"
	}

	userCollection := db.Collection("users")

	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": email})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Superuser already exists. Seeding skipped.")
		return nil
	}

	log.Println("Superuser not found. Seeding...")
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now()
	superuser := models.User{
		UserID:    "user-" + uuid.New().String()[:8],
		Email:     email,
		Name:      "Platform Admin",
		Password:  hashedPassword,
		Role:      models.RoleSuperuser,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := userCollection.InsertOne(context.Background(), superuser); err != nil {
		return err
	}

	log.Println("Superuser seeded successfully.")
	return nil
}

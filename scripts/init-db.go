package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"paneteria_admin/internal/config"
	"paneteria_admin/internal/database"
	"paneteria_admin/internal/models"
	"paneteria_admin/internal/repository"
	"paneteria_admin/internal/services"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	// Initialize database (runs AutoMigrate)
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	ctx := context.Background()

	// Create default admin user
	fmt.Println("Creating default admin user...")
	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, time.Duration(cfg.TokenTTL)*time.Second)

	existingUser, err := userRepo.GetByUsername(ctx, "admin")
	if err == nil && existingUser != nil {
		fmt.Println("Admin user already exists")
	} else {
		admin := &models.User{
			Username:       "admin",
			Email:          "admin@paneteria.local",
			Role:           string(models.SuperAdmin),
			WhatsAppNumber: cfg.OperatorWhatsApp,
			IsActive:       true,
		}

		if err := authService.CreateUser(ctx, admin, "admin123"); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			fmt.Println("Admin user created successfully")
			fmt.Println("Username: admin")
			fmt.Println("Password: admin123")
		}
	}

	// Create starter categories
	fmt.Println("Creating starter categories...")
	categoryRepo := repository.NewCategoryRepository(db)

	existing, err := categoryRepo.GetAll(ctx)
	if err != nil {
		log.Fatal("Failed to read categories:", err)
	}
	if len(existing) > 0 {
		fmt.Println("Categories already present, skipping")
		return
	}

	starters := []models.Category{
		{Name: "Breads", Description: "Daily baked breads", IsActive: true},
		{Name: "Cakes", Description: "Cakes and pies", IsActive: true},
		{Name: "Sweets", Description: "Sweets and desserts", IsActive: true},
		{Name: "Savory", Description: "Savory snacks", IsActive: true},
	}
	for i := range starters {
		if err := categoryRepo.Create(ctx, &starters[i]); err != nil {
			log.Printf("Warning: Failed to create category %q: %v", starters[i].Name, err)
		}
	}

	fmt.Println("Database initialization completed successfully!")
}

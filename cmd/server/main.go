package main

import (
	"context"
	"log"
	"time"

	"paneteria_admin/internal/config"
	"paneteria_admin/internal/database"
	"paneteria_admin/internal/handlers"
	"paneteria_admin/internal/middleware"
	"paneteria_admin/internal/redis"
	"paneteria_admin/internal/repository"
	"paneteria_admin/internal/services"
	"paneteria_admin/pkg/whatsapp"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis (change feed + menu cache)
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Initialize WhatsApp client when configured
	var whatsappService services.WhatsAppService
	if cfg.WhatsAppAPIURL != "" {
		whatsappClient := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath)
		whatsappService = services.NewWhatsAppService(whatsappClient, cfg.OperatorWhatsApp)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Initialize services
	notificationService := services.NewNotificationService(redisClient, whatsappService)
	storeService := services.NewStoreService(categoryRepo, productRepo, customerRepo, orderRepo, redisClient, notificationService)
	menuService := services.NewMenuService(storeService, redisClient, time.Duration(cfg.MenuCacheTTL)*time.Second)
	exportService := services.NewExportService(storeService)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, time.Duration(cfg.TokenTTL)*time.Second)

	// Build the initial snapshot and start the realtime listeners
	ctx := context.Background()
	if err := storeService.Refresh(ctx); err != nil {
		log.Printf("Warning: initial snapshot refresh failed: %v", err)
	}
	go storeService.Listen(ctx)
	go notificationService.Listen(ctx)
	go menuService.WatchSnapshots(ctx)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(storeService)
	customerHandler := handlers.NewCustomerHandler(storeService)
	orderHandler := handlers.NewOrderHandler(storeService)
	dashboardHandler := handlers.NewDashboardHandler(storeService, exportService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	menuHandler := handlers.NewMenuHandler(menuService)

	// Setup routes
	router := gin.Default()

	// Public digital menu
	router.GET("/api/menu", middleware.RateLimit("60-M"), menuHandler.Menu)

	// Auth
	router.POST("/api/auth/login", authHandler.Login)

	// Admin API
	admin := router.Group("/api/admin", middleware.RequireAuth(cfg.JWTSecret))
	{
		admin.GET("/dashboard", dashboardHandler.Dashboard)
		admin.POST("/refresh", dashboardHandler.Refresh)
		admin.GET("/export/orders", dashboardHandler.ExportOrders)
		admin.GET("/export/customers", dashboardHandler.ExportCustomers)

		admin.GET("/categories", catalogHandler.ListCategories)
		admin.POST("/categories", catalogHandler.CreateCategory)
		admin.PUT("/categories/:id", catalogHandler.UpdateCategory)
		admin.DELETE("/categories/:id", catalogHandler.DeleteCategory)

		admin.GET("/products", catalogHandler.ListProducts)
		admin.POST("/products", catalogHandler.CreateProduct)
		admin.PUT("/products/:id", catalogHandler.UpdateProduct)
		admin.DELETE("/products/:id", catalogHandler.DeleteProduct)

		admin.GET("/customers", customerHandler.ListCustomers)
		admin.POST("/customers", customerHandler.CreateCustomer)
		admin.PUT("/customers/:id", customerHandler.UpdateCustomer)
		admin.DELETE("/customers/:id", customerHandler.DeleteCustomer)

		admin.GET("/orders", orderHandler.ListOrders)
		admin.POST("/orders", orderHandler.CreateOrder)
		admin.PUT("/orders/:id", orderHandler.UpdateOrder)
		admin.DELETE("/orders/:id", orderHandler.DeleteOrder)

		admin.GET("/notifications", notificationHandler.List)
		admin.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
		admin.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		admin.DELETE("/notifications/clear", notificationHandler.Clear)
		admin.DELETE("/notifications/:id", notificationHandler.Remove)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

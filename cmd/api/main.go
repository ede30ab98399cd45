package main

import (
	"log"
	"os"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/config"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/controllers"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/middleware"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/routes"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	storage := services.NewStorageFromEnv()
	if err := storage.EnsureDirs(); err != nil {
		log.Printf("Warning: Failed to create upload directories: %v", err)
	}

	mailer := config.NewMailerFromEnv()
	notifier := services.NewNotifier(db, mailer)
	lifecycle := services.NewLetterRequestService(db, notifier)
	printer := services.NewPrintService(db, storage, lifecycle)

	ctl := routes.Controllers{
		Auth:           controllers.NewAuthController(db),
		Resident:       controllers.NewResidentController(db, storage),
		LetterCategory: controllers.NewLetterCategoryController(db),
		LetterType:     controllers.NewLetterTypeController(db, storage),
		LetterRequest:  controllers.NewLetterRequestController(lifecycle, storage),
		PrintedLetter:  controllers.NewPrintedLetterController(printer),
		Notification:   controllers.NewNotificationController(db),
		Dashboard:      controllers.NewDashboardController(db),
	}

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Security headers
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	router.Use(middleware.CORSMiddleware())

	routes.SetupRoutes(router, db, ctl)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

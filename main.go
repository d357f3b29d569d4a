package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/ita-disc-inventory/backend/config"
	"github.com/ita-disc-inventory/backend/middlewares"
	"github.com/ita-disc-inventory/backend/models"
	"github.com/ita-disc-inventory/backend/router"
	"github.com/ita-disc-inventory/backend/services"
	"github.com/ita-disc-inventory/backend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()

	cfg := config.Load()
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	autoMigrate(db)

	var mailer services.Mailer = services.LogMailer{}
	if cfg.SMTPConfigured() {
		mailer = services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPSender)
		utils.InfoLogger.Printf("Outbound email via SMTP relay %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	} else {
		utils.InfoLogger.Println("SMTP not configured, outbound email is log-only")
	}

	r := router.SetupRouter(db, mailer)

	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Program{},
		&models.Item{},
		&models.Order{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}

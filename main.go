package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"sumula-system/handlers"
	"sumula-system/middleware"
	"sumula-system/models"
	"sumula-system/services"
	"sumula-system/utils"
	"sumula-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	// Only Gateway requests allowed, no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	origins := strings.Split(allowedOrigins, ",")
	for i, o := range origins {
		origins[i] = strings.TrimSpace(o)
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID, X-User-ID, X-User-Email",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Event{},
		&models.Token{},
		&models.Staff{},
		&models.PermissionGrant{},
		&models.Player{},
		&models.SumulaClassificatoria{},
		&models.SumulaImortal{},
		&models.PlayerScoreClassificatoria{},
		&models.PlayerScoreImortal{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	sumulaService := services.NewSumulaService(db)
	eventService := services.NewEventService(db)
	playerService := services.NewPlayerService(db)

	handlers.SetupRoutes(app, sumulaService, eventService, playerService)

	// Score-sheet archiver: R2 is optional, the worker only starts when
	// the bucket is configured.
	if os.Getenv("R2_BUCKET_NAME") != "" {
		if err := initArchiver(db); err != nil {
			log.Fatal("failed to start archive worker:", err)
		}
	} else {
		log.Println("R2_BUCKET_NAME not set, score-sheet archiving disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()
	log.Printf("Server running on http://localhost:%s", port)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func initArchiver(db *gorm.DB) error {
	if err := utils.InitR2(); err != nil {
		return err
	}
	interval := 10 * time.Minute
	if v := os.Getenv("ARCHIVE_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			interval = time.Duration(n) * time.Minute
		}
	}
	return workers.NewArchiveWorker(db, interval).Start()
}

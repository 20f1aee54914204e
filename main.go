package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"watchlog/internal/handlers"
	"watchlog/internal/middleware"
	"watchlog/internal/models"
	"watchlog/internal/repositories"
	"watchlog/internal/services"
	"watchlog/pkg/rabbitmq"
	"watchlog/pkg/tmdb"

	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	// All deployment choices are injected here, once; nothing downstream
	// inspects the runtime environment.
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "watchlog.db")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-me")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("TMDB_API_KEY", "")
	viper.SetDefault("TMDB_BASE_URL", tmdb.DefaultBaseURL)
	viper.SetDefault("TMDB_IMAGE_BASE", tmdb.DefaultImageBase)
	viper.SetDefault("TMDB_PROXY_URL", "")
	viper.SetDefault("TMDB_USE_PROXY", false)
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Initialize RabbitMQ Client (optional) ---
	// Library activity events are fire-and-forget; without a broker URL the
	// service simply skips publishing.
	var mqClient *rabbitmq.Client
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, continuing without events: %v", err)
		} else {
			defer mqClient.Close()
		}
	}

	// --- Initialize Repositories ---
	userRepo, movieRepo, err := buildRepositories(
		viper.GetString("DATABASE_DRIVER"),
		viper.GetString("DATABASE_DSN"),
	)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"))
	libraryService := services.NewLibraryService(movieRepo, mqClient)
	catalogClient := tmdb.NewClient(tmdb.Config{
		APIKey:    viper.GetString("TMDB_API_KEY"),
		BaseURL:   viper.GetString("TMDB_BASE_URL"),
		ImageBase: viper.GetString("TMDB_IMAGE_BASE"),
		ProxyURL:  viper.GetString("TMDB_PROXY_URL"),
		UseProxy:  viper.GetBool("TMDB_USE_PROXY"),
	})

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	libraryHandler := handlers.NewLibraryHandler(libraryService)
	catalogHandler := handlers.NewCatalogHandler(catalogClient)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Public routes: registration, login and catalog browsing.
	authHandler.RegisterRoutes(apiV1)
	catalogHandler.RegisterRoutes(apiV1)

	// Protected routes: everything touching a user's own data.
	protected := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protected)
	libraryHandler.RegisterRoutes(protected)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for library events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received library event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeLibraryEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// buildRepositories opens the configured storage backend. The "memory"
// driver runs entirely in-process, handy for demos and local hacking.
func buildRepositories(driver, dsn string) (repositories.UserRepository, repositories.MovieRepository, error) {
	if driver == "memory" {
		return repositories.NewMockUserRepository(), repositories.NewMockMovieRepository(), nil
	}

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, err
	}
	if err := db.AutoMigrate(&models.User{}, &models.Movie{}); err != nil {
		return nil, nil, err
	}

	return repositories.NewGORMUserRepository(db), repositories.NewGORMMovieRepository(db), nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/pflag"
	"gorm.io/gorm"

	"resep/internal/config"
	"resep/internal/handlers"
	"resep/internal/middleware"
	"resep/internal/repositories"
	"resep/internal/services"
	"resep/pkg/rabbitmq"
)

// application bundles the HTTP app with the resources it owns.
type application struct {
	fiber       *fiber.App
	db          *gorm.DB
	store       *repositories.GORMStore
	authService *services.AuthService
}

// newApplication opens the database and wires repositories, services and
// handlers. publisher may be nil.
func newApplication(cfg *config.Config, publisher services.EventPublisher) (*application, error) {
	db, err := repositories.NewDB(repositories.DBConfig{
		Driver:   cfg.DatabaseDriver,
		DSN:      cfg.DatabaseDSN,
		LogLevel: cfg.DBLogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// --- Initialize Repositories ---
	store := repositories.NewGORMStore(db)
	userRepo := repositories.NewGORMUserRepository(db)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	recipeService := services.NewRecipeService(store, publisher)
	tagService := services.NewTagService(store)
	ingredientService := services.NewIngredientService(store)

	// --- Initialize Handlers ---
	userHandler := handlers.NewUserHandler(authService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	tagHandler := handlers.NewAttributeHandler("/tags", "tag", tagService)
	ingredientHandler := handlers.NewAttributeHandler("/ingredients", "ingredient", ingredientService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	// --- API Routes ---
	api := app.Group("/api")
	auth := middleware.AuthRequired(authService)

	userHandler.RegisterRoutes(api, auth)

	recipeRoutes := api.Group("/recipe", auth)
	recipeHandler.RegisterRoutes(recipeRoutes)
	tagHandler.RegisterRoutes(recipeRoutes)
	ingredientHandler.RegisterRoutes(recipeRoutes)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			log.Printf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "connected",
			"events":   publisher != nil,
		})
	})

	return &application{
		fiber:       app,
		db:          db,
		store:       store,
		authService: authService,
	}, nil
}

// close releases the database connection pool.
func (a *application) close() {
	sqlDB, err := a.db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

// runCreateSuperuser implements the "createsuperuser" command.
func runCreateSuperuser(cfg *config.Config, args []string) error {
	flags := pflag.NewFlagSet("createsuperuser", pflag.ContinueOnError)
	email := flags.String("email", "", "superuser email address")
	password := flags.String("password", "", "superuser password")
	if err := flags.Parse(args); err != nil {
		return err
	}

	app, err := newApplication(cfg, nil)
	if err != nil {
		return err
	}
	defer app.close()

	user, err := app.authService.CreateSuperuser(context.Background(), *email, *password)
	if err != nil {
		return err
	}
	log.Printf("Superuser %s created (ID: %d)", user.Email, user.ID)
	return nil
}

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if len(os.Args) > 1 && os.Args[1] == "createsuperuser" {
		if err := runCreateSuperuser(cfg, os.Args[2:]); err != nil {
			log.Fatalf("Failed to create superuser: %v", err)
		}
		return
	}

	// --- Initialize RabbitMQ Client ---
	// Recipe events are optional; without a broker the API still serves.
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("Warning: recipe events disabled: %v", err)
		} else {
			defer mqClient.Close() // Ensure the connection is closed on exit
			publisher = mqClient

			log.Println("Starting RabbitMQ consumer for recipe events...")
			if err := mqClient.ConsumeRecipeEvents(rabbitmq.LogRecipeEvent); err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}
	}

	app, err := newApplication(cfg, publisher)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.close()

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.fiber.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"EstateHub/internal/config"
	"EstateHub/internal/database"
	"EstateHub/internal/handlers"
	"EstateHub/internal/messaging"
	"EstateHub/internal/middleware"
	"EstateHub/internal/models"
	"EstateHub/internal/routes"
	"EstateHub/internal/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Invalid configuration:", err)
	}
	cfg.LogSummary()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}
	defer database.Close(db)

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("❌ Failed to migrate database:", err)
	}
	log.Println("✅ Database connected and migrated successfully")

	// Initialize services
	paystack := services.NewPaystackService(cfg.PaystackSecretKey, cfg.PaystackBaseURL, &http.Client{Timeout: cfg.PaystackTimeout})

	var opts []services.PaymentOption
	if mailer := services.NewEmailService(cfg.ResendAPIKey, cfg.FromEmail); mailer != nil {
		opts = append(opts, services.WithReceipts(mailer))
		log.Println("✅ Receipt emails enabled")
	}

	var events messaging.Publisher = messaging.NopPublisher{}
	if cfg.RabbitURL != "" {
		rabbit, err := messaging.NewRabbitPublisher(cfg.RabbitURL, cfg.PaymentsExchange)
		if err != nil {
			log.Fatal("❌ Failed to connect to RabbitMQ:", err)
		}
		events = rabbit
		log.Printf("✅ Publishing payment events to exchange %q", cfg.PaymentsExchange)
	}
	defer events.Close()
	opts = append(opts, services.WithEvents(events))

	payments := services.NewPaymentService(db, paystack, cfg.PaystackCallbackURL, opts...)
	dashboard := services.NewDashboardService(db)
	users := services.NewUserService(db)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "EstateHub API v1.0",
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, OPTIONS",
	}))

	protected := middleware.Protected(cfg.JWTSecret)

	var adminGuards []fiber.Handler
	if cfg.AdminRoutesProtected {
		adminGuards = []fiber.Handler{protected, middleware.RequireRoles(users, models.RoleAdmin)}
		log.Println("🔒 Dashboard and status updates require an admin token")
	}

	// Setup application routes
	routes.SetupRoutes(app)
	routes.SetupDashboardRoutes(app, handlers.NewDashboardHandler(dashboard), adminGuards...)
	routes.SetupPaymentRoutes(app, handlers.NewPaymentHandler(payments), protected, adminGuards...)

	log.Printf("🚀 EstateHub server starting on http://localhost:%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Println("❌ Server stopped:", err)
	}
}

// errorHandler renders unhandled errors in the {"error": ...} envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

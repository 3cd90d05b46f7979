package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory/internal/config"
	"inventory/internal/dashboard"
	"inventory/internal/dialog"
	"inventory/internal/form"
	"inventory/internal/handlers"
	"inventory/internal/metrics"
	"inventory/internal/middleware"
	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/internal/table"
	"inventory/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Database ---
	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient
	} else {
		log.Println("RABBITMQ_URL is empty, product events are disabled")
	}

	app, _, err := newApp(context.Background(), cfg, db, publisher)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	// --- Product event consumer ---
	if mqClient != nil {
		err := mqClient.ConsumeProductEvents(func(evt rabbitmq.ProductEvent) error {
			log.Printf("Received %s for product %s (%s, qty %d)", evt.Type, evt.ProductID, evt.SKU, evt.Quantity)
			metrics.RecordProductEvent(evt.Type)
			return nil
		})
		if err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase connects with the configured driver and migrates the schema.
func openDatabase(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseDSN)
	default:
		dialector = sqlite.Open(cfg.DatabaseDSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DatabaseDriver, err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// newApp wires repositories, services and handlers into a Fiber app.
func newApp(ctx context.Context, cfg config.Config, db *gorm.DB, publisher services.EventPublisher) (*fiber.App, *services.AuthService, error) {
	// --- Repositories & services ---
	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	store := services.NewProductStore(productRepo, publisher)
	if err := store.LoadProducts(ctx); err != nil {
		return nil, nil, err
	}
	if cfg.SeedDemoData && len(store.AllProducts()) == 0 {
		seedProducts(ctx, store)
	}
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)

	tableOpts := table.Options{
		PageSize:                cfg.PageSize,
		ResetPageOnFilterChange: cfg.ResetPageOnFilterChange,
	}
	manager := dashboard.NewManager(store, dashboard.Options{
		Table: tableOpts,
		Dialog: dialog.Options{
			CloseOnUpdate:       cfg.CloseDialogOnUpdate,
			NotifyCreateFailure: cfg.NotifyCreateFailure,
		},
	})

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(store, form.NewValidator(), tableOpts)
	dashboardHandler := handlers.NewDashboardHandler(manager, store)
	limiter := middleware.NewWriteLimiter(cfg.WriteRatePerSecond, cfg.WriteBurst)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(metrics.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"products": len(store.AllProducts()),
			"events":   publisher != nil,
		})
	})
	app.Get("/metrics", metrics.Handler())

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService), limiter.Handler())
	productHandler.RegisterRoutes(protected)
	dashboardHandler.RegisterRoutes(protected)

	return app, authService, nil
}

// seedProducts adds a small demo catalog to an empty database.
func seedProducts(ctx context.Context, store *services.ProductStore) {
	now := time.Now()
	products := []models.Product{
		{Name: "Wireless Mouse", SKU: "EL-MOUSE-01", Supplier: "Logi Supply", Category: models.CategoryElectronics, Status: models.StatusPublished, QuantityInStock: 120, Price: 24.99, Icon: "laptop"},
		{Name: "Oak Desk", SKU: "FU-DESK-02", Supplier: "Woodline", Category: models.CategoryFurniture, Status: models.StatusPublished, QuantityInStock: 8, Price: 349, Icon: "chair"},
		{Name: "Linen Shirt", SKU: "CL-SHIRT-03", Supplier: "Threadworks", Category: models.CategoryClothing, Status: models.StatusDraft, QuantityInStock: 40, Price: 39.5, Icon: "shirt"},
		{Name: "Go in Practice", SKU: "BK-GO-04", Supplier: "Paperback Co", Category: models.CategoryBooks, Status: models.StatusPublished, QuantityInStock: 15, Price: 44.99, Icon: "book"},
		{Name: "Building Blocks", SKU: "TY-BLOCK-05", Supplier: "Playtime", Category: models.CategoryToys, Status: models.StatusInactive, QuantityInStock: 0, Price: 19.99, Icon: "toy"},
		{Name: "Matte Lipstick", SKU: "BE-LIP-06", Supplier: "Glow", Category: models.CategoryBeauty, Status: models.StatusPublished, QuantityInStock: 64, Price: 12.75, Icon: "lipstick"},
		{Name: "Football", SKU: "SP-BALL-07", Supplier: "Goal Sports", Category: models.CategorySports, Status: models.StatusDraft, QuantityInStock: 30, Price: 29, Icon: "ball"},
		{Name: "Table Lamp", SKU: "HD-LAMP-08", Supplier: "Brightco", Category: models.CategoryHomeDecor, Status: models.StatusPublished, QuantityInStock: 22, Price: 54.2, Icon: "lamp"},
		{Name: "Blender Pro", SKU: "HA-BLEND-09", Supplier: "Kitchenly", Category: models.CategoryHomeAppliances, Status: models.StatusInactive, QuantityInStock: 5, Price: 89.9, Icon: "blender"},
		{Name: "Gift Card", SKU: "OT-GIFT-10", Supplier: "Inventory", Category: models.CategoryOthers, Status: models.StatusPublished, QuantityInStock: 999, Price: 50, Icon: "gift"},
	}

	for i := range products {
		products[i].CreatedAt = now.Add(time.Duration(i-len(products)) * time.Hour)
		if err := store.AddProduct(ctx, &products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
		}
	}
}

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"go-inventory-tracker/internal/config"
	"go-inventory-tracker/internal/event"
	"go-inventory-tracker/internal/handler"
	"go-inventory-tracker/internal/lock"
	"go-inventory-tracker/internal/middleware"
	"go-inventory-tracker/internal/repository"
	"go-inventory-tracker/internal/repository/memstore"
	"go-inventory-tracker/internal/service"
	"go-inventory-tracker/internal/ws"
	"go-inventory-tracker/pkg/cache"
	"go-inventory-tracker/pkg/database"
	"go-inventory-tracker/pkg/jwt"
	"go-inventory-tracker/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	// Prices go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Setup Storage
	store, err := openStore(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to open store")
	}

	// 3. Locks and rate limit storage, shared through Redis when configured
	var (
		locker       lock.Locker = lock.NewLocal()
		limitStorage fiber.Storage
	)
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedis(ctx, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer rdb.Close()
		locker = lock.NewRedis(rdb, log)
		limitStorage = cache.NewStorage(rdb, "limiter:")
		log.WithField("addr", cfg.Redis.Addr).Info("Using Redis for item locks and rate limits")
	}

	// 4. Setup WebSocket Hub and event fan-out
	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)

	publishers := event.Multi{wsHub}
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := event.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to RabbitMQ")
		}
		defer amqpPublisher.Close()
		publishers = append(publishers, amqpPublisher)
	}

	// 5. Dependency Injection (Wiring Layers)
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	users := store.Repos().Users

	stockService := service.NewStockService(store, locker, publishers, log)
	services := handler.Services{
		Auth:         service.NewAuthService(users, tokens, log),
		Users:        service.NewUserService(users, tokens),
		Inventory:    service.NewInventoryService(store, locker, publishers, log),
		Stock:        stockService,
		Alerts:       service.NewAlertService(store, locker, publishers, log),
		Transactions: service.NewTransactionService(store, stockService),
		Reports:      service.NewReportService(store),
		Dashboard:    service.NewDashboardService(store),
	}

	if cfg.Admin.Username != "" && cfg.Admin.Password != "" {
		if err := services.Auth.SeedAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.WithError(err).Warn("Failed to seed admin user")
		}
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Inventory Tracker v1.0",
		ErrorHandler: handler.NewErrorHandler(log, cfg.IsDevelopment()),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// 7. Routes
	handler.RegisterRoutes(app, services, handler.RouteOptions{
		LoginLimiter: middleware.LoginLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow, limitStorage),
		Hub:          wsHub,
	})

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Error("Server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	log.Info("Server exited")
}

// openStore returns the in-memory store for DB_DRIVER=memory, otherwise a
// migrated Postgres store.
func openStore(cfg *config.Config, log *logrus.Logger) (repository.Store, error) {
	switch cfg.Database.Driver {
	case "memory":
		log.Warn("Using in-memory store, data is lost on restart")
		return memstore.New(), nil
	case "postgres":
		db, err := database.Connect(database.Options{
			DSN:             cfg.Database.DSN(),
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			Debug:           cfg.IsDevelopment(),
		}, log)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		return repository.NewGormStore(db), nil
	default:
		return nil, errors.New("unsupported database driver " + cfg.Database.Driver)
	}
}

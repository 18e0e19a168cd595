package handler

import (
	"go-inventory-tracker/internal/middleware"
	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/service"
	"go-inventory-tracker/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type Services struct {
	Auth         service.AuthService
	Users        service.UserService
	Inventory    service.InventoryService
	Stock        service.StockService
	Alerts       service.AlertService
	Transactions service.TransactionService
	Reports      service.ReportService
	Dashboard    service.DashboardService
}

type RouteOptions struct {
	// LoginLimiter guards POST /users/login when set.
	LoginLimiter fiber.Handler
	// Hub serves /ws when set.
	Hub *ws.Hub
}

// RegisterRoutes mounts the REST API under /api/v1.
func RegisterRoutes(app *fiber.App, svc Services, opts RouteOptions) {
	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.Users)
	invHandler := NewInventoryHandler(svc.Inventory, svc.Stock, svc.Reports)
	alertHandler := NewAlertHandler(svc.Alerts)
	txHandler := NewTransactionHandler(svc.Transactions)
	reportHandler := NewReportHandler(svc.Reports)
	dashHandler := NewDashboardHandler(svc.Dashboard)

	api := app.Group("/api/v1")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ============ PUBLIC ROUTES ============
	users := api.Group("/users")
	users.Post("/register", authHandler.Register)
	if opts.LoginLimiter != nil {
		users.Post("/login", opts.LoginLimiter, authHandler.Login)
	} else {
		users.Post("/login", authHandler.Login)
	}
	users.Post("/refresh-token", authHandler.RefreshToken)

	// ============ PROTECTED ROUTES ============
	requireAuth := middleware.RequireAuth(svc.Auth)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	users.Get("/profile", requireAuth, userHandler.GetProfile)
	users.Patch("/profile", requireAuth, userHandler.UpdateProfile)
	users.Get("/email/:email", requireAuth, adminOnly, userHandler.GetUserByEmail)
	users.Get("/:id", requireAuth, adminOnly, userHandler.GetUser)

	inventory := api.Group("/inventory", requireAuth)
	inventory.Post("/", invHandler.CreateItem)
	inventory.Get("/", invHandler.GetItems)
	inventory.Get("/status/out-of-stock", invHandler.GetOutOfStock)
	inventory.Get("/export/report", invHandler.ExportReport)
	inventory.Get("/:id", invHandler.GetItem)
	inventory.Put("/:id", invHandler.UpdateItem)
	inventory.Delete("/:id", invHandler.DeleteItem)
	inventory.Post("/:id/stock-in", invHandler.StockIn)
	inventory.Post("/:id/stock-out", invHandler.StockOut)

	alerts := api.Group("/alerts", requireAuth)
	alerts.Post("/", alertHandler.CreateAlert)
	alerts.Get("/", alertHandler.GetAlerts)
	alerts.Get("/active", alertHandler.GetActiveAlerts)
	alerts.Get("/:id", alertHandler.GetAlert)
	alerts.Put("/:id/resolve", alertHandler.ResolveAlert)

	transactions := api.Group("/transactions", requireAuth)
	transactions.Post("/", txHandler.CreateTransaction)
	transactions.Get("/", txHandler.GetTransactions)
	transactions.Get("/item/:itemId", txHandler.GetItemTransactions)
	transactions.Get("/:id", txHandler.GetTransaction)

	reports := api.Group("/reports", requireAuth)
	reports.Get("/inventory", reportHandler.InventoryReport)
	reports.Get("/transactions", reportHandler.TransactionReport)

	dashboard := api.Group("/dashboard", requireAuth)
	dashboard.Get("/stats", dashHandler.GetDashboardStats)
	dashboard.Get("/stock-movement", dashHandler.GetStockMovement)

	// WebSocket Route
	if opts.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
		app.Get("/ws", websocket.New(opts.Hub.Serve))
	}
}

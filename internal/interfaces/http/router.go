package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/warung-pos/internal/application/analytics"
	"github.com/jhoicas/warung-pos/internal/application/auth"
	"github.com/jhoicas/warung-pos/internal/application/billing"
	"github.com/jhoicas/warung-pos/internal/application/catalog"
	"github.com/jhoicas/warung-pos/internal/application/checkout"
	"github.com/jhoicas/warung-pos/internal/application/directory"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
	"github.com/jhoicas/warung-pos/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName     string
	Sessions    *auth.SessionManager
	Catalog     *catalog.Catalog
	Directory   *directory.Directory
	Engine      *checkout.Engine
	HistoryUC   *analytics.HistoryUseCase
	DashboardUC *analytics.DashboardUseCase
	ReceiptUC   *billing.ReceiptUseCase
}

// Router registra las rutas de la API local de la terminal.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(Metrics())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")

	// Auth (login es público)
	authHandler := NewAuthHandler(deps.Sessions, deps.Engine)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", RequireSession(deps.Sessions), authHandler.Me)

	// Rutas con sesión abierta
	protected := api.Group("/", RequireSession(deps.Sessions))
	ownerOnly := RequireRole(entity.RoleOwner)

	// Menú y categorías: lectura para todos, escritura solo OWNER
	catalogHandler := NewCatalogHandler(deps.Catalog)
	menu := protected.Group("/menu")
	menu.Get("/", catalogHandler.ListMenu)
	menu.Post("/", ownerOnly, catalogHandler.CreateItem)
	menu.Put("/:id", ownerOnly, catalogHandler.UpdateItem)
	menu.Delete("/:id", ownerOnly, catalogHandler.DeleteItem)

	categories := protected.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Post("/", ownerOnly, catalogHandler.CreateCategory)
	categories.Delete("/:id", ownerOnly, catalogHandler.DeleteCategory)

	// Cuentas (OWNER)
	accountHandler := NewAccountHandler(deps.Directory)
	accounts := protected.Group("/accounts", ownerOnly)
	accounts.Get("/", accountHandler.List)
	accounts.Post("/", accountHandler.Create)
	accounts.Put("/:username", accountHandler.Update)
	accounts.Delete("/:username", accountHandler.Delete)

	// Checkout
	checkoutHandler := NewCheckoutHandler(deps.Engine, deps.Catalog)
	co := protected.Group("/checkout")
	co.Get("/", checkoutHandler.Get)
	co.Delete("/", checkoutHandler.Abandon)
	co.Post("/items", checkoutHandler.AddItem)
	co.Patch("/items/:id", checkoutHandler.AdjustQuantity)
	co.Put("/customer", checkoutHandler.SetCustomer)
	co.Put("/tendered", checkoutHandler.SetTendered)
	co.Post("/settle", checkoutHandler.Settle)

	// Pedidos y comprobantes
	orderHandler := NewOrderHandler(deps.HistoryUC, deps.ReceiptUC)
	orders := protected.Group("/orders")
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/receipt", orderHandler.Receipt)

	// Dashboard (OWNER)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", ownerOnly, dashboardHandler.GetSummary)
}

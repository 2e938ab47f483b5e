package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-facturacion/internal/application/auth"
	"github.com/jhoicas/inventario-facturacion/internal/application/billing"
	"github.com/jhoicas/inventario-facturacion/internal/application/catalog"
	"github.com/jhoicas/inventario-facturacion/internal/application/inventory"
	"github.com/jhoicas/inventario-facturacion/internal/application/report"
	"github.com/jhoicas/inventario-facturacion/internal/application/settings"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
)

// RouterDeps dependencias para el router. SendInvoice y InvoicePDF son opcionales.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	ProductUC        *catalog.ProductUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Invoices         *billing.InvoiceUseCase
	SendInvoice      *billing.SendInvoiceUseCase
	InvoicePDF       *billing.PDFUseCase
	SalesReport      *report.SalesReportUseCase
	SettingsUC       *settings.UseCase
	Location         *time.Location
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleVendedor)

	protected.Get("/auth/me", anyRole, authHandler.Me)

	// Users (admin)
	users := protected.Group("/users", adminOnly)
	users.Post("/", authHandler.CreateUser)
	users.Get("/", authHandler.ListUsers)
	users.Put("/:id/role", authHandler.UpdateRole)

	// Products
	products := protected.Group("/products", anyRole)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Post("/:id/image", adminOnly, productHandler.UploadImage)

	// Inventory movements
	invGroup := protected.Group("/inventory", anyRole)
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Location)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)

	// Invoices
	invoices := protected.Group("/invoices", anyRole)
	invoiceHandler := NewInvoiceHandler(deps.Invoices, deps.SendInvoice, deps.InvoicePDF)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Get("/:id/print", invoiceHandler.Print)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Post("/:id/send", invoiceHandler.Send)

	// Reports (admin)
	reports := protected.Group("/reports", adminOnly)
	reportHandler := NewReportHandler(deps.SalesReport)
	reports.Get("/sales", reportHandler.Sales)
	reports.Get("/sales.csv", reportHandler.SalesCSV)
	reports.Get("/sales/print", reportHandler.SalesPrint)

	// Settings: lectura para todos, escritura admin
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	protected.Get("/settings/store", anyRole, settingsHandler.Get)
	protected.Put("/settings/store", adminOnly, settingsHandler.Update)
}

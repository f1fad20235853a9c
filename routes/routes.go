package routes

import (
	"github.com/gofiber/fiber/v2"

	"facturacion-backend/controllers"
	"facturacion-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then per-request tenant transaction (pins search_path and commits/rolls back)
	protected.Use(middlewares.TenantTx())

	// Suppliers
	protected.Post("/supplier", controllers.CreateSupplier)
	protected.Get("/suppliers", controllers.GetSuppliers)
	protected.Put("/supplier/:id", controllers.UpdateSupplier)

	// Invoices (extraction results land here)
	protected.Post("/invoice", controllers.CreateInvoice)
	protected.Get("/invoices", controllers.GetInvoices)
	protected.Get("/invoice/:id", controllers.GetInvoice)

	// Pricing workflow
	protected.Get("/invoices/:id/pricing", controllers.GetPricing)
	protected.Post("/invoices/:id/pricing", controllers.SetPricing)
	protected.Post("/invoices/:id/pricing/auto", controllers.AutoPricing)
	protected.Post("/invoices/:id/pricing/confirm", controllers.ConfirmPricing)
	protected.Get("/invoices/:id/duplicates", controllers.GetDuplicates)

	// Tenant pricing tables
	protected.Get("/settings/pricing", controllers.GetPricingSettings)
	protected.Put("/settings/pricing", controllers.UpdatePricingSettings)
}

package main

import (
	"log"
	"strings"

	"coffeeflow-backend/internal/audit"
	"coffeeflow-backend/internal/auth"
	"coffeeflow-backend/internal/config"
	"coffeeflow-backend/internal/dashboard"
	"coffeeflow-backend/internal/database"
	"coffeeflow-backend/internal/models"
	"coffeeflow-backend/internal/operators"
	"coffeeflow-backend/internal/origins"
	"coffeeflow-backend/internal/products"
	"coffeeflow-backend/internal/roasting"
	"coffeeflow-backend/internal/settings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))
	adminRoutes.Post("/users", auth.CreateUserHandler())
	adminRoutes.Post("/reset", settings.ResetDataHandler())

	// Green coffee origins
	protected.Get("/origins", origins.ListOriginsHandler())
	protected.Post("/origins", origins.CreateOriginHandler())
	protected.Put("/origins/:id", origins.UpdateOriginHandler())
	protected.Delete("/origins/:id", origins.DeleteOriginHandler())
	protected.Post("/origins/:id/duplicate", origins.DuplicateOriginHandler())
	protected.Get("/origins/export/csv", origins.ExportOriginsCSVHandler())

	// Products and costing
	protected.Get("/products", products.ListProductsHandler())
	protected.Post("/products", products.CreateProductHandler())
	protected.Put("/products/:id", products.UpdateProductHandler())
	protected.Delete("/products/:id", products.DeleteProductHandler())
	protected.Post("/products/:id/duplicate", products.DuplicateProductHandler())
	protected.Get("/products/:id/cost", products.ProductCostHandler())

	// Roasting
	protected.Get("/roasts", roasting.ListRoastsHandler())
	protected.Post("/roasts", roasting.CreateRoastHandler())
	protected.Put("/roasts/:id", roasting.UpdateRoastHandler())
	protected.Delete("/roasts/:id", roasting.DeleteRoastHandler())
	protected.Get("/roasts/:id/label", roasting.RoastLabelHandler(cfg))
	protected.Get("/roasts/export/xlsx", roasting.ExportRoastsXLSXHandler())

	// Operators
	protected.Get("/operators", operators.ListOperatorsHandler())
	protected.Post("/operators", operators.CreateOperatorHandler())
	protected.Put("/operators/:id", operators.UpdateOperatorHandler())
	protected.Delete("/operators/:id", operators.DeleteOperatorHandler())

	// Cost settings
	protected.Get("/settings/costs", settings.GetCostSettingsHandler())
	protected.Put("/settings/costs", settings.UpdateCostSettingsHandler())

	// Dashboard
	protected.Get("/dashboard/stats", dashboard.StatsHandler())

	// Audit trail
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}

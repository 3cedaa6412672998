package router

import (
	"catalog/app/auth"
	"catalog/app/category"
	"catalog/app/product"
	"catalog/internal/middleware"
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const healthTimeout = 2 * time.Second

// Database is the part of the connection pool the health check looks at.
type Database interface {
	Ping(ctx context.Context) error
	GetPoolStats() map[string]any
}

// Broker reports the state of the message broker connection.
type Broker interface {
	IsHealthy() bool
}

type Deps struct {
	Auth       *auth.Service
	Categories *category.Service
	Products   *product.Service
	Events     product.EventDispatcher
	Database   Database
	Broker     Broker
}

// New builds the HTTP application. Reads are public, every mutation and
// logout sits behind the bearer token middleware.
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return WriteError(c, err)
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())

	app.Get("/up", healthHandler(deps.Database, deps.Broker))

	authenticated := middleware.NewBearerAuthMiddleware(deps.Auth)

	api := app.Group("/api/v1")

	api.Post("/login", Handle[auth.LoginRequest, auth.LoginResponse](auth.NewLoginHandler(deps.Auth)))
	api.Post("/logout", authenticated, Handle[auth.LogoutRequest, auth.LogoutResponse](auth.NewLogoutHandler(deps.Auth)))

	api.Get("/categories", Handle[category.GetCategoriesRequest, category.GetCategoriesResponse](category.NewGetCategoriesHandler(deps.Categories)))
	api.Get("/categories/:id<int>", Handle[category.GetCategoryRequest, category.GetCategoryResponse](category.NewGetCategoryHandler(deps.Categories)))
	api.Post("/categories", authenticated, Handle[category.CreateCategoryRequest, category.CreateCategoryResponse](category.NewCreateCategoryHandler(deps.Categories)))
	api.Put("/categories/:id<int>", authenticated, Handle[category.UpdateCategoryRequest, category.UpdateCategoryResponse](category.NewUpdateCategoryHandler(deps.Categories)))
	api.Delete("/categories/:id<int>", authenticated, Handle[category.DeleteCategoryRequest, category.DeleteCategoryResponse](category.NewDeleteCategoryHandler(deps.Categories)))

	api.Get("/products", Handle[product.GetProductsRequest, product.GetProductsResponse](product.NewGetProductsHandler(deps.Products)))
	api.Get("/products/search", Handle[product.SearchProductsRequest, product.SearchProductsResponse](product.NewSearchProductsHandler(deps.Products)))
	api.Get("/products/:id<int>", Handle[product.GetProductRequest, product.GetProductResponse](product.NewGetProductHandler(deps.Products)))
	api.Post("/products", authenticated, Handle[product.CreateProductRequest, product.CreateProductResponse](product.NewCreateProductHandler(deps.Products, deps.Events)))
	api.Put("/products/:id<int>", authenticated, Handle[product.UpdateProductRequest, product.UpdateProductResponse](product.NewUpdateProductHandler(deps.Products, deps.Events)))
	api.Delete("/products/:id<int>", authenticated, Handle[product.DeleteProductRequest, product.DeleteProductResponse](product.NewDeleteProductHandler(deps.Products, deps.Events)))

	return app
}

func healthHandler(db Database, broker Broker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		status := fiber.StatusOK
		payload := fiber.Map{
			"status":   "ok",
			"database": "up",
			"pool":     db.GetPoolStats(),
			"broker":   "disabled",
		}

		if err := db.Ping(ctx); err != nil {
			status = fiber.StatusServiceUnavailable
			payload["status"] = "degraded"
			payload["database"] = "down"
		}

		if broker != nil {
			payload["broker"] = "up"
			if !broker.IsHealthy() {
				status = fiber.StatusServiceUnavailable
				payload["status"] = "degraded"
				payload["broker"] = "down"
			}
		}

		return c.Status(status).JSON(payload)
	}
}

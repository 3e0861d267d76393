package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/inventario-api/internal/application/auth"
	"github.com/tu-usuario/inventario-api/internal/application/inventory"
	"github.com/tu-usuario/inventario-api/internal/application/sales"
	"github.com/tu-usuario/inventario-api/internal/application/usecase"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	ClientUC         *usecase.ClientUseCase
	SaleUC           *sales.SaleUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
//
// Política de roles (admin pasa siempre):
//   - lecturas: cualquier usuario autenticado
//   - productos y movimientos de stock: rol stock
//   - clientes y ventas: rol ventas
//   - registro de usuarios: solo admin
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth: login público, registro solo admin
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), RequireRole(), authHandler.Register)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	requireStock := RequireRole(entity.RoleStock)
	requireVentas := RequireRole(entity.RoleVentas)

	// Products + movimientos de stock (protegido; mutaciones rol stock)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.RegisterMovement)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", requireStock, productHandler.Create)
	products.Put("/:id", requireStock, productHandler.Update)
	products.Delete("/:id", requireStock, productHandler.Delete)
	products.Post("/:id/movements", requireStock, productHandler.RegisterMovement)
	products.Post("/:id/adjust-stock", requireStock, productHandler.AdjustStock)

	// Clients (protegido; mutaciones rol ventas)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Post("/", requireVentas, clientHandler.Create)
	clients.Put("/:id", requireVentas, clientHandler.Update)
	clients.Delete("/:id", requireVentas, clientHandler.Delete)

	// Sales (protegido; creación rol ventas)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/", requireVentas, saleHandler.Create)
}

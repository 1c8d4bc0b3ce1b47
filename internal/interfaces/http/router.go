package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Create    *inventory.CreateMovementUseCase
	Approval  *inventory.ApprovalUseCase
	Loans     *inventory.LoanReturnUseCase
	Ledger    *inventory.StockLedgerUseCase
	Resolver  *inventory.AvailabilityResolver
	JWTSecret string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Movements
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.Create, deps.Approval)
	approvers := RequireRole(RoleAdmin, RoleBodeguero)
	movements.Post("/", movementHandler.Create)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Post("/:id/approve", approvers, movementHandler.Approve)
	movements.Post("/:id/reject", approvers, movementHandler.Reject)

	// Loans
	loans := protected.Group("/loans")
	loanHandler := NewLoanHandler(deps.Loans)
	loans.Get("/active", loanHandler.ListActive)
	loans.Post("/:id/returns", loanHandler.SettleReturn)
	loans.Get("/:id/returns", loanHandler.ListReturns)

	// Materials
	materialHandler := NewMaterialHandler(deps.Resolver)
	protected.Get("/materials/eligible", materialHandler.Eligible)

	// Stock
	stockHandler := NewStockHandler(deps.Ledger)
	lots := protected.Group("/stock-lots")
	lots.Post("/", stockHandler.CreateLot)
	lots.Get("/", stockHandler.ListLots)
	lots.Post("/:id/activate", stockHandler.Activate)
	lots.Post("/:id/deactivate", stockHandler.Deactivate)
	lots.Delete("/:id", stockHandler.Delete)
	protected.Get("/stock/available", stockHandler.Available)
}

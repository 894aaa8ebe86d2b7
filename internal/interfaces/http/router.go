package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/banreservas/movimientos-prestamo-api/pkg/logger"
)

// RoleLoanMovements rol autorizado sobre la operación (cuando hay JWT activo).
const RoleLoanMovements = "ultimos-movimientos-prestamo-crm"

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Movements LoanMovementsService
	Log       *logger.Logger
	JWTSecret string // vacío = endpoint sin autenticación
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	v1 := app.Group("/v1")

	handler := NewMovementsHandler(deps.Movements, deps.Log)

	if deps.JWTSecret != "" {
		v1.Post("/ultimos-movimientos-prestamo",
			AuthMiddleware(deps.JWTSecret),
			RequireRole(RoleLoanMovements),
			handler.GetLoanMovements,
		)
		return
	}
	v1.Post("/ultimos-movimientos-prestamo", handler.GetLoanMovements)
}

package movimientos

import (
	"context"

	"github.com/banreservas/movimientos-prestamo-api/internal/infrastructure/soap"
)

// BackendInvoker puerto hacia el invocador resiliente del WS de movimientos.
// La implementación real compone transporte + reintentos + circuit breaker;
// para tests se inyecta un fake.
type BackendInvoker interface {
	Invoke(ctx context.Context, envelope string) (soap.Outcome, error)
}

// TaskPool puerto hacia el pool de workers que despacha el round-trip
// saliente fuera del hilo que atiende el request.
type TaskPool interface {
	Submit(ctx context.Context, task func()) error
}

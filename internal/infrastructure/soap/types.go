// Package soap implementa la interacción saliente con el servicio SOAP
// movimientosPrestamo del core: construcción del envelope, transporte,
// clasificación del resultado externo y mapeo del payload interno.
package soap

import "context"

// ── Puerto de transporte ──────────────────────────────────────────────────────

// BackendTransport define el puerto de salida hacia el WS de movimientos.
// La implementación concreta usa HTTP; para tests se puede inyectar un fake.
type BackendTransport interface {
	// Send envía el envelope SOAP y devuelve el cuerpo XML crudo de la respuesta.
	Send(ctx context.Context, envelope string) (string, error)
}

// ── Resultado clasificado ─────────────────────────────────────────────────────

// OutcomeKind las tres salidas posibles del backend.
type OutcomeKind int

const (
	// OutcomeSuccess errorType SUCCESS con código 000: hay payload interno.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeNotFound errorType FUNCTIONAL con código WAS01: no hay datos.
	// Es terminal; reintentar no cambia la respuesta.
	OutcomeNotFound
	// OutcomeError cualquier otra combinación de tipo y código.
	OutcomeError
)

// Outcome resultado clasificado de una respuesta del backend.
// Se produce una sola vez por round-trip y se consume una sola vez.
type Outcome struct {
	Kind    OutcomeKind
	Payload string // XML interno con los movimientos (solo en Success)
	Code    string // errorCode del backend (NotFound y Error)
	Message string // errorMessage del backend (Error)
}

// Package movimientos orquesta la consulta de últimos movimientos de préstamo:
// ventana de fechas → envelope SOAP → invocación resiliente → clasificación →
// mapeo de movimientos → cursor de paginación.
package movimientos

import (
	"context"
	"fmt"
	"time"

	"github.com/banreservas/movimientos-prestamo-api/internal/domain"
	"github.com/banreservas/movimientos-prestamo-api/internal/domain/daterange"
	"github.com/banreservas/movimientos-prestamo-api/internal/domain/entity"
	"github.com/banreservas/movimientos-prestamo-api/internal/infrastructure/soap"
	"github.com/banreservas/movimientos-prestamo-api/pkg/config"
	"github.com/banreservas/movimientos-prestamo-api/pkg/logger"
)

// UseCase caso de uso de últimos movimientos de préstamo.
type UseCase struct {
	invoker BackendInvoker
	pool    TaskPool
	query   config.QueryConfig
	log     *logger.Logger
	now     func() time.Time
}

// NewUseCase construye el caso de uso. now se puede sobreescribir en tests
// con WithClock.
func NewUseCase(invoker BackendInvoker, pool TaskPool, query config.QueryConfig, log *logger.Logger) *UseCase {
	return &UseCase{
		invoker: invoker,
		pool:    pool,
		query:   query,
		log:     log,
		now:     time.Now,
	}
}

// WithClock fija el reloj inyectado (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

type invokeResult struct {
	outcome soap.Outcome
	err     error
}

// GetLoanMovements consulta los movimientos del producto en el backend SOAP.
//
// Los pasos de una misma consulta son estrictamente secuenciales; el único
// punto de suspensión es el round-trip de transporte, que se despacha al pool
// de workers y se espera por canal.
//
// Errores: domain.ErrValidation (entrada incompleta), domain.
// ErrMovimientosNoEncontrados (WAS01), domain.ErrCircuitOpen,
// *domain.TransportError y *domain.BusinessError (reintentos agotados).
func (uc *UseCase) GetLoanMovements(ctx context.Context, params entity.RequestParameters,
	rc entity.RequestContext) (*entity.ProductMovements, error) {

	if !params.Validate() {
		return nil, fmt.Errorf("%w: productNumber, productLine y currency son obligatorios", domain.ErrValidation)
	}

	log := uc.log.WithSession(rc.SessionID)
	log.Info().Str("producto", params.ProductNumber).Msg("iniciando consulta de movimientos")

	window := daterange.ComputeWindow(uc.query.MesesAtras, uc.now())

	envelope, err := soap.BuildEnvelope(params, rc, window, uc.query)
	if err != nil {
		return nil, err
	}

	outcome, err := uc.dispatch(ctx, envelope)
	if err != nil {
		return nil, err
	}

	if outcome.Kind == soap.OutcomeNotFound {
		log.Warn().Str("producto", params.ProductNumber).
			Msg("WAS01: el backend no tiene movimientos para el producto")
		return nil, fmt.Errorf("%w: %s", domain.ErrMovimientosNoEncontrados, params.ProductNumber)
	}

	movements, err := soap.MapMovements(outcome.Payload)
	if err != nil {
		// El resultado externo fue SUCCESS pero el payload interno no parsea:
		// mismo tratamiento que una respuesta malformada.
		return nil, &domain.TransportError{Cause: err}
	}

	aggregate := entity.NewProductMovements(params.ProductNumber, params.ProductLine, params.Currency, movements)

	log.Info().Str("producto", params.ProductNumber).Int("movimientos", len(movements)).
		Msg("consulta de movimientos completada")

	return aggregate, nil
}

// dispatch envía la invocación al pool de workers y espera el resultado,
// respetando la cancelación del contexto del request.
func (uc *UseCase) dispatch(ctx context.Context, envelope string) (soap.Outcome, error) {
	resultCh := make(chan invokeResult, 1)

	err := uc.pool.Submit(ctx, func() {
		outcome, err := uc.invoker.Invoke(ctx, envelope)
		resultCh <- invokeResult{outcome: outcome, err: err}
	})
	if err != nil {
		return soap.Outcome{}, &domain.TransportError{Cause: err}
	}

	select {
	case r := <-resultCh:
		return r.outcome, r.err
	case <-ctx.Done():
		return soap.Outcome{}, &domain.TransportError{Cause: ctx.Err()}
	}
}

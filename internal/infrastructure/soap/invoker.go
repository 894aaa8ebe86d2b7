package soap

import (
	"context"
	"errors"

	"github.com/banreservas/movimientos-prestamo-api/internal/domain"
	"github.com/banreservas/movimientos-prestamo-api/internal/infrastructure/resilience"
	"github.com/banreservas/movimientos-prestamo-api/pkg/logger"
)

// Invoker ejecuta el envelope contra el transporte bajo las políticas de
// reintento y circuit breaker, y devuelve el resultado ya clasificado.
//
// Dos reglas ortogonales que no deben mezclarse:
//   - WAS01 (NotFound) no se reintenta: repetir una consulta legítima sin
//     datos desperdicia capacidad del backend y no cambia la respuesta.
//   - Para el breaker, WAS01 cuenta como éxito: el backend respondió bien.
type Invoker struct {
	transport BackendTransport
	breaker   *resilience.CircuitBreaker
	retry     resilience.RetryPolicy
	log       *logger.Logger
}

// NewInvoker compone el invocador. La política de reintentos recibe aquí su
// predicado: solo fallas de transporte y errores de negocio son reintentables;
// circuito abierto corta de inmediato y NotFound ni siquiera llega como error.
func NewInvoker(transport BackendTransport, breaker *resilience.CircuitBreaker,
	retry resilience.RetryPolicy, log *logger.Logger) *Invoker {

	retry.Retryable = func(err error) bool {
		var te *domain.TransportError
		var be *domain.BusinessError
		return errors.As(err, &te) || errors.As(err, &be)
	}
	return &Invoker{transport: transport, breaker: breaker, retry: retry, log: log}
}

// Invoke envía el envelope y clasifica la respuesta. Devuelve el Outcome en
// éxito o NotFound; en falla devuelve domain.ErrCircuitOpen, *TransportError
// o *BusinessError según corresponda (el último error tras agotar intentos).
func (i *Invoker) Invoke(ctx context.Context, envelope string) (Outcome, error) {
	var out Outcome

	err := i.retry.Do(ctx, func(ctx context.Context) error {
		if err := i.breaker.Allow(); err != nil {
			i.log.Warn().Str("estado", i.breaker.State().String()).
				Msg("circuito abierto, se omite el intento de transporte")
			return err
		}

		raw, err := i.transport.Send(ctx, envelope)
		if err != nil {
			i.breaker.RecordFailure()
			i.log.Error().Err(err).Msg("falla de transporte hacia el backend")
			return &domain.TransportError{Cause: err}
		}

		outcome, err := Classify(raw)
		if err != nil {
			// Estructura externa malformada: error de protocolo, misma clase
			// que una falla de transporte.
			i.breaker.RecordFailure()
			i.log.Error().Err(err).Msg("respuesta del backend no clasificable")
			return &domain.TransportError{Cause: err}
		}

		switch outcome.Kind {
		case OutcomeNotFound:
			i.breaker.RecordSuccess()
			out = outcome
			return nil
		case OutcomeSuccess:
			i.breaker.RecordSuccess()
			out = outcome
			return nil
		default:
			i.breaker.RecordFailure()
			i.log.Warn().Str("errorCode", outcome.Code).Str("errorMessage", outcome.Message).
				Msg("error de negocio del backend, sujeto a reintento")
			return &domain.BusinessError{Code: outcome.Code, Message: outcome.Message}
		}
	})
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}

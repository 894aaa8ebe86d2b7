// Package resilience implementa las políticas de reintento y circuit breaker
// hacia el backend como objetos explícitos, en lugar de anotaciones declarativas.
package resilience

import (
	"context"
	"time"
)

// RetryPolicy política de reintentos con espera fija entre intentos.
// Retryable decide si un error amerita otro intento; un error no reintentable
// corta el ciclo de inmediato y se devuelve tal cual.
type RetryPolicy struct {
	MaxAttempts int           // intentos totales, incluye el primero
	Delay       time.Duration // espera fija entre intentos
	Retryable   func(error) bool
}

// Do ejecuta fn hasta MaxAttempts veces. Devuelve nil en el primer intento
// exitoso, el error de inmediato si no es reintentable, o el último error si
// se agotan los intentos. La espera respeta la cancelación del contexto.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		if werr := p.wait(ctx); werr != nil {
			return werr
		}
	}
	return err
}

func (p RetryPolicy) wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

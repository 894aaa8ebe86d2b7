package soap_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banreservas/movimientos-prestamo-api/internal/domain"
	"github.com/banreservas/movimientos-prestamo-api/internal/infrastructure/resilience"
	"github.com/banreservas/movimientos-prestamo-api/internal/infrastructure/soap"
	"github.com/banreservas/movimientos-prestamo-api/pkg/logger"
)

// transporteFake devuelve respuestas preparadas en secuencia y cuenta llamadas.
type transporteFake struct {
	respuestas []string
	errores    []error
	llamadas   int
}

func (f *transporteFake) Send(ctx context.Context, envelope string) (string, error) {
	i := f.llamadas
	f.llamadas++
	if i >= len(f.respuestas) {
		i = len(f.respuestas) - 1
	}
	return f.respuestas[i], f.errores[i]
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func newTestInvoker(transport soap.BackendTransport) (*soap.Invoker, *resilience.CircuitBreaker) {
	breaker := resilience.NewCircuitBreaker(resilience.BreakerConfig{
		WindowSize:   4,
		FailureRatio: 0.5,
		Cooldown:     time.Second,
	})
	retry := resilience.RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}
	return soap.NewInvoker(transport, breaker, retry, testLogger()), breaker
}

func TestInvoker_ExitoSinReintentos(t *testing.T) {
	fake := &transporteFake{
		respuestas: []string{respuesta("SUCCESS", "000", "", "&lt;MovimientosPrestamo/&gt;")},
		errores:    []error{nil},
	}
	invoker, breaker := newTestInvoker(fake)

	outcome, err := invoker.Invoke(context.Background(), "<envelope/>")
	require.NoError(t, err)
	assert.Equal(t, soap.OutcomeSuccess, outcome.Kind)
	assert.Equal(t, 1, fake.llamadas)
	assert.Equal(t, resilience.StateClosed, breaker.State())
}

func TestInvoker_NotFoundNoSeReintenta(t *testing.T) {
	fake := &transporteFake{
		respuestas: []string{respuesta("FUNCTIONAL", "WAS01", "sin datos", "")},
		errores:    []error{nil},
	}
	invoker, breaker := newTestInvoker(fake)

	outcome, err := invoker.Invoke(context.Background(), "<envelope/>")
	require.NoError(t, err)
	assert.Equal(t, soap.OutcomeNotFound, outcome.Kind)
	assert.Equal(t, 1, fake.llamadas,
		"WAS01 es terminal: un segundo intento de transporte desperdicia capacidad del backend")
	assert.Equal(t, resilience.StateClosed, breaker.State(),
		"para el breaker WAS01 cuenta como éxito: el backend respondió correctamente")
}

func TestInvoker_ErrorDeNegocioSeReintentaTresVecesYSeSurfacea(t *testing.T) {
	fake := &transporteFake{
		respuestas: []string{respuesta("FUNCTIONAL", "ERR99", "boom", "")},
		errores:    []error{nil},
	}
	invoker, _ := newTestInvoker(fake)

	_, err := invoker.Invoke(context.Background(), "<envelope/>")
	require.Error(t, err)

	var be *domain.BusinessError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "ERR99", be.Code)
	assert.Equal(t, "boom", be.Message)
	assert.Equal(t, 3, fake.llamadas, "agotó los 3 intentos antes de surfacear")
}

func TestInvoker_FallaDeTransporteSeReintenta(t *testing.T) {
	ok := respuesta("SUCCESS", "000", "", "")
	fake := &transporteFake{
		respuestas: []string{"", "", ok},
		errores:    []error{errors.New("connection reset"), errors.New("timeout"), nil},
	}
	invoker, _ := newTestInvoker(fake)

	outcome, err := invoker.Invoke(context.Background(), "<envelope/>")
	require.NoError(t, err, "la tercera llamada recupera la falla transitoria")
	assert.Equal(t, soap.OutcomeSuccess, outcome.Kind)
	assert.Equal(t, 3, fake.llamadas)
}

func TestInvoker_RespuestaMalformadaEsFallaDeProtocolo(t *testing.T) {
	fake := &transporteFake{
		respuestas: []string{"<sin-campos/>"},
		errores:    []error{nil},
	}
	invoker, _ := newTestInvoker(fake)

	_, err := invoker.Invoke(context.Background(), "<envelope/>")
	require.Error(t, err)

	var te *domain.TransportError
	assert.ErrorAs(t, err, &te, "estructura externa malformada se trata como falla de transporte")
	assert.Equal(t, 3, fake.llamadas, "y por lo tanto se reintenta")
}

func TestInvoker_CircuitoAbiertoFallaRapidoSinTransporte(t *testing.T) {
	fake := &transporteFake{
		respuestas: []string{""},
		errores:    []error{errors.New("connection refused")},
	}
	invoker, breaker := newTestInvoker(fake)

	// Dos invocaciones fallidas con 3 intentos cada una: la ventana de 4 se
	// llena de fallas y el circuito abre.
	_, _ = invoker.Invoke(context.Background(), "<envelope/>")
	_, _ = invoker.Invoke(context.Background(), "<envelope/>")
	require.Equal(t, resilience.StateOpen, breaker.State())

	llamadasAntes := fake.llamadas
	_, err := invoker.Invoke(context.Background(), "<envelope/>")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCircuitOpen)
	assert.Equal(t, llamadasAntes, fake.llamadas,
		"abierto: no debe tocar el transporte en absoluto")
}

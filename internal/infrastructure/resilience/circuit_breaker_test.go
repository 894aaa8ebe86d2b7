package resilience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banreservas/movimientos-prestamo-api/internal/domain"
)

// relojFijo reloj manual para controlar el cooldown sin dormir en los tests.
type relojFijo struct {
	t time.Time
}

func (r *relojFijo) now() time.Time         { return r.t }
func (r *relojFijo) avanza(d time.Duration) { r.t = r.t.Add(d) }

func newTestBreaker() (*CircuitBreaker, *relojFijo) {
	b := NewCircuitBreaker(BreakerConfig{
		WindowSize:   4,
		FailureRatio: 0.5,
		Cooldown:     time.Second,
	})
	reloj := &relojFijo{t: time.Date(2025, time.July, 22, 0, 0, 0, 0, time.UTC)}
	b.now = reloj.now
	return b, reloj
}

func TestBreaker_CerradoPermiteLlamadas(t *testing.T) {
	b, _ := newTestBreaker()
	assert.NoError(t, b.Allow())
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_AbreConCuatroFallasConsecutivas(t *testing.T) {
	b, _ := newTestBreaker()

	for i := 0; i < 4; i++ {
		require.NoError(t, b.Allow())
		b.RecordFailure()
	}

	assert.Equal(t, StateOpen, b.State())
	err := b.Allow()
	require.Error(t, err, "abierto: debe fallar rápido sin intentar transporte")
	assert.ErrorIs(t, err, domain.ErrCircuitOpen)
}

func TestBreaker_NoEvaluaAntesDelVolumenMinimo(t *testing.T) {
	b, _ := newTestBreaker()

	// 3 fallas con ventana de 4: aún no hay volumen para evaluar la proporción.
	for i := 0; i < 3; i++ {
		b.RecordFailure()
	}
	assert.Equal(t, StateClosed, b.State())
	assert.NoError(t, b.Allow())
}

func TestBreaker_MitadDeFallasAbreElCircuito(t *testing.T) {
	b, _ := newTestBreaker()

	b.RecordSuccess()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure() // 2/4 = 0.5 >= 0.5

	assert.Equal(t, StateOpen, b.State())
}

func TestBreaker_SemiabiertoTrasCooldownYUnaSolaSonda(t *testing.T) {
	b, reloj := newTestBreaker()
	for i := 0; i < 4; i++ {
		b.RecordFailure()
	}
	require.Equal(t, StateOpen, b.State())

	// Antes del cooldown: sigue abierto.
	reloj.avanza(500 * time.Millisecond)
	assert.ErrorIs(t, b.Allow(), domain.ErrCircuitOpen)

	// Vencido el cooldown: pasa a semiabierto y deja pasar exactamente una sonda.
	reloj.avanza(600 * time.Millisecond)
	assert.NoError(t, b.Allow(), "la primera llamada tras el cooldown es la sonda")
	assert.Equal(t, StateHalfOpen, b.State())
	assert.ErrorIs(t, b.Allow(), domain.ErrCircuitOpen,
		"mientras la sonda está en vuelo no pasan más llamadas")
}

func TestBreaker_SondaExitosaCierraElCircuito(t *testing.T) {
	b, reloj := newTestBreaker()
	for i := 0; i < 4; i++ {
		b.RecordFailure()
	}
	reloj.avanza(2 * time.Second)
	require.NoError(t, b.Allow())

	b.RecordSuccess()
	assert.Equal(t, StateClosed, b.State())
	assert.NoError(t, b.Allow())
}

func TestBreaker_SondaFallidaReabreElCircuito(t *testing.T) {
	b, reloj := newTestBreaker()
	for i := 0; i < 4; i++ {
		b.RecordFailure()
	}
	reloj.avanza(2 * time.Second)
	require.NoError(t, b.Allow())

	b.RecordFailure()
	assert.Equal(t, StateOpen, b.State())
	assert.ErrorIs(t, b.Allow(), domain.ErrCircuitOpen, "corre un nuevo cooldown completo")

	// Y tras otro cooldown vuelve a permitir una sonda.
	reloj.avanza(2 * time.Second)
	assert.NoError(t, b.Allow())
}

func TestBreaker_ExitosNoAbrenElCircuito(t *testing.T) {
	b, _ := newTestBreaker()
	for i := 0; i < 10; i++ {
		b.RecordSuccess()
	}
	assert.Equal(t, StateClosed, b.State())
}

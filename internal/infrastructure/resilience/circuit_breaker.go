package resilience

import (
	"sync"
	"time"

	"github.com/banreservas/movimientos-prestamo-api/internal/domain"
)

// Estados del circuito.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// String para logging.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// BreakerConfig parámetros del circuit breaker.
type BreakerConfig struct {
	WindowSize   int           // volumen mínimo de requests antes de evaluar la proporción
	FailureRatio float64       // proporción de fallas que abre el circuito
	Cooldown     time.Duration // tiempo en abierto antes de permitir una sonda
}

// CircuitBreaker breaker con ventana rodante de resultados. Es el único estado
// mutable compartido entre requests concurrentes hacia el mismo backend, por lo
// que toda mutación va bajo el mutex.
//
// Máquina de estados: Closed -> (proporción excedida) -> Open ->
// (cooldown vencido) -> HalfOpen -> (sonda exitosa) -> Closed;
// HalfOpen -> (sonda fallida) -> Open.
type CircuitBreaker struct {
	mu sync.Mutex

	cfg      BreakerConfig
	state    State
	window   []bool // true = falla; ring buffer de los últimos resultados
	next     int    // posición de escritura en el ring
	count    int    // resultados registrados (hasta WindowSize)
	openedAt time.Time
	probing  bool // en HalfOpen: ya hay una sonda en vuelo

	now func() time.Time // inyectable para tests
}

// NewCircuitBreaker construye el breaker en estado cerrado.
func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	if cfg.WindowSize < 1 {
		cfg.WindowSize = 1
	}
	return &CircuitBreaker{
		cfg:    cfg,
		state:  StateClosed,
		window: make([]bool, cfg.WindowSize),
		now:    time.Now,
	}
}

// Allow decide si se permite intentar una llamada. En abierto devuelve
// domain.ErrCircuitOpen sin tocar el transporte; vencido el cooldown pasa a
// semiabierto y deja pasar exactamente una sonda.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.Cooldown {
			return domain.ErrCircuitOpen
		}
		b.state = StateHalfOpen
		b.probing = true
		return nil
	default: // StateHalfOpen
		if b.probing {
			return domain.ErrCircuitOpen
		}
		b.probing = true
		return nil
	}
}

// RecordSuccess registra un resultado exitoso. Una respuesta WAS01 del backend
// cuenta aquí: el backend respondió correctamente aunque no haya datos.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		// Sonda exitosa: el backend se recuperó.
		b.reset(StateClosed)
		return
	}
	b.record(false)
}

// RecordFailure registra una falla de transporte o de negocio.
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		// Sonda fallida: se reabre el circuito y corre un nuevo cooldown.
		b.reset(StateOpen)
		b.openedAt = b.now()
		return
	}
	b.record(true)
	if b.count >= b.cfg.WindowSize && b.failureRatio() >= b.cfg.FailureRatio {
		b.reset(StateOpen)
		b.openedAt = b.now()
	}
}

// State devuelve el estado actual (para logging y métricas de salud).
func (b *CircuitBreaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *CircuitBreaker) record(failure bool) {
	b.window[b.next] = failure
	b.next = (b.next + 1) % b.cfg.WindowSize
	if b.count < b.cfg.WindowSize {
		b.count++
	}
}

func (b *CircuitBreaker) failureRatio() float64 {
	if b.count == 0 {
		return 0
	}
	failures := 0
	for i := 0; i < b.count; i++ {
		if b.window[i] {
			failures++
		}
	}
	return float64(failures) / float64(b.count)
}

// reset limpia la ventana y deja el breaker en el estado indicado.
func (b *CircuitBreaker) reset(s State) {
	b.state = s
	b.window = make([]bool, b.cfg.WindowSize)
	b.next = 0
	b.count = 0
	b.probing = false
}

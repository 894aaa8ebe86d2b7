// Package workers implementa el pool acotado que despacha las llamadas
// salientes al backend, de modo que el hilo que atiende el request HTTP nunca
// queda bloqueado directamente sobre el I/O síncrono del transporte.
package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/banreservas/movimientos-prestamo-api/pkg/logger"
)

// Task unidad de trabajo. El contexto del request viaja capturado en el closure.
// Es un alias para que el pool satisfaga los puertos de la capa de aplicación.
type Task = func()

type job struct {
	id   string
	task Task
}

// Pool pool acotado de workers sobre un canal con buffer. Seguro para uso
// concurrente; Submit bloquea cuando la cola está llena.
type Pool struct {
	jobs    chan job
	closeCh chan struct{}
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	log     *logger.Logger
}

// NewPool arranca size workers con una cola de queueSize tareas pendientes.
func NewPool(size, queueSize int, log *logger.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	p := &Pool{
		jobs:    make(chan job, queueSize),
		closeCh: make(chan struct{}),
		log:     log,
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

// Submit encola la tarea. Respeta la cancelación del contexto mientras espera
// lugar en la cola; devuelve error si el pool ya está cerrado.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return fmt.Errorf("workers: pool cerrado")
	}

	j := job{id: uuid.New().String(), task: task}
	select {
	case p.jobs <- j:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.closeCh:
		return fmt.Errorf("workers: pool cerrado")
	}
}

// Close cierra la cola y espera a que los workers terminen las tareas en curso.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.closeCh)
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		p.run(j)
	}
}

func (p *Pool) run(j job) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Str("jobId", j.id).Interface("panic", r).
				Msg("tarea del pool terminó en panic")
		}
	}()
	j.task()
}

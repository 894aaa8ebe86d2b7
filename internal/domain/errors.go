package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	// ErrValidation entrada inválida: campos del producto o headers obligatorios vacíos.
	ErrValidation = errors.New("entrada inválida")
	// ErrMovimientosNoEncontrados el backend respondió WAS01: no existen movimientos
	// para el producto consultado. No es una falla del servicio.
	ErrMovimientosNoEncontrados = errors.New("no se encontraron movimientos para el producto")
	// ErrCircuitOpen el circuito hacia el backend está abierto; se falla rápido sin intentar transporte.
	ErrCircuitOpen = errors.New("circuito abierto hacia el servicio de movimientos")
)

// TransportError falla de transporte hacia el backend SOAP: red, timeout o
// respuesta con estructura externa inválida. Es reintentable por política.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error de transporte hacia el backend: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// BusinessError error de negocio reportado por el backend con un código distinto
// de éxito y de WAS01. La causa puede ser transitoria, por lo que se reintenta.
type BusinessError struct {
	Code    string
	Message string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("error del servicio SOAP [%s]: %s", e.Code, e.Message)
}

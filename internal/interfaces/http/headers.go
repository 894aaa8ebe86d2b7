package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Headers obligatorios de toda consulta. El backend exige los cinco últimos
// para autenticación y trazabilidad; sessionId correlaciona los logs.
const (
	HeaderSessionID = "sessionId"
	HeaderChannel   = "channel"
	HeaderUser      = "user"
	HeaderDateTime  = "dateTime"
	HeaderTerminal  = "terminal"
	HeaderOperation = "operation"
)

// HeadersValid resultado de una validación de headers sin fallas.
const HeadersValid = "valid"

var requiredHeaders = []string{
	HeaderSessionID,
	HeaderChannel,
	HeaderUser,
	HeaderDateTime,
	HeaderTerminal,
	HeaderOperation,
}

// validateRequestHeaders verifica que los headers obligatorios estén presentes
// y no vacíos. Devuelve "valid" o el mensaje del primer header faltante.
func validateRequestHeaders(c *fiber.Ctx) string {
	for _, h := range requiredHeaders {
		if c.Get(h) == "" {
			return fmt.Sprintf("el encabezado %s es obligatorio y no está presente o está vacío", h)
		}
	}
	return HeadersValid
}

package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/banreservas/movimientos-prestamo-api/internal/application/dto"
	"github.com/banreservas/movimientos-prestamo-api/internal/domain"
	"github.com/banreservas/movimientos-prestamo-api/internal/domain/entity"
	"github.com/banreservas/movimientos-prestamo-api/pkg/logger"
)

// Mensajes del header lógico de respuesta.
const (
	MessageSuccess         = "Exitoso"
	MessageNotFound        = "No se encontraron movimientos para el producto"
	MessageInternalError   = "Error interno del servidor"
	MessageUnavailable     = "Servicio de movimientos no disponible"
	MessageInvalidBody     = "Cuerpo de la solicitud inválido"
	MessageMissingFields   = "productNumber, productLine y currency son obligatorios"
)

// LoanMovementsService puerto hacia el caso de uso de movimientos.
type LoanMovementsService interface {
	GetLoanMovements(ctx context.Context, params entity.RequestParameters,
		rc entity.RequestContext) (*entity.ProductMovements, error)
}

// MovementsHandler maneja las peticiones HTTP de últimos movimientos de préstamo.
type MovementsHandler struct {
	svc LoanMovementsService
	log *logger.Logger
}

// NewMovementsHandler construye el handler.
func NewMovementsHandler(svc LoanMovementsService, log *logger.Logger) *MovementsHandler {
	return &MovementsHandler{svc: svc, log: log}
}

// GetLoanMovements godoc
// @Summary      Últimos movimientos de préstamo
// @Description  Consulta el historial de movimientos del producto en el core
//
//	vía SOAP y lo devuelve normalizado con cursor de paginación.
//
// @Tags         movimientos
// @Accept       json
// @Produce      json
// @Param        sessionId  header  string  true  "Id de sesión para trazabilidad"
// @Param        channel    header  string  true  "Canal consumidor"
// @Param        user       header  string  true  "Usuario del canal"
// @Param        dateTime   header  string  true  "Fecha/hora de la solicitud"
// @Param        terminal   header  string  true  "Terminal de origen"
// @Param        operation  header  string  true  "Operación solicitada"
// @Param        body  body  dto.MovementsRequest  true  "productNumber, productLine, currency"
// @Success      200  {object}  dto.MovementsResponse
// @Failure      400  {object}  dto.MovementsResponse
// @Failure      404  {object}  dto.MovementsResponse
// @Failure      500  {object}  dto.MovementsResponse
// @Failure      503  {object}  dto.MovementsResponse
// @Router       /v1/ultimos-movimientos-prestamo [post]
func (h *MovementsHandler) GetLoanMovements(c *fiber.Ctx) error {
	sessionID := c.Get(HeaderSessionID)
	log := h.log.WithSession(sessionID)

	if result := validateRequestHeaders(c); result != HeadersValid {
		log.Warn().Str("detalle", result).Msg("validación de headers falló")
		return respondError(c, fiber.StatusBadRequest, result, sessionID)
	}

	var in dto.MovementsRequest
	if err := c.BodyParser(&in); err != nil {
		log.Warn().Err(err).Msg("cuerpo de la solicitud no parseable")
		return respondError(c, fiber.StatusBadRequest, MessageInvalidBody, sessionID)
	}

	params := entity.RequestParameters{
		ProductNumber: in.ProductNumber,
		ProductLine:   in.ProductLine,
		Currency:      in.Currency,
	}
	rc := entity.RequestContext{
		SessionID: sessionID,
		Channel:   c.Get(HeaderChannel),
		Timestamp: c.Get(HeaderDateTime),
		Terminal:  c.Get(HeaderTerminal),
		User:      c.Get(HeaderUser),
	}

	product, err := h.svc.GetLoanMovements(c.Context(), params, rc)
	if err != nil {
		return h.mapError(c, err, sessionID)
	}

	resp := dto.NewMovementsResponse(fiber.StatusOK, MessageSuccess, product)
	setEchoHeaders(c)
	return c.Status(fiber.StatusOK).JSON(resp)
}

// mapError traduce la taxonomía de errores del dominio a estados HTTP.
func (h *MovementsHandler) mapError(c *fiber.Ctx, err error, sessionID string) error {
	log := h.log.WithSession(sessionID)

	switch {
	case errors.Is(err, domain.ErrValidation):
		log.Warn().Err(err).Msg("solicitud inválida")
		return respondError(c, fiber.StatusBadRequest, err.Error(), sessionID)
	case errors.Is(err, domain.ErrMovimientosNoEncontrados):
		// No es una falla: el backend respondió que no hay datos.
		return respondError(c, fiber.StatusNotFound, MessageNotFound, sessionID)
	case errors.Is(err, domain.ErrCircuitOpen):
		log.Error().Err(err).Msg("circuito abierto hacia el backend")
		return respondError(c, fiber.StatusServiceUnavailable, MessageUnavailable, sessionID)
	}

	var be *domain.BusinessError
	if errors.As(err, &be) {
		log.Error().Str("errorCode", be.Code).Str("errorMessage", be.Message).
			Msg("error de negocio del backend tras agotar reintentos")
		return respondError(c, fiber.StatusInternalServerError, be.Message, sessionID)
	}

	log.Error().Err(err).Msg("el servicio de movimientos falló")
	return respondError(c, fiber.StatusInternalServerError, MessageInternalError, sessionID)
}

// respondError arma la respuesta de error con el envelope estándar y body vacío.
func respondError(c *fiber.Ctx, status int, message, sessionID string) error {
	c.Set(HeaderSessionID, sessionID)
	return c.Status(status).JSON(dto.NewMovementsResponse(status, message, nil))
}

// setEchoHeaders devuelve al consumidor los headers de trazabilidad recibidos.
func setEchoHeaders(c *fiber.Ctx) {
	for _, h := range requiredHeaders {
		c.Set(h, c.Get(h))
	}
}

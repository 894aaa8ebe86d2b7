package soap

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/banreservas/movimientos-prestamo-api/internal/domain/entity"
)

// Tags del payload interno con la lista de movimientos.
const (
	tagMovimiento        = "MovimientoPrestamo"
	tagNumeroTransaccion = "NumeroTransaccion"
	tagFecha             = "Fecha"
	tagMontoMovimiento   = "MontoMovimiento"
	tagConcepto          = "Concepto"
	tagCausal            = "Causal"
	tagIdUnico           = "IdUnico"
)

// MapMovements parsea el payload interno y devuelve los movimientos en el
// orden en que el backend los devolvió; nunca ordena ni deduplica. Un payload
// sin elementos MovimientoPrestamo produce una lista vacía, no un error.
//
// Regla de estado: COMPLETED cuando el movimiento trae número de transacción,
// UNKNOWN en caso contrario. El backend no envía estado explícito y el campo
// TipoMovimiento, cuando aparece, se ignora.
//
// Política de montos (con pérdida, documentada): un MontoMovimiento que no
// parsea como decimal se registra en cero. Un monto cero no garantiza que la
// transacción no tuviera valor.
func MapMovements(innerPayload string) ([]entity.Movement, error) {
	if strings.TrimSpace(innerPayload) == "" {
		return []entity.Movement{}, nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(innerPayload); err != nil {
		return nil, fmt.Errorf("payload interno de movimientos inválido: %w", err)
	}

	elements := doc.FindElements("//" + tagMovimiento)
	movements := make([]entity.Movement, 0, len(elements))
	for _, el := range elements {
		movements = append(movements, extractMovement(el))
	}
	return movements, nil
}

func extractMovement(el *etree.Element) entity.Movement {
	transactionNumber := childText(el, tagNumeroTransaccion)

	status := entity.EstadoDesconocido
	if strings.TrimSpace(transactionNumber) != "" {
		status = entity.EstadoCompletado
	}

	return entity.Movement{
		Currency:          entity.MonedaPorDefecto,
		Amount:            parseAmount(childText(el, tagMontoMovimiento)),
		Date:              childText(el, tagFecha),
		Description:       childText(el, tagConcepto),
		Status:            status,
		TransactionNumber: transactionNumber,
		UniqueID:          childText(el, tagIdUnico),
		Causal:            childText(el, tagCausal),
	}
}

// parseAmount convierte el texto del monto a decimal; si no parsea, cero.
func parseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

func childText(parent *etree.Element, tag string) string {
	if el := parent.FindElement(".//" + tag); el != nil {
		return el.Text()
	}
	return ""
}

package entity

import "github.com/shopspring/decimal"

// MonedaPorDefecto el backend no informa la moneda en movimientosPrestamo;
// todos los préstamos de esta operación liquidan en pesos dominicanos.
const MonedaPorDefecto = "DOP"

// Estados derivados de un movimiento. El backend no envía un estado explícito:
// se infiere COMPLETED cuando el movimiento tiene número de transacción.
const (
	EstadoCompletado  = "COMPLETED"
	EstadoDesconocido = "UNKNOWN"
)

// Movement un movimiento individual del préstamo, tal como lo reporta el core.
// La fecha se conserva en el formato textual nativo del backend, sin reparsear.
type Movement struct {
	Currency          string          `json:"currency"`
	Amount            decimal.Decimal `json:"amount"`
	Date              string          `json:"date"`
	Description       string          `json:"description"`
	Status            string          `json:"status"`
	TransactionNumber string          `json:"transactionNumber"`
	UniqueID          string          `json:"uniqueId"`
	Causal            string          `json:"causal"`
}

// Pagination cursor de continuación sintetizado en el cliente: el IdUnico del
// último movimiento devuelto. El backend no emite token propio de paginación.
type Pagination struct {
	UniqueID string `json:"uniqueId"`
}

// ProductMovements agregado de un producto con sus movimientos en el orden en
// que el backend los devolvió. Pagination es nil cuando la lista está vacía.
type ProductMovements struct {
	ProductNumber string      `json:"productNumber"`
	ProductLine   string      `json:"productLine"`
	Currency      string      `json:"currency"`
	Movements     []Movement  `json:"movements"`
	Pagination    *Pagination `json:"pagination,omitempty"`
}

// NewProductMovements construye el agregado derivando el cursor de paginación,
// de modo que el invariante (cursor presente ⟺ lista no vacía, y cursor =
// IdUnico del último movimiento) se cumple por construcción.
func NewProductMovements(productNumber, productLine, currency string, movements []Movement) *ProductMovements {
	if movements == nil {
		movements = []Movement{}
	}
	return &ProductMovements{
		ProductNumber: productNumber,
		ProductLine:   productLine,
		Currency:      currency,
		Movements:     movements,
		Pagination:    DerivePagination(movements),
	}
}

// DerivePagination deriva el cursor del último movimiento de la lista.
// Lista vacía: sin cursor.
func DerivePagination(movements []Movement) *Pagination {
	if len(movements) == 0 {
		return nil
	}
	return &Pagination{UniqueID: movements[len(movements)-1].UniqueID}
}

// RequestParameters parámetros del producto a consultar. Inmutables por llamada.
type RequestParameters struct {
	ProductNumber string
	ProductLine   string
	Currency      string
}

// Validate verifica que los tres campos obligatorios no estén vacíos.
func (p RequestParameters) Validate() bool {
	return p.ProductNumber != "" && p.ProductLine != "" && p.Currency != ""
}

// RequestContext headers contextuales que el backend exige en cada consulta.
type RequestContext struct {
	SessionID string
	Channel   string
	Timestamp string // header dateTime, se propaga tal cual al campo date del envelope
	Terminal  string
	User      string
}

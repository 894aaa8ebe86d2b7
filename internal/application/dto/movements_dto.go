package dto

import "github.com/banreservas/movimientos-prestamo-api/internal/domain/entity"

// MovementsRequest cuerpo de entrada de la consulta de últimos movimientos.
// Los tres campos son obligatorios.
type MovementsRequest struct {
	ProductNumber string `json:"productNumber"`
	ProductLine   string `json:"productLine"`
	Currency      string `json:"currency"`
}

// ResponseHeader header lógico de la respuesta (código y mensaje del resultado).
type ResponseHeader struct {
	ResponseCode int    `json:"responseCode"`
	Message      string `json:"message"`
}

// ProductsBody cuerpo con los productos y sus movimientos.
type ProductsBody struct {
	Products []*entity.ProductMovements `json:"products"`
}

// MovementsResponse respuesta completa del endpoint: header lógico + body.
type MovementsResponse struct {
	Header ResponseHeader `json:"header"`
	Body   ProductsBody   `json:"body"`
}

// NewMovementsResponse arma la respuesta para un único producto consultado.
func NewMovementsResponse(code int, message string, product *entity.ProductMovements) MovementsResponse {
	products := []*entity.ProductMovements{}
	if product != nil {
		products = append(products, product)
	}
	return MovementsResponse{
		Header: ResponseHeader{ResponseCode: code, Message: message},
		Body:   ProductsBody{Products: products},
	}
}

package dto

// ErrorResponse cuerpo de error HTTP (middlewares de autenticación).
// Las respuestas de negocio del endpoint usan MovementsResponse.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

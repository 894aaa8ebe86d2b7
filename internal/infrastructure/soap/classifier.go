package soap

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Tags externos de la respuesta del backend. XMLReresponse es el nombre real
// del campo en el esquema del WS (incluida la errata); no corregirlo.
const (
	tagErrorCode    = "errorCode"
	tagErrorType    = "errorType"
	tagErrorMessage = "errorMessage"
	tagInnerPayload = "XMLReresponse"
)

// Códigos de resultado del backend.
const (
	errorTypeSuccess    = "SUCCESS"
	errorTypeFunctional = "FUNCTIONAL"
	codeSuccess         = "000"
	codeNotFound        = "WAS01"
)

// Classify inspecciona los campos externos de la respuesta y la enruta a una
// de las tres salidas posibles:
//
//	SUCCESS + 000      -> Success con el payload interno
//	FUNCTIONAL + WAS01 -> NotFound (terminal, no reintentable)
//	cualquier otra     -> Error con código y mensaje del backend
//
// Una estructura externa malformada (campos ausentes) es un error de protocolo
// y se devuelve como error, que la política de reintentos trata como falla de
// transporte.
func Classify(rawResponse string) (Outcome, error) {
	if strings.TrimSpace(rawResponse) == "" {
		return Outcome{}, fmt.Errorf("respuesta vacía del servicio externo")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(rawResponse); err != nil {
		return Outcome{}, fmt.Errorf("respuesta XML inválida: %w", err)
	}

	errorType := findText(doc, tagErrorType)
	errorCode := findText(doc, tagErrorCode)
	if errorType == "" || errorCode == "" {
		return Outcome{}, fmt.Errorf("respuesta sin errorType/errorCode: estructura externa malformada")
	}

	switch {
	case strings.EqualFold(errorType, errorTypeSuccess) && errorCode == codeSuccess:
		return Outcome{Kind: OutcomeSuccess, Payload: findText(doc, tagInnerPayload)}, nil
	case strings.EqualFold(errorType, errorTypeFunctional) && errorCode == codeNotFound:
		return Outcome{Kind: OutcomeNotFound, Code: errorCode}, nil
	default:
		message := findText(doc, tagErrorMessage)
		if message == "" {
			message = "error en el servicio externo"
		}
		return Outcome{Kind: OutcomeError, Code: errorCode, Message: message}, nil
	}
}

// findText busca el primer elemento con ese tag en cualquier nivel del
// documento (el backend anida la respuesta dentro del Body SOAP).
func findText(doc *etree.Document, tag string) string {
	if el := doc.FindElement("//" + tag); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}

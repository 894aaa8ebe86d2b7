package soap

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/banreservas/movimientos-prestamo-api/internal/domain"
	"github.com/banreservas/movimientos-prestamo-api/internal/domain/daterange"
	"github.com/banreservas/movimientos-prestamo-api/internal/domain/entity"
	"github.com/banreservas/movimientos-prestamo-api/pkg/config"
)

const (
	soapNS    = "http://schemas.xmlsoap.org/soap/envelope/"
	serviceNS = "http://services.service.brrd.com/"

	// OperationName nombre de la operación del WS; viaja dentro del request.
	OperationName = "movimientosPrestamo"
)

// ── Estructuras del envelope ──────────────────────────────────────────────────
//
// El backend valida el esquema de forma estricta: el orden de los campos del
// struct es el orden de los elementos en el wire y no debe cambiar.

type requestEnvelope struct {
	XMLName      xml.Name    `xml:"soapenv:Envelope"`
	XmlnsSoapenv string      `xml:"xmlns:soapenv,attr"`
	XmlnsSer     string      `xml:"xmlns:ser,attr"`
	Header       soapHeader  `xml:"soapenv:Header"`
	Body         requestBody `xml:"soapenv:Body"`
}

type soapHeader struct{}

type requestBody struct {
	Operation operationElement `xml:"ser:movimientosPrestamo"`
}

type operationElement struct {
	Request movimientosRequest `xml:"MovimientosPrestamoRequest"`
}

type movimientosRequest struct {
	Channel       string `xml:"channel"`
	Date          string `xml:"date"`
	OperationName string `xml:"operationName"`
	Terminal      string `xml:"terminal"`
	User          string `xml:"user"`
	Cantidad      int    `xml:"cantidad"`
	Direccion     string `xml:"direccion"`
	FechaFinal    string `xml:"fechaFinal"`
	FechaInicial  string `xml:"fechaInicial"`
	MontoFinal    string `xml:"montoFinal"`
	MontoInicial  string `xml:"montoInicial"`
	NumDoc        string `xml:"numDoc"`
	Producto      string `xml:"producto"`
	Record        int    `xml:"record"`
	Tipo          string `xml:"tipo"`
}

// BuildEnvelope construye el envelope SOAP de la consulta por sustitución
// determinista de campos; no hay estructura condicional. El campo date y el
// user vienen de los headers del consumidor y son obligatorios para el backend,
// sin valor por defecto seguro.
func BuildEnvelope(params entity.RequestParameters, rc entity.RequestContext,
	window daterange.DateWindow, qc config.QueryConfig) (string, error) {

	if rc.Timestamp == "" {
		return "", fmt.Errorf("%w: header dateTime vacío, el backend lo exige", domain.ErrValidation)
	}
	if rc.User == "" {
		return "", fmt.Errorf("%w: header user vacío, el backend lo exige", domain.ErrValidation)
	}

	env := requestEnvelope{
		XmlnsSoapenv: soapNS,
		XmlnsSer:     serviceNS,
		Body: requestBody{
			Operation: operationElement{
				Request: movimientosRequest{
					Channel:       rc.Channel,
					Date:          rc.Timestamp,
					OperationName: OperationName,
					Terminal:      rc.Terminal,
					User:          rc.User,
					Cantidad:      qc.CantidadMovimientos,
					Direccion:     qc.DireccionConsulta,
					FechaFinal:    window.ToText(),
					FechaInicial:  window.FromText(),
					MontoFinal:    strconv.FormatInt(qc.MontoFinal, 10),
					MontoInicial:  strconv.FormatInt(qc.MontoInicial, 10),
					NumDoc:        qc.NumDoc,
					Producto:      params.ProductNumber,
					Record:        qc.RecordInicial,
					Tipo:          qc.TipoTransaccion,
				},
			},
		},
	}

	payload, err := xml.MarshalIndent(env, "", "    ")
	if err != nil {
		return "", fmt.Errorf("soap: serializar envelope: %w", err)
	}
	return xml.Header + string(payload), nil
}

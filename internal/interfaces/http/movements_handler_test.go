package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banreservas/movimientos-prestamo-api/internal/application/dto"
	"github.com/banreservas/movimientos-prestamo-api/internal/domain"
	"github.com/banreservas/movimientos-prestamo-api/internal/domain/entity"
	apphttp "github.com/banreservas/movimientos-prestamo-api/internal/interfaces/http"
	pkgjwt "github.com/banreservas/movimientos-prestamo-api/pkg/jwt"
	"github.com/banreservas/movimientos-prestamo-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// servicioStub devuelve un resultado o error preparado y captura la entrada.
type servicioStub struct {
	product *entity.ProductMovements
	err     error
	params  entity.RequestParameters
	rc      entity.RequestContext
	calls   int
}

func (s *servicioStub) GetLoanMovements(ctx context.Context, params entity.RequestParameters,
	rc entity.RequestContext) (*entity.ProductMovements, error) {
	s.calls++
	s.params = params
	s.rc = rc
	return s.product, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func buildTestApp(svc apphttp.LoanMovementsService, jwtSecret string) *fiber.App {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Movements: svc,
		Log:       testLogger(),
		JWTSecret: jwtSecret,
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, body string, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/ultimos-movimientos-prestamo",
		strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func fullHeaders() map[string]string {
	return map[string]string{
		"sessionId": "sesion-1",
		"channel":   "31",
		"user":      "crmuser",
		"dateTime":  "2025-07-22T00:00:00",
		"terminal":  "0.0.0.0",
		"operation": "movimientosPrestamo",
	}
}

func decodeResponse(t *testing.T, resp *http.Response) dto.MovementsResponse {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.MovementsResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

const validBody = `{"productNumber":"123","productLine":"L1","currency":"DOP"}`

// ──────────────────────────────────────────────────────────────────────────────
// Casos
// ──────────────────────────────────────────────────────────────────────────────

func TestGetLoanMovements_Exitoso(t *testing.T) {
	movements := []entity.Movement{{UniqueID: "MOV-1"}, {UniqueID: "MOV-2"}}
	svc := &servicioStub{product: entity.NewProductMovements("123", "L1", "DOP", movements)}
	app := buildTestApp(svc, "")

	resp := doRequest(t, app, validBody, fullHeaders())
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.Equal(t, 200, out.Header.ResponseCode)
	require.Len(t, out.Body.Products, 1)
	require.Len(t, out.Body.Products[0].Movements, 2)
	require.NotNil(t, out.Body.Products[0].Pagination)
	assert.Equal(t, "MOV-2", out.Body.Products[0].Pagination.UniqueID)

	// Los headers de trazabilidad se devuelven al consumidor.
	assert.Equal(t, "sesion-1", resp.Header.Get("sessionId"))
	assert.Equal(t, "31", resp.Header.Get("channel"))

	// El contexto del request llegó completo al caso de uso.
	assert.Equal(t, "crmuser", svc.rc.User)
	assert.Equal(t, "2025-07-22T00:00:00", svc.rc.Timestamp)
	assert.Equal(t, "123", svc.params.ProductNumber)
}

func TestGetLoanMovements_HeaderFaltanteDevuelve400(t *testing.T) {
	svc := &servicioStub{}
	app := buildTestApp(svc, "")

	for _, faltante := range []string{"sessionId", "channel", "user", "dateTime", "terminal", "operation"} {
		headers := fullHeaders()
		delete(headers, faltante)

		resp := doRequest(t, app, validBody, headers)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode,
			"sin el header %s la solicitud debe rechazarse", faltante)

		out := decodeResponse(t, resp)
		assert.Equal(t, 400, out.Header.ResponseCode)
		assert.Contains(t, out.Header.Message, faltante)
		assert.Empty(t, out.Body.Products)
	}
	assert.Zero(t, svc.calls, "la validación de headers corta antes del servicio")
}

func TestGetLoanMovements_CuerpoInvalidoDevuelve400(t *testing.T) {
	svc := &servicioStub{}
	app := buildTestApp(svc, "")

	resp := doRequest(t, app, "{no es json", fullHeaders())
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, svc.calls)
}

func TestGetLoanMovements_ValidacionDelServicioDevuelve400(t *testing.T) {
	svc := &servicioStub{err: domain.ErrValidation}
	app := buildTestApp(svc, "")

	resp := doRequest(t, app, `{"productNumber":"","productLine":"","currency":""}`, fullHeaders())
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetLoanMovements_NoEncontradoDevuelve404(t *testing.T) {
	svc := &servicioStub{err: domain.ErrMovimientosNoEncontrados}
	app := buildTestApp(svc, "")

	resp := doRequest(t, app, validBody, fullHeaders())
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.Equal(t, 404, out.Header.ResponseCode)
	assert.Empty(t, out.Body.Products, "WAS01 devuelve body vacío, no un error interno")
}

func TestGetLoanMovements_CircuitoAbiertoDevuelve503(t *testing.T) {
	svc := &servicioStub{err: domain.ErrCircuitOpen}
	app := buildTestApp(svc, "")

	resp := doRequest(t, app, validBody, fullHeaders())
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestGetLoanMovements_ErrorDeNegocioDevuelve500ConMensajeDelBackend(t *testing.T) {
	svc := &servicioStub{err: &domain.BusinessError{Code: "ERR99", Message: "boom"}}
	app := buildTestApp(svc, "")

	resp := doRequest(t, app, validBody, fullHeaders())
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.Equal(t, "boom", out.Header.Message)
}

func TestGetLoanMovements_FallaDeTransporteDevuelve500(t *testing.T) {
	svc := &servicioStub{err: &domain.TransportError{Cause: context.DeadlineExceeded}}
	app := buildTestApp(svc, "")

	resp := doRequest(t, app, validBody, fullHeaders())
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

// ── Autenticación opcional ────────────────────────────────────────────────────

func TestGetLoanMovements_ConJWTSinTokenDevuelve401(t *testing.T) {
	svc := &servicioStub{}
	app := buildTestApp(svc, "secreto-de-test")

	resp := doRequest(t, app, validBody, fullHeaders())
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, svc.calls)
}

func TestGetLoanMovements_ConJWTYRolCorrecto(t *testing.T) {
	svc := &servicioStub{product: entity.NewProductMovements("123", "L1", "DOP", nil)}
	app := buildTestApp(svc, "secreto-de-test")

	token, err := pkgjwt.Generate("secreto-de-test", "crmuser", "31",
		apphttp.RoleLoanMovements, "test", 5)
	require.NoError(t, err)

	headers := fullHeaders()
	headers["Authorization"] = "Bearer " + token
	resp := doRequest(t, app, validBody, headers)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetLoanMovements_ConJWTYRolIncorrectoDevuelve403(t *testing.T) {
	svc := &servicioStub{}
	app := buildTestApp(svc, "secreto-de-test")

	token, err := pkgjwt.Generate("secreto-de-test", "crmuser", "31", "otro-rol", "test", 5)
	require.NoError(t, err)

	headers := fullHeaders()
	headers["Authorization"] = "Bearer " + token
	resp := doRequest(t, app, validBody, headers)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Zero(t, svc.calls)
}

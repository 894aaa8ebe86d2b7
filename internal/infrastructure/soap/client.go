package soap

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/banreservas/movimientos-prestamo-api/pkg/config"
)

// HTTPTransport implementa BackendTransport enviando el envelope por POST al
// WS de movimientos.
type HTTPTransport struct {
	url        string
	httpClient *http.Client
}

// NewHTTPTransport construye el transporte con los timeouts de conexión y
// lectura configurados. Vencido cualquiera de los dos, la llamada se reporta
// como falla de transporte y queda sujeta a la política de reintentos.
func NewHTTPTransport(cfg config.BackendConfig) *HTTPTransport {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	return &HTTPTransport{
		url: cfg.URL,
		httpClient: &http.Client{
			Transport: &http.Transport{
				DialContext:           dialer.DialContext,
				ResponseHeaderTimeout: cfg.ReadTimeout,
			},
			Timeout: cfg.ConnectTimeout + cfg.ReadTimeout,
		},
	}
}

// Send envía el envelope y devuelve el XML crudo de la respuesta.
func (t *HTTPTransport) Send(ctx context.Context, envelope string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url,
		strings.NewReader(envelope))
	if err != nil {
		return "", fmt.Errorf("soap: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("soap: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("soap: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		return "", fmt.Errorf("soap: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("soap: el backend respondió HTTP %d", resp.StatusCode)
	}

	return string(rawBody), nil
}

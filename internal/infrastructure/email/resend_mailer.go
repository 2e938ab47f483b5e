package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/inventario-facturacion/internal/application/billing"
	"github.com/jhoicas/inventario-facturacion/internal/domain"
)

// Verificar en tiempo de compilación que ResendMailer implementa InvoiceMailer.
var _ billing.InvoiceMailer = (*ResendMailer)(nil)

// DefaultResendURL endpoint de envío de la API de Resend.
const DefaultResendURL = "https://api.resend.com/emails"

// ResendMailer adaptador de correo sobre la API REST de Resend.
type ResendMailer struct {
	apiKey     string
	from       string
	url        string
	httpClient *http.Client
}

// NewResendMailer construye el adaptador. url vacío usa DefaultResendURL.
// Si apiKey está vacío los envíos devuelven error descriptivo.
func NewResendMailer(apiKey, from, url string) *ResendMailer {
	if url == "" {
		url = DefaultResendURL
	}
	return &ResendMailer{
		apiKey:     apiKey,
		from:       from,
		url:        url,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send envía un correo HTML a un destinatario.
func (m *ResendMailer) Send(ctx context.Context, to, subject, html string) error {
	if m.apiKey == "" {
		return fmt.Errorf("%w: RESEND_API_KEY no configurado", domain.ErrStorageUnavailable)
	}

	body, err := json.Marshal(resendRequest{From: m.from, To: []string{to}, Subject: subject, HTML: html})
	if err != nil {
		return fmt.Errorf("email: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("email: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("email: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("%w: email: llamada HTTP fallida: %v", domain.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var apiErr resendError
	msg := string(raw)
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
		msg = apiErr.Message
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: email: Resend %d: %s", domain.ErrStorageUnavailable, resp.StatusCode, msg)
	}
	return fmt.Errorf("email: Resend rechazó el envío (%d): %s", resp.StatusCode, msg)
}

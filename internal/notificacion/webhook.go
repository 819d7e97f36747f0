package notificacion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Webhook avisa a un sistema externo (p. ej. un canal de chat del equipo).
type Webhook struct {
	URL    string
	Client *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{URL: url, Client: &http.Client{Timeout: 5 * time.Second}}
}

// EnviarAlertaDuplicado avisa que se registró un prospecto con correo o
// teléfono que ya existía. Sin URL configurada no hace nada.
func (w *Webhook) EnviarAlertaDuplicado(ctx context.Context, leadID, correo, telefono string) {
	if w == nil || w.URL == "" {
		return
	}
	payload := map[string]string{
		"mensaje":  "Alerta: nuevo prospecto con correo o teléfono ya registrado",
		"lead_id":  leadID,
		"email":    correo,
		"telefono": telefono,
	}
	if err := w.enviar(ctx, payload); err != nil {
		slog.Error("enviar webhook de alerta", "error", err, "lead_id", leadID)
	}
}

func (w *Webhook) enviar(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook respondió %d", resp.StatusCode)
	}
	return nil
}

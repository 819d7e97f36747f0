// Package tokko es el cliente del portal de listados Tokko Broker.
package tokko

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	TamanoLote     = 200
	MaxIntentos    = 15
	TTLPaginaCache = 5 * time.Minute
)

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	Cache   Cache
}

func NewClient(baseURL, apiKey string, cache Cache) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Cache:   cache,
	}
}

func (c *Client) url(ruta string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.APIKey)
	params.Set("format", "json")
	params.Set("lang", "es")
	return c.BaseURL + ruta + "?" + params.Encode()
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokko: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokko API error: %s", resp.Status)
	}
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("tokko: respuesta inválida: %w", err)
	}
	return raw, nil
}

// Propiedades trae hasta limite inmuebles publicados.
func (c *Client) Propiedades(ctx context.Context, limite int) ([]Propiedad, error) {
	raw, err := c.get(ctx, c.url("/property/", url.Values{"limit": {strconv.Itoa(limite)}}))
	if err != nil {
		return nil, err
	}
	var p pagina[Propiedad]
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("tokko: propiedades: %w", err)
	}
	return p.Objects, nil
}

// Contactos recorre los contactos más recientes en lotes de 200 saltando los
// borrados, hasta juntar max o agotar 15 lotes.
func (c *Client) Contactos(ctx context.Context, max int) ([]Contacto, error) {
	var activos []Contacto
	offset := 0
	for intento := 0; intento < MaxIntentos && len(activos) < max; intento++ {
		lote, err := c.paginaContactos(ctx, offset)
		if err != nil {
			return nil, err
		}
		for _, ct := range lote {
			if ct.DeletedAt == nil || *ct.DeletedAt == "" {
				activos = append(activos, ct)
			}
		}
		if len(lote) < TamanoLote {
			break
		}
		offset += TamanoLote
	}
	if len(activos) > max {
		activos = activos[:max]
	}
	return activos, nil
}

func (c *Client) paginaContactos(ctx context.Context, offset int) ([]Contacto, error) {
	key := fmt.Sprintf("tokko:contact:%d", offset)
	raw, ok := c.cache(ctx, key)
	if !ok {
		var err error
		raw, err = c.get(ctx, c.url("/contact/", url.Values{
			"limit":    {strconv.Itoa(TamanoLote)},
			"offset":   {strconv.Itoa(offset)},
			"order_by": {"-updated_at"},
		}))
		if err != nil {
			return nil, err
		}
		if c.Cache != nil {
			c.Cache.Set(ctx, key, raw, TTLPaginaCache)
		}
	}
	var p pagina[Contacto]
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("tokko: contactos: %w", err)
	}
	return p.Objects, nil
}

func (c *Client) cache(ctx context.Context, key string) ([]byte, bool) {
	if c.Cache == nil {
		return nil, false
	}
	b, ok := c.Cache.Get(ctx, key)
	if ok {
		slog.Debug("tokko desde cache", "key", key)
	}
	return b, ok
}

// Contacto trae el detalle de un contacto.
func (c *Client) Contacto(ctx context.Context, id int) (*Contacto, error) {
	raw, err := c.get(ctx, c.url(fmt.Sprintf("/contact/%d/", id), nil))
	if err != nil {
		return nil, err
	}
	var ct Contacto
	if err := json.Unmarshal(raw, &ct); err != nil {
		return nil, fmt.Errorf("tokko: contacto: %w", err)
	}
	return &ct, nil
}

// Package tiemporeal reparte inserciones de la base (notifications,
// property_submissions) a los paneles abiertos.
package tiemporeal

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/magno-inmobiliaria/api-admin/internal/monitoreo"
)

// Tablas que emiten eventos
const (
	TablaNotificaciones = "notifications"
	TablaReclutamientos = "property_submissions"
)

// Evento es una fila insertada.
type Evento struct {
	Tabla    string          `json:"table"`
	Tipo     string          `json:"type"`
	ID       string          `json:"id"`
	Registro json.RawMessage `json:"record,omitempty"`
}

// Hub reparte eventos a suscriptores dentro del proceso.
type Hub struct {
	mu        sync.RWMutex
	subs      map[int]chan Evento
	next      int
	conectado atomic.Bool

	// Origenes aceptados al abrir el websocket; vacío acepta todos.
	Origenes []string
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Evento)}
}

// Publicar entrega el evento sin bloquear; un suscriptor lento pierde eventos.
func (h *Hub) Publicar(ev Evento) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Suscribir devuelve un canal de eventos y la función para cancelar.
func (h *Hub) Suscribir() (<-chan Evento, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan Evento, 16)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Conectado indica si hay un transporte en vivo alimentando el hub.
func (h *Hub) Conectado() bool { return h.conectado.Load() }

// MarcarConectado lo usa el escucha de Postgres al (re)conectar o caerse.
func (h *Hub) MarcarConectado(v bool) { h.conectado.Store(v) }

// ServeWebSocket envía como JSON los eventos de las tablas pedidas en
// ?tabla=... (todas si no se indica).
func (h *Hub) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	filtro := map[string]bool{}
	for _, t := range r.URL.Query()["tabla"] {
		filtro[t] = true
	}

	conn, err := Upgrader(h.Origenes).Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("upgrade websocket", "error", err)
		return
	}
	defer conn.Close()
	monitoreo.ClienteRealtimeConectado()
	defer monitoreo.ClienteRealtimeDesconectado()

	eventos, cancel := h.Suscribir()
	defer cancel()

	// lector para detectar el cierre del cliente
	cerrado := make(chan struct{})
	go func() {
		defer close(cerrado)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-cerrado:
			return
		case ev, ok := <-eventos:
			if !ok {
				return
			}
			if len(filtro) > 0 && !filtro[ev.Tabla] {
				continue
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}

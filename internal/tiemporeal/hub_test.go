package tiemporeal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuscribirYCancelar(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Suscribir()
	h.Publicar(Evento{Tabla: TablaNotificaciones, ID: "n1"})

	select {
	case ev := <-ch:
		assert.Equal(t, "n1", ev.ID)
	case <-time.After(time.Second):
		t.Fatal("no llegó el evento")
	}

	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	cancel() // segunda llamada sin pánico
	h.Publicar(Evento{Tabla: TablaNotificaciones})
}

func TestPublicarNoBloquea(t *testing.T) {
	h := NewHub()
	_, cancel := h.Suscribir()
	defer cancel()
	for i := 0; i < 100; i++ {
		h.Publicar(Evento{Tabla: TablaReclutamientos})
	}
}

func TestConectado(t *testing.T) {
	h := NewHub()
	assert.False(t, h.Conectado())
	h.MarcarConectado(true)
	assert.True(t, h.Conectado())
}

func TestServeWebSocketFiltraTabla(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWebSocket))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?tabla=" + TablaReclutamientos
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// esperar a que el servidor se suscriba
	require.Eventually(t, func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return len(h.subs) == 1
	}, time.Second, 10*time.Millisecond)

	h.Publicar(Evento{Tabla: TablaNotificaciones, ID: "ignorada"})
	h.Publicar(Evento{Tabla: TablaReclutamientos, ID: "r1"})

	var ev Evento
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "r1", ev.ID)
}

func TestOrigenPermitido(t *testing.T) {
	lista := []string{"https://admin.magno.mx", "http://localhost:3000/"}
	assert.True(t, OrigenPermitido(lista, "https://admin.magno.mx"))
	assert.True(t, OrigenPermitido(lista, "http://localhost:3000"))
	assert.True(t, OrigenPermitido(lista, ""))
	assert.False(t, OrigenPermitido(lista, "https://evil.example"))
	assert.True(t, OrigenPermitido(nil, "https://evil.example"))
	assert.True(t, OrigenPermitido([]string{"*"}, "https://evil.example"))
}

func TestServeWebSocketRechazaOrigenAjeno(t *testing.T) {
	h := NewHub()
	h.Origenes = []string{"https://admin.magno.mx"}
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWebSocket))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://admin.magno.mx"}})
	require.NoError(t, err)
	conn.Close()
}

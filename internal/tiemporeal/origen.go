package tiemporeal

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// OrigenPermitido sigue la misma regla que CORS: sin lista o con "*" se
// acepta cualquiera. Un cliente sin cabecera Origin no es un navegador y pasa.
func OrigenPermitido(origenes []string, origen string) bool {
	if origen == "" || len(origenes) == 0 {
		return true
	}
	for _, o := range origenes {
		if o == "*" || strings.EqualFold(strings.TrimSuffix(o, "/"), origen) {
			return true
		}
	}
	return false
}

// Upgrader para los paneles en vivo, limitado a los orígenes configurados.
func Upgrader(origenes []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return OrigenPermitido(origenes, r.Header.Get("Origin"))
		},
	}
}

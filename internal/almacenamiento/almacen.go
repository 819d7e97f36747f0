// Package almacenamiento guarda archivos subidos (fotos de asesores,
// comprobantes de pago, documentos de investigación) y devuelve su URL pública.
package almacenamiento

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Carpetas dentro del bucket
const (
	CarpetaFotosAsesor    = "advisors/photos"
	CarpetaComprobantes   = "payment-proofs"
	CarpetaPagosProspecto = "leads/payments"
	CarpetaInvestigacion  = "investigations"
	CarpetaReportes       = "report-images"
)

// Almacen sube un objeto y devuelve la URL pública.
type Almacen interface {
	Subir(ctx context.Context, clave string, contenido io.Reader, contentType string) (string, error)
}

// NombreArchivo arma una clave única conservando la extensión original.
func NombreArchivo(carpeta, prefijo, original string) string {
	ext := strings.ToLower(path.Ext(original))
	return path.Join(carpeta, fmt.Sprintf("%s_%s%s", prefijo, uuid.NewString(), ext))
}

// Memoria guarda los objetos en un mapa.
type Memoria struct {
	mu      sync.Mutex
	base    string
	Objetos map[string][]byte
	Tipos   map[string]string
}

func NewMemoria(baseURL string) *Memoria {
	return &Memoria{
		base:    strings.TrimRight(baseURL, "/"),
		Objetos: map[string][]byte{},
		Tipos:   map[string]string{},
	}
}

func (m *Memoria) Subir(ctx context.Context, clave string, contenido io.Reader, contentType string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, contenido); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objetos[clave] = buf.Bytes()
	m.Tipos[clave] = contentType
	return m.base + "/" + clave, nil
}

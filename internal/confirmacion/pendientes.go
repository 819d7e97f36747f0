package confirmacion

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Vigencia de una acción pendiente antes de descartarse.
const Vigencia = 10 * time.Minute

// Pendiente es una acción esperando confirmación.
type Pendiente struct {
	ID      string `json:"id"`
	Tipo    string `json:"tipo"`
	Titulo  string `json:"titulo"`
	Mensaje string `json:"mensaje"`

	accion  Accion
	usuario string
	vence   time.Time
}

// Pendientes guarda las acciones en memoria; cada una se puede tomar una sola vez.
type Pendientes struct {
	mu    sync.Mutex
	items map[string]*Pendiente
	ahora func() time.Time
}

func NewPendientes() *Pendientes {
	return &Pendientes{items: map[string]*Pendiente{}, ahora: time.Now}
}

func (p *Pendientes) Agregar(pe *Pendiente) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ahora := p.ahora()
	for id, x := range p.items {
		if ahora.After(x.vence) {
			delete(p.items, id)
		}
	}
	pe.ID = uuid.NewString()
	pe.vence = ahora.Add(Vigencia)
	p.items[pe.ID] = pe
}

// Tomar saca la acción del almacén. Una segunda llamada con el mismo id no
// encuentra nada. Solo quien la creó puede tomarla.
func (p *Pendientes) Tomar(id, usuario string) (*Pendiente, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pe, ok := p.items[id]
	if !ok || pe.usuario != usuario {
		return nil, false
	}
	delete(p.items, id)
	if p.ahora().After(pe.vence) {
		return nil, false
	}
	return pe, true
}

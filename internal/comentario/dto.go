package comentario

import (
	"time"

	"github.com/magno-inmobiliaria/api-admin/internal/models"
)

type AutorDTO struct {
	Tipo   string  `json:"type"` // "usuario" | "system"
	ID     *string `json:"id,omitempty"`
	Nombre string  `json:"nombre,omitempty"`
}

type ComentarioDTO struct {
	ID          string    `json:"id"`
	ProspectoID string    `json:"lead_id"`
	Texto       string    `json:"texto"`
	System      bool      `json:"system"`
	CreatedAt   time.Time `json:"created_at"`
	Autor       AutorDTO  `json:"author"`
}

// comentarioConAutor es la fila del join con profiles.
type comentarioConAutor struct {
	models.Comentario
	AutorNombre string
}

func toDTO(c comentarioConAutor) ComentarioDTO {
	out := ComentarioDTO{
		ID:          c.ID,
		ProspectoID: c.ProspectoID,
		Texto:       c.Texto,
		System:      c.System,
		CreatedAt:   c.CreatedAt,
	}
	if c.System || c.AutorID == nil {
		out.Autor = AutorDTO{Tipo: "system", Nombre: "Sistema"}
		return out
	}
	nombre := c.AutorNombre
	if nombre == "" {
		nombre = "Usuario"
	}
	out.Autor = AutorDTO{Tipo: "usuario", ID: c.AutorID, Nombre: nombre}
	return out
}

func toDTOs(list []comentarioConAutor) []ComentarioDTO {
	out := make([]ComentarioDTO, 0, len(list))
	for _, c := range list {
		out = append(out, toDTO(c))
	}
	return out
}

package confirmacion

import (
	"github.com/magno-inmobiliaria/api-admin/internal/propiedad"
	"github.com/magno-inmobiliaria/api-admin/internal/prospecto"
)

// Tipos de acción confirmable
const (
	TipoEstadoPropiedad       = "status"
	TipoEliminarPropiedad     = "delete"
	TipoEditarPropiedad       = "edit"
	TipoEliminarReclutamiento = "delete_recruitment"
	TipoEliminarUsuario       = "delete_user"
	TipoEliminarComprobante   = "delete_proof"
	TipoEliminarReporte       = "delete_report"
	TipoEliminarAvaluo        = "delete_appraisal"
	TipoEliminarSolicitud     = "delete_rental_app"
	TipoEliminarPost          = "delete_blog_post"
	TipoEstadoProspecto       = "lead_status"
)

// Accion es una variante con su propio payload.
type Accion interface {
	Tipo() string
}

type EstadoPropiedad struct {
	ID     string  `json:"id" validate:"required"`
	Status string  `json:"status" validate:"required,oneof=available reserved rented paused"`
	Motivo *string `json:"reason"`
}

type EliminarPropiedad struct {
	ID string `json:"id" validate:"required"`
}

type EditarPropiedad struct {
	ID    string          `json:"id" validate:"required"`
	Datos propiedad.Datos `json:"datos"`
}

type EliminarReclutamiento struct {
	ID string `json:"id" validate:"required"`
}

// EliminarUsuario: con Purgar se borran también sus propiedades y documentos;
// sin él solo se desvinculan.
type EliminarUsuario struct {
	ID     string `json:"id" validate:"required"`
	Nombre string `json:"name"`
	Purgar bool   `json:"purge"`
}

type EliminarComprobante struct {
	ID string `json:"id" validate:"required"`
}

type EliminarReporte struct {
	ID string `json:"id" validate:"required"`
}

type EliminarAvaluo struct {
	ID string `json:"id" validate:"required"`
}

type EliminarSolicitud struct {
	ID string `json:"id" validate:"required"`
}

type EliminarPost struct {
	ID string `json:"id" validate:"required"`
}

type EstadoProspecto struct {
	ID       string              `json:"id" validate:"required"`
	Nombre   string              `json:"name"`
	Status   string              `json:"status" validate:"required"`
	Metadata *prospecto.Cambios  `json:"metadata"`
	Contexto *prospecto.Contexto `json:"contexto"`
}

func (EstadoPropiedad) Tipo() string       { return TipoEstadoPropiedad }
func (EliminarPropiedad) Tipo() string     { return TipoEliminarPropiedad }
func (EditarPropiedad) Tipo() string       { return TipoEditarPropiedad }
func (EliminarReclutamiento) Tipo() string { return TipoEliminarReclutamiento }
func (EliminarUsuario) Tipo() string       { return TipoEliminarUsuario }
func (EliminarComprobante) Tipo() string   { return TipoEliminarComprobante }
func (EliminarReporte) Tipo() string       { return TipoEliminarReporte }
func (EliminarAvaluo) Tipo() string        { return TipoEliminarAvaluo }
func (EliminarSolicitud) Tipo() string     { return TipoEliminarSolicitud }
func (EliminarPost) Tipo() string          { return TipoEliminarPost }
func (EstadoProspecto) Tipo() string       { return TipoEstadoProspecto }

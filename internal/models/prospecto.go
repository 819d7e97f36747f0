package models

import (
	"time"

	"gorm.io/datatypes"
)

// Estados del embudo de prospectos, en el orden en que normalmente avanzan.
const (
	EstadoContactando           = "contacting"
	EstadoInteresado            = "interested"
	EstadoCita                  = "appointment"
	EstadoCargaPropiedad        = "property_loading"
	EstadoInvestigacionPagada   = "investigation_paid"
	EstadoInvestigando          = "investigating"
	EstadoInvestigacionAprobada = "investigation_passed"
	EstadoListoParaCerrar       = "ready_to_close"
	EstadoCerradoGanado         = "closed_won"
	EstadoPotencialArchivado    = "archived_potential"
	EstadoCerradoPerdido        = "closed_lost"
)

// EstadosEmbudo lista los estados en orden de embudo; las salidas laterales van al final.
var EstadosEmbudo = []string{
	EstadoContactando,
	EstadoInteresado,
	EstadoCita,
	EstadoCargaPropiedad,
	EstadoInvestigacionPagada,
	EstadoInvestigando,
	EstadoInvestigacionAprobada,
	EstadoListoParaCerrar,
	EstadoCerradoGanado,
	EstadoPotencialArchivado,
	EstadoCerradoPerdido,
}

// Intenciones del prospecto
const (
	IntencionComprar   = "buy"
	IntencionRentar    = "rent"
	IntencionVender    = "sell"
	IntencionDarRentar = "rent_out"
)

// Estados de la investigación (buró)
const (
	InvestigacionPendiente = "pending"
	InvestigacionRevision  = "review"
	InvestigacionAprobada  = "approved"
	InvestigacionRechazada = "rejected"
)

func EstadoValido(s string) bool {
	for _, e := range EstadosEmbudo {
		if e == s {
			return true
		}
	}
	return false
}

// EsTerminal indica si el prospecto salió del embudo.
func EsTerminal(s string) bool {
	return s == EstadoCerradoGanado || s == EstadoCerradoPerdido || s == EstadoPotencialArchivado
}

// Prospecto es un lead del CRM (tabla leads_prospectos).
type Prospecto struct {
	Base
	FullName string `json:"full_name"`
	Email    string `gorm:"index" json:"email"`
	Phone    string `gorm:"index" json:"phone"`
	Intent   string `json:"intent"`
	Status   string `gorm:"index;not null;default:contacting" json:"status"`
	Source   string `json:"source,omitempty"`
	Notes    string `json:"notes,omitempty"`

	AssignedTo *string `gorm:"type:uuid;index" json:"assigned_to"`
	ReferredBy *string `gorm:"type:uuid;index" json:"referred_by"`

	// Vínculo con inmueble: por id (UUID válido) o por snapshot.
	PropertyID       *string        `gorm:"type:uuid" json:"property_id"`
	PropertySnapshot datatypes.JSON `json:"property_snapshot,omitempty"`
	AppointmentID    *string        `gorm:"type:uuid" json:"appointment_id,omitempty"`

	IsPotential bool `gorm:"default:false" json:"is_potential"`

	PaymentProofURL string `json:"payment_proof_url,omitempty"`
	PaymentStatus   string `json:"payment_status,omitempty"`

	InvestigationLink   string `json:"investigation_link,omitempty"`
	InvestigationStatus string `json:"investigation_status,omitempty"`
	InvestigationScore  *int   `json:"investigation_score,omitempty"`
	InvestigationNotes  string `json:"investigation_notes,omitempty"`

	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

func (Prospecto) TableName() string { return "leads_prospectos" }

// Responsable devuelve el asesor asignado o, en su defecto, quien refirió al prospecto.
func (p *Prospecto) Responsable() string {
	if p.AssignedTo != nil && *p.AssignedTo != "" {
		return *p.AssignedTo
	}
	if p.ReferredBy != nil {
		return *p.ReferredBy
	}
	return ""
}

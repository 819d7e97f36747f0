package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Estados de reclutamiento
const (
	ReclutamientoBorrador  = "draft"
	ReclutamientoPendiente = "pending"
	ReclutamientoAprobado  = "approved"
	ReclutamientoRechazado = "rejected"
	ReclutamientoCambios   = "changes_requested"
)

// Reclutamiento es la solicitud de un propietario para listar su inmueble
// (tabla property_submissions). El formulario completo vive en FormData.
type Reclutamiento struct {
	Base
	OwnerID         *string        `gorm:"type:uuid;index" json:"owner_id"`
	ReferredBy      *string        `gorm:"type:uuid;index" json:"referred_by,omitempty"`
	Type            string         `json:"type"`
	Status          string         `gorm:"index;not null;default:pending" json:"status"`
	FormData        datatypes.JSON `json:"form_data"`
	IsSigned        bool           `gorm:"default:false" json:"is_signed"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	Feedback        string         `json:"feedback,omitempty"`

	// Vienen del join con profiles al listar.
	OwnerName  string `gorm:"->;-:migration" json:"owner_name,omitempty"`
	OwnerEmail string `gorm:"->;-:migration" json:"owner_email,omitempty"`
}

func (Reclutamiento) TableName() string { return "property_submissions" }

// Formulario son los campos de form_data que el backend lee.
type Formulario struct {
	Title                  string  `json:"title"`
	Address                string  `json:"address"`
	Price                  float64 `json:"price"`
	OwnerName              string  `json:"owner_name"`
	OwnerEmail             string  `json:"owner_email"`
	OwnerPhone             string  `json:"owner_phone"`
	KeysProvided           bool    `json:"keys_provided"`
	UnsignedRecruitmentURL string  `json:"unsigned_recruitment_url"`
	UnsignedKeysURL        string  `json:"unsigned_keys_url"`
	IsSignedAt             string  `json:"is_signed_at"`
}

// Formulario decodifica form_data; un blob vacío o inválido devuelve el valor cero.
func (r *Reclutamiento) Formulario() Formulario {
	var f Formulario
	if len(r.FormData) == 0 {
		return f
	}
	_ = json.Unmarshal(r.FormData, &f)
	return f
}

// Correo devuelve el correo de contacto: el del formulario o, si falta, el del perfil.
func (r *Reclutamiento) Correo() string {
	if f := r.Formulario(); f.OwnerEmail != "" {
		return f.OwnerEmail
	}
	return r.OwnerEmail
}

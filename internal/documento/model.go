package documento

import (
	"time"

	"github.com/magno-inmobiliaria/api-admin/internal/models"
)

// Tipos de documento
const (
	TipoReclutamiento = "recruitment"
	TipoLlaves        = "keys"
	TipoContrato      = "contract"
	TipoReporte       = "report"
)

// Estados de firma
const (
	EstadoPendiente = "pending"
	EstadoFirmado   = "signed"
)

// Documento es un PDF firmado (o por firmar) ligado a una propiedad o, antes
// de que exista la propiedad, a la solicitud de reclutamiento
// (tabla signed_documents).
type Documento struct {
	models.Base
	PropertyID   *string    `gorm:"type:uuid;index" json:"property_id,omitempty"`
	SubmissionID *string    `gorm:"type:uuid;index" json:"submission_id,omitempty"`
	UserID       *string    `gorm:"type:uuid;index" json:"user_id,omitempty"`
	DocumentType string     `gorm:"not null" json:"document_type"`
	PdfURL       *string    `json:"pdf_url"`
	Status       string     `gorm:"not null;default:pending" json:"status"`
	SignedAt     *time.Time `json:"signed_at,omitempty"`
}

func (Documento) TableName() string { return "signed_documents" }

// ConPropiedad es el documento con la referencia de su propiedad para el archivo general.
type ConPropiedad struct {
	Documento
	PropertyRef   string `json:"property_ref,omitempty"`
	PropertyTitle string `json:"property_title,omitempty"`
}

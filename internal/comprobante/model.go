package comprobante

import "github.com/magno-inmobiliaria/api-admin/internal/models"

// Estados de comprobante
const (
	EstadoPendiente = "pending"
	EstadoAprobado  = "approved"
)

// URLManual marca los pagos que el admin registró a mano desde la ficha del
// cliente; no hay archivo que revisar.
const URLManual = "manual_approval_by_admin"

// MotivoRechazoAdmin es el motivo que se archiva al rechazar desde el panel.
const MotivoRechazoAdmin = "Rechazado por administrador"

// Comprobante es un pago mensual subido por un inquilino (tabla payment_proofs).
// Se liga a una propiedad pública o a una interna, nunca a ambas.
type Comprobante struct {
	models.Base
	UserID             *string `gorm:"type:uuid;index" json:"user_id"`
	PropertyID         *string `gorm:"type:uuid;index" json:"property_id,omitempty"`
	InternalPropertyID *string `gorm:"type:uuid;index" json:"internal_property_id,omitempty"`
	MonthYear          string  `gorm:"index" json:"month_year"`
	Amount             float64 `json:"amount"`
	ProofURL           string  `json:"proof_url"`
	Status             string  `gorm:"index;not null;default:pending" json:"status"`
	PaymentType        string  `json:"payment_type,omitempty"`
}

func (Comprobante) TableName() string { return "payment_proofs" }

// Rechazado es el archivo de comprobantes rechazados (tabla rejected_payments).
type Rechazado struct {
	models.Base
	UserID                 *string `gorm:"type:uuid;index" json:"user_id"`
	PropertyID             *string `gorm:"type:uuid" json:"property_id,omitempty"`
	MonthYear              string  `json:"month_year"`
	Amount                 float64 `json:"amount"`
	ProofURL               string  `json:"proof_url"`
	RejectionReason        string  `json:"rejection_reason"`
	OriginalPaymentProofID string  `gorm:"type:uuid" json:"original_payment_proof_id"`
}

func (Rechazado) TableName() string { return "rejected_payments" }

// ConDetalle es el comprobante como lo ve el panel.
type ConDetalle struct {
	Comprobante
	UserName    string `json:"user_name"`
	PropertyRef string `json:"property_ref"`
}

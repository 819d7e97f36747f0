package comision

import (
	"time"

	"github.com/magno-inmobiliaria/api-admin/internal/models"
)

// Estados de parcela
const (
	ParcelaPendiente = "Pendiente"
	ParcelaFactura   = "Factura Enviada"
	ParcelaPagada    = "Pago"
	ParcelaCancelada = "Cancelada"
)

// Estados de comisión
const (
	ComisionPendiente = "Pendiente"
	ComisionPagada    = "Pagada"
)

// Porcentajes sobre el precio de la propiedad: en renta el asesor cobra un
// mes completo, en venta un porcentaje del precio.
const (
	PorcentajeRenta = 100.0
	PorcentajeVenta = 5.0
)

// Comision es lo que se le debe a un asesor por un cierre (tabla commissions).
type Comision struct {
	models.Base
	LeadID       string    `gorm:"type:uuid;uniqueIndex;not null" json:"lead_id"`
	AdvisorID    string    `gorm:"type:uuid;index;not null" json:"advisor_id"`
	PropertyID   *string   `gorm:"type:uuid" json:"property_id,omitempty"`
	Tipo         string    `gorm:"not null" json:"tipo"`
	MontoBase    float64   `gorm:"not null;default:0" json:"monto_base"`
	Porcentaje   float64   `gorm:"not null;default:0" json:"porcentaje"`
	Status       string    `gorm:"not null;default:Pendiente;index" json:"status"`
	TotalRecibir float64   `gorm:"not null;default:0" json:"total_recibir"`
	FechaCierre  time.Time `json:"fecha_cierre"`

	Parcelas []Parcela `gorm:"foreignKey:ComisionID;constraint:OnDelete:CASCADE" json:"parcelas"`
}

func (Comision) TableName() string { return "commissions" }

// Parcela es un pago parcial de la comisión (tabla commission_installments).
type Parcela struct {
	models.Base
	ComisionID       string     `gorm:"type:uuid;not null;index" json:"commission_id"`
	Valor            float64    `gorm:"not null;default:0" json:"valor"`
	FechaVencimiento time.Time  `gorm:"not null" json:"fecha_vencimiento"`
	Status           string     `gorm:"not null;default:Pendiente;index" json:"status"`
	FechaPago        *time.Time `json:"fecha_pago"`
	Factura          string     `json:"factura,omitempty"`
}

func (Parcela) TableName() string { return "commission_installments" }

func estadoParcelaValido(s string) bool {
	switch s {
	case ParcelaPendiente, ParcelaFactura, ParcelaPagada, ParcelaCancelada:
		return true
	}
	return false
}

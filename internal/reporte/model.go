package reporte

import "github.com/magno-inmobiliaria/api-admin/internal/models"

// Estados de reporte
const (
	EstadoPendiente  = "pending"
	EstadoEnProgreso = "in_progress"
	EstadoResuelto   = "resolved"
)

// Reporte es una incidencia levantada por un inquilino o propietario.
type Reporte struct {
	models.Base
	UserID             *string  `gorm:"type:uuid;index" json:"user_id"`
	PropertyID         *string  `gorm:"type:uuid;index" json:"property_id,omitempty"`
	InternalPropertyID *string  `gorm:"type:uuid;index" json:"internal_property_id,omitempty"`
	ReportType         string   `json:"report_type"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	ImageURLs          []string `gorm:"column:image_urls;type:jsonb;serializer:json" json:"image_urls"`
	Status             string   `gorm:"index;not null;default:pending" json:"status"`
}

func (Reporte) TableName() string { return "reports" }

// ConDetalle agrega el usuario y el inmueble (público o interno).
type ConDetalle struct {
	Reporte
	UserName        string `json:"user_name"`
	UserEmail       string `json:"user_email"`
	PropertyRef     string `json:"property_ref"`
	PropertyTitle   string `json:"property_title"`
	PropertyAddress string `json:"property_address"`
}

// tituloEstado es el título del evento de timeline para cada estado.
func tituloEstado(status string) string {
	switch status {
	case EstadoPendiente:
		return "Reporte Pendiente"
	case EstadoEnProgreso:
		return "Reporte En Progreso"
	case EstadoResuelto:
		return "Reporte Resuelto"
	}
	return "Reporte Actualizado"
}

package timeline

import "github.com/magno-inmobiliaria/api-admin/internal/models"

// Estados de evento
const (
	EstadoPendiente  = "pending"
	EstadoEnProceso  = "in-progress"
	EstadoCompletado = "completed"
)

// Evento es una entrada en la línea de tiempo de un inmueble (tabla timeline_events).
type Evento struct {
	models.Base
	PropertyID  *string `gorm:"type:uuid;index" json:"property_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        string  `gorm:"index" json:"date"`
	Status      string  `gorm:"default:completed" json:"status"`
}

func (Evento) TableName() string { return "timeline_events" }

package models

import (
	"time"

	"gorm.io/datatypes"
)

// Estados de cita
const (
	CitaProgramada = "scheduled"
	CitaAsignada   = "assigned"
	CitaConfirmada = "confirmed"
	CitaCompletada = "completed"
	CitaCancelada  = "cancelled"
)

// Cita es una visita agendada (tabla appointments).
type Cita struct {
	Base
	PropertyID  *string   `gorm:"type:uuid" json:"property_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `gorm:"index" json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	ClientEmail string    `json:"client_email,omitempty"`
	Status      string    `gorm:"index;not null;default:scheduled" json:"status"`

	AssignedTo  *string        `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	LeadID      *string        `gorm:"type:uuid" json:"lead_id,omitempty"`
	IsPotential bool           `gorm:"default:false" json:"is_potential"`
	Feedback    datatypes.JSON `json:"feedback,omitempty"`

	// Fuente indica de dónde salió la cita en la vista unificada ("appointment" o "rental").
	Fuente string `gorm:"-" json:"source,omitempty"`
}

func (Cita) TableName() string { return "appointments" }

// Finalizada indica si la cita ya no pertenece a la agenda.
func (c *Cita) Finalizada() bool {
	return c.Status == CitaCompletada || c.Status == CitaCancelada
}

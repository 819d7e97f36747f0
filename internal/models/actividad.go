package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tipos de actividad del asesor
const (
	ActividadRegistroLead = "lead_registration"
	ActividadAvanceLead   = "lead_status_change"
	ActividadCita         = "appointment_feedback"
)

// ActividadAsesor alimenta la racha (tabla advisor_activity_log).
type ActividadAsesor struct {
	ID           string         `gorm:"primaryKey;type:uuid" json:"id"`
	AdvisorID    string         `gorm:"type:uuid;index;not null" json:"advisor_id"`
	ActivityType string         `json:"activity_type"`
	Metadata     datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

func (ActividadAsesor) TableName() string { return "advisor_activity_log" }

func (a *ActividadAsesor) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

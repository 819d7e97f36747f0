package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comentario es una nota en el historial de un prospecto. Los comentarios del
// sistema (cambios de estado) no tienen autor.
type Comentario struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	ProspectoID string    `gorm:"type:uuid;index;not null" json:"lead_id"`
	AutorID     *string   `gorm:"type:uuid" json:"author_id,omitempty"`
	Texto       string    `json:"texto"`
	System      bool      `gorm:"default:false" json:"system"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Comentario) TableName() string { return "lead_comments" }

func (a *Comentario) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base reemplaza a gorm.Model: las tablas usan UUID como llave primaria.
type Base struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate genera el UUID cuando no viene uno.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// EsUUID indica si s tiene forma de UUID.
func EsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}

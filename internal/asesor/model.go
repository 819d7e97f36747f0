package asesor

import "time"

// MetaSemanalDefault es la meta que se asigna a un perfil nuevo.
const MetaSemanalDefault = 50000

// Perfil es la ficha pública del asesor (tabla asesor_profiles).
type Perfil struct {
	UserID      string    `gorm:"primaryKey;type:uuid" json:"user_id"`
	Bio         string    `json:"bio"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	AdvisorType string    `json:"advisor_type,omitempty"`
	WeeklyGoal  int       `gorm:"default:50000" json:"weekly_goal"`
	RentedCount int       `gorm:"default:0" json:"rented_count"`
	SoldCount   int       `gorm:"default:0" json:"sold_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Perfil) TableName() string { return "asesor_profiles" }

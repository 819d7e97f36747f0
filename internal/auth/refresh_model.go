package auth

import "time"

type RefreshToken struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    string     `gorm:"type:uuid;index"`
	FamilyID  string     `gorm:"index"`
	Hash      string     `gorm:"uniqueIndex"`
	Rol       string
	ExpiresAt time.Time  `gorm:"index"`
	RevokedAt *time.Time
	CreatedAt time.Time
}

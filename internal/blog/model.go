package blog

import (
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"gorm.io/datatypes"
)

// Estados de publicación
const (
	EstadoBorrador  = "draft"
	EstadoPublicado = "published"
)

// Post es una nota del blog. Content es la lista de bloques del editor
// (texto, encabezados, imágenes, videos, tablas...).
type Post struct {
	models.Base
	AuthorID  *string        `gorm:"type:uuid" json:"author_id,omitempty"`
	Title     string         `gorm:"not null" json:"title"`
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt   string         `json:"excerpt,omitempty"`
	MainImage string         `json:"main_image"`
	Content   datatypes.JSON `json:"content"`
	Status    string         `gorm:"index;not null;default:draft" json:"status"`
	Category  string         `json:"category,omitempty"`
}

func (Post) TableName() string { return "blog_posts" }

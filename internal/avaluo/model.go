package avaluo

import "github.com/magno-inmobiliaria/api-admin/internal/models"

// Estados de avalúo
const (
	EstadoPendiente  = "pending"
	EstadoRevisado   = "reviewed"
	EstadoCompletado = "completed"
)

// Avaluo es una solicitud de valuación enviada desde el formulario público.
type Avaluo struct {
	models.Base
	FirstName    string   `json:"first_name"`
	LastName1    string   `gorm:"column:last_name_1" json:"last_name_1"`
	LastName2    string   `gorm:"column:last_name_2" json:"last_name_2"`
	PropertyType string   `json:"property_type"`
	Location     string   `json:"location"`
	ConstArea    float64  `json:"const_area"`
	LandArea     float64  `json:"land_area"`
	Beds         int      `json:"beds"`
	Baths        float64  `json:"baths"`
	Age          int      `json:"age"`
	Furnishing   string   `json:"furnishing"`
	Amenities    []string `gorm:"type:jsonb;serializer:json" json:"amenities"`
	Services     []string `gorm:"type:jsonb;serializer:json" json:"services"`
	Status       string   `gorm:"index;not null;default:pending" json:"status"`
}

func (Avaluo) TableName() string { return "appraisals" }

// Nombre arma el nombre completo del solicitante.
func (a *Avaluo) Nombre() string {
	n := a.FirstName
	for _, s := range []string{a.LastName1, a.LastName2} {
		if s != "" {
			n += " " + s
		}
	}
	return n
}

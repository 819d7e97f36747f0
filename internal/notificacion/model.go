package notificacion

import "github.com/magno-inmobiliaria/api-admin/internal/models"

// Tipos de notificación
const (
	TipoAvaluo        = "appraisal"
	TipoPago          = "payment"
	TipoReporte       = "report"
	TipoExito         = "success"
	TipoInvestigacion = "investigation"
	TipoReclutamiento = "recruitment"
	TipoCita          = "appointment"
)

// Notificacion va a un usuario o, con UserID nulo, al panel de admin.
type Notificacion struct {
	models.Base
	UserID  *string `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Type    string  `json:"type"`
	Title   string  `json:"title"`
	Message string  `json:"message"`
	Link    string  `json:"link,omitempty"`
	IsRead  bool    `gorm:"default:false;index" json:"is_read"`
}

func (Notificacion) TableName() string { return "notifications" }

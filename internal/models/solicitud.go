package models

import (
	"time"

	"gorm.io/datatypes"
)

// Estados de solicitud de renta/compra
const (
	SolicitudPendiente    = "pending"
	SolicitudRevisada     = "reviewed"
	SolicitudInvestigando = "investigating"
	SolicitudAprobada     = "approved"
	SolicitudRechazada    = "rejected"
	SolicitudCompletada   = "completed"
	SolicitudListaCierre  = "ready_to_close"
)

// SolicitudRenta es una solicitud pública de renta o compra (tabla rental_applications).
// AppointmentDate y AppointmentTime vienen como texto "YYYY-MM-DD" y "HH:MM".
type SolicitudRenta struct {
	Base
	PropertyID           *string `gorm:"type:uuid;index" json:"property_id"`
	PropertyRef          string  `json:"property_ref"`
	FullName             string  `json:"full_name"`
	Phone                string  `json:"phone"`
	Email                string  `json:"email"`
	Adults               int     `json:"adults"`
	Children             int     `json:"children"`
	HasPets              bool    `json:"has_pets"`
	KnowsArea            bool    `json:"knows_area"`
	Reason               string  `json:"reason"`
	MoveDate             string  `json:"move_date"`
	Duration             string  `json:"duration"`
	IncomeSource         string  `json:"income_source"`
	MeetsRatio           bool    `json:"meets_ratio"`
	BureauStatus         string  `json:"bureau_status"`
	IsBureauSevere       bool    `json:"is_bureau_severe"`
	MortgageStatus       string  `json:"mortgage_status,omitempty"`
	PaymentMethod        string  `json:"payment_method,omitempty"`
	AppointmentDate      string  `json:"appointment_date"`
	AppointmentTime      string  `json:"appointment_time"`
	AcceptedRequirements bool    `json:"accepted_requirements"`
	ApplicationType      string  `gorm:"default:rent" json:"application_type"`
	Status               string  `gorm:"index;not null;default:pending" json:"status"`

	AssignedTo  *string        `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	IsPotential bool           `gorm:"default:false" json:"is_potential"`
	Feedback    datatypes.JSON `json:"feedback,omitempty"`

	PaymentStatus       string     `json:"payment_status,omitempty"`
	InvestigationLink   string     `json:"investigation_link,omitempty"`
	InvestigationStatus string     `json:"investigation_status,omitempty"`
	InvestigationScore  *int       `json:"investigation_score,omitempty"`
	InvestigationNotes  string     `json:"investigation_notes,omitempty"`
	ArchivedAt          *time.Time `json:"archived_at,omitempty"`
}

func (SolicitudRenta) TableName() string { return "rental_applications" }

// EsVenta indica si la solicitud es de compra.
func (s *SolicitudRenta) EsVenta() bool { return s.ApplicationType == "sale" }

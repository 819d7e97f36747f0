package solicitud

type solicitudRequest struct {
	PropertyID           *string `json:"property_id" validate:"omitempty,uuid"`
	PropertyRef          string  `json:"property_ref"`
	FullName             string  `json:"full_name" validate:"required"`
	Phone                string  `json:"phone" validate:"required"`
	Email                string  `json:"email" validate:"omitempty,email"`
	Adults               int     `json:"adults" validate:"gte=0"`
	Children             int     `json:"children" validate:"gte=0"`
	HasPets              bool    `json:"has_pets"`
	KnowsArea            bool    `json:"knows_area"`
	Reason               string  `json:"reason"`
	MoveDate             string  `json:"move_date"`
	Duration             string  `json:"duration"`
	IncomeSource         string  `json:"income_source"`
	MeetsRatio           bool    `json:"meets_ratio"`
	BureauStatus         string  `json:"bureau_status"`
	IsBureauSevere       bool    `json:"is_bureau_severe"`
	MortgageStatus       string  `json:"mortgage_status"`
	PaymentMethod        string  `json:"payment_method"`
	AppointmentDate      string  `json:"appointment_date" validate:"omitempty,datetime=2006-01-02"`
	AppointmentTime      string  `json:"appointment_time" validate:"omitempty,datetime=15:04"`
	AcceptedRequirements bool    `json:"accepted_requirements"`
	ApplicationType      string  `json:"application_type" validate:"omitempty,oneof=rent sale"`
}

type estadoRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed investigating approved rejected completed ready_to_close"`
}

type asignarRequest struct {
	AsesorID string `json:"asesor_id" validate:"required,uuid"`
}

type feedbackRequest struct {
	Feedback map[string]any `json:"feedback" validate:"required"`
}

type veredictoRequest struct {
	Aprobada bool   `json:"aprobada"`
	Score    *int   `json:"score" validate:"omitempty,gte=0,lte=1000"`
	Notas    string `json:"notas"`
}

package cita

type citaRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	ClientName  string  `json:"client_name" validate:"required"`
	ClientPhone string  `json:"client_phone" validate:"required"`
	ClientEmail string  `json:"client_email" validate:"omitempty,email"`
	Fecha       string  `json:"date" validate:"required,datetime=2006-01-02"`
	Hora        string  `json:"time" validate:"required,datetime=15:04"`
	PropertyID  *string `json:"property_id" validate:"omitempty,uuid"`
	LeadID      *string `json:"lead_id" validate:"omitempty,uuid"`
}

type estadoRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled completed scheduled"`
}

type asignarRequest struct {
	AsesorID string `json:"asesor_id" validate:"required,uuid"`
}

type feedbackRequest struct {
	Feedback map[string]any `json:"feedback" validate:"required"`
	Renta    bool           `json:"renta"`
}

type reagendarRequest struct {
	Fecha string `json:"date" validate:"required,datetime=2006-01-02"`
	Hora  string `json:"time" validate:"required,datetime=15:04"`
}

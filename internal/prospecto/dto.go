package prospecto

import (
	"encoding/json"

	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"gorm.io/datatypes"
)

type prospectoRequest struct {
	FullName         string          `json:"full_name" validate:"required"`
	Email            string          `json:"email" validate:"omitempty,email"`
	Phone            string          `json:"phone"`
	Intent           string          `json:"intent" validate:"required,oneof=buy rent sell rent_out"`
	Status           string          `json:"status"`
	Source           string          `json:"source"`
	Notes            string          `json:"notes"`
	AssignedTo       *string         `json:"assigned_to" validate:"omitempty,uuid"`
	ReferredBy       *string         `json:"referred_by" validate:"omitempty,uuid"`
	PropertyID       *string         `json:"property_id"`
	PropertySnapshot json.RawMessage `json:"property_snapshot"`
	IsPotential      bool            `json:"is_potential"`
}

func (req *prospectoRequest) aplicar(p *models.Prospecto) {
	p.FullName = req.FullName
	p.Email = req.Email
	p.Phone = req.Phone
	p.Intent = req.Intent
	if req.Status != "" {
		p.Status = req.Status
	}
	p.Source = req.Source
	p.Notes = req.Notes
	p.AssignedTo = req.AssignedTo
	p.ReferredBy = req.ReferredBy
	p.PropertyID = req.PropertyID
	if len(req.PropertySnapshot) > 0 {
		p.PropertySnapshot = datatypes.JSON(req.PropertySnapshot)
	}
	p.IsPotential = req.IsPotential
}

type estadoRequest struct {
	Status   string    `json:"status" validate:"required"`
	Metadata *Cambios  `json:"metadata"`
	Contexto *Contexto `json:"contexto"`
}

type veredictoRequest struct {
	Aprobada bool   `json:"aprobada"`
	Score    *int   `json:"score" validate:"omitempty,gte=0,lte=1000"`
	Notas    string `json:"notas"`
}

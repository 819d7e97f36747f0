package propiedad

// Datos son los campos editables de una propiedad.
type Datos struct {
	Ref             string           `json:"ref" validate:"required"`
	Title           string           `json:"title" validate:"required"`
	Address         string           `json:"address"`
	FullAddress     string           `json:"full_address"`
	Description     string           `json:"description"`
	Price           float64          `json:"price" validate:"gte=0"`
	MaintenanceFee  float64          `json:"maintenance_fee" validate:"gte=0"`
	Type            string           `json:"type" validate:"required,oneof=sale rent"`
	Status          string           `json:"status" validate:"omitempty,oneof=available reserved rented paused"`
	StatusReason    *string          `json:"status_reason"`
	IsFeatured      bool             `json:"is_featured"`
	Specs           Especificaciones `json:"specs"`
	MainImage       string           `json:"main_image"`
	Images          []string         `json:"images"`
	Features        []string         `json:"features"`
	Services        []string         `json:"services"`
	Amenities       []string         `json:"amenities"`
	Spaces          []string         `json:"spaces"`
	Additionals     []string         `json:"additionals"`
	AccessCode      string           `json:"access_code"`
	Latitude        *float64         `json:"latitude"`
	Longitude       *float64         `json:"longitude"`
	OwnerID         *string          `json:"owner_id" validate:"omitempty,uuid"`
	TenantID        *string          `json:"tenant_id" validate:"omitempty,uuid"`
	ReferredBy      *string          `json:"referred_by" validate:"omitempty,uuid"`
	ContractEndDate string           `json:"contract_end_date"`
}

func (req *Datos) aplicar(p *Propiedad) {
	p.Ref = req.Ref
	p.Title = req.Title
	p.Address = req.Address
	p.FullAddress = req.FullAddress
	p.Description = req.Description
	p.Price = req.Price
	p.MaintenanceFee = req.MaintenanceFee
	p.Type = req.Type
	if req.Status != "" {
		p.Status = req.Status
		p.StatusReason = NormalizarMotivo(req.Status, req.StatusReason)
	}
	p.IsFeatured = req.IsFeatured
	p.Specs = req.Specs
	p.MainImage = req.MainImage
	p.Images = req.Images
	p.Features = req.Features
	p.Services = req.Services
	p.Amenities = req.Amenities
	p.Spaces = req.Spaces
	p.Additionals = req.Additionals
	p.AccessCode = req.AccessCode
	p.Latitude = req.Latitude
	p.Longitude = req.Longitude
	p.OwnerID = req.OwnerID
	p.TenantID = req.TenantID
	p.ReferredBy = req.ReferredBy
	p.ContractEndDate = req.ContractEndDate
}

type estadoRequest struct {
	Status       string  `json:"status" validate:"required,oneof=available reserved rented paused"`
	StatusReason *string `json:"status_reason"`
}

type internaRequest struct {
	Ref     string  `json:"ref" validate:"required"`
	Title   string  `json:"title"`
	Address string  `json:"address"`
	Status  string  `json:"status"`
	Price   float64 `json:"price" validate:"gte=0"`
}

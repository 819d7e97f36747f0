package propiedad

import "github.com/magno-inmobiliaria/api-admin/internal/models"

// Estados de propiedad
const (
	EstadoDisponible = "available"
	EstadoApartada   = "reserved"
	EstadoRentada    = "rented"
	EstadoPausada    = "paused"
)

// MotivoInvestigacion es el motivo por omisión al pausar.
const MotivoInvestigacion = "Inquilino en investigación"

const (
	TipoRenta = "rent"
	TipoVenta = "sale"
)

type Especificaciones struct {
	Beds          int     `json:"beds"`
	Baths         int     `json:"baths"`
	HalfBaths     int     `json:"halfBaths,omitempty"`
	Parking       int     `json:"parking"`
	Area          float64 `json:"area"`
	LandArea      float64 `json:"landArea,omitempty"`
	Age           int     `json:"age,omitempty"`
	Levels        int     `json:"levels,omitempty"`
	Condition     string  `json:"condition,omitempty"`
	Furnished     bool    `json:"furnished,omitempty"`
	Pets          bool    `json:"pets,omitempty"`
	IsVacant      bool    `json:"isVacant,omitempty"`
	HasDiningRoom bool    `json:"hasDiningRoom,omitempty"`
	HasLivingRoom bool    `json:"hasLivingRoom,omitempty"`
	HasTVRoom     bool    `json:"hasTVRoom,omitempty"`
	CommonAreas   int     `json:"commonAreas,omitempty"`
}

// Propiedad es un inmueble publicado (tabla properties).
type Propiedad struct {
	models.Base
	TokkoID        *string          `gorm:"uniqueIndex" json:"tokko_id,omitempty"`
	Ref            string           `gorm:"index" json:"ref"`
	Title          string           `json:"title"`
	Address        string           `json:"address"`
	FullAddress    string           `json:"full_address,omitempty"`
	Description    string           `json:"description"`
	Price          float64          `json:"price"`
	MaintenanceFee float64          `json:"maintenance_fee"`
	Type           string           `gorm:"index" json:"type"`
	Status         string           `gorm:"index;not null;default:available" json:"status"`
	StatusReason   *string          `json:"status_reason,omitempty"`
	IsFeatured     bool             `gorm:"default:false" json:"is_featured"`
	Specs          Especificaciones `gorm:"type:jsonb;serializer:json" json:"specs"`
	MainImage      string           `json:"main_image,omitempty"`
	Images         []string         `gorm:"type:jsonb;serializer:json" json:"images"`
	Features       []string         `gorm:"type:jsonb;serializer:json" json:"features"`
	Services       []string         `gorm:"type:jsonb;serializer:json" json:"services"`
	Amenities      []string         `gorm:"type:jsonb;serializer:json" json:"amenities"`
	Spaces         []string         `gorm:"type:jsonb;serializer:json" json:"spaces"`
	Additionals    []string         `gorm:"type:jsonb;serializer:json" json:"additionals"`
	AccessCode     string           `json:"access_code,omitempty"`
	Latitude       *float64         `json:"latitude,omitempty"`
	Longitude      *float64         `json:"longitude,omitempty"`

	OwnerID         *string `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	TenantID        *string `gorm:"type:uuid;index" json:"tenant_id,omitempty"`
	ReferredBy      *string `gorm:"type:uuid;index" json:"referred_by,omitempty"`
	ContractEndDate string  `json:"contract_end_date,omitempty"`
}

func (Propiedad) TableName() string { return "properties" }

// PropiedadInterna es una unidad administrada que no se publica (tabla internal_properties).
type PropiedadInterna struct {
	models.Base
	Ref      string  `gorm:"uniqueIndex;not null" json:"ref"`
	Title    string  `json:"title"`
	Address  string  `json:"address"`
	Status   string  `gorm:"default:rented" json:"status"`
	Price    float64 `json:"price"`
	OwnerID  *string `gorm:"type:uuid" json:"owner_id,omitempty"`
	TenantID *string `gorm:"type:uuid" json:"tenant_id,omitempty"`
}

func (PropiedadInterna) TableName() string { return "internal_properties" }

// EtiquetaEstado es el verbo que se muestra al confirmar un cambio de estado.
func EtiquetaEstado(actual *Propiedad, nuevo string) string {
	switch nuevo {
	case EstadoPausada:
		return "PAUSAR"
	case EstadoDisponible:
		if actual != nil && (actual.Status == EstadoApartada ||
			(actual.Status == EstadoPausada && actual.StatusReason != nil && *actual.StatusReason == MotivoInvestigacion)) {
			return "DESAPARTAR"
		}
		return "ACTIVAR"
	case EstadoApartada:
		return "APARTAR"
	case EstadoRentada:
		return "RENTAR"
	}
	return "ACTUALIZAR"
}

func EstadoValido(s string) bool {
	switch s {
	case EstadoDisponible, EstadoApartada, EstadoRentada, EstadoPausada:
		return true
	}
	return false
}

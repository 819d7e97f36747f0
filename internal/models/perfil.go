package models

// Tipos de asesor
const (
	AsesorCerrador   = "cerrador"
	AsesorOpcionador = "opcionador"
)

// Perfil es la fila de "profiles": todo usuario que inicia sesión (admin, asesor,
// marketing, propietario o inquilino).
type Perfil struct {
	Base
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	Role         string `gorm:"index;not null" json:"role"`
	AdvisorType  string `json:"advisor_type,omitempty"`
	PasswordHash string `json:"-"`

	// Datos de cliente (propietario o inquilino)
	PropertyID        *string `gorm:"type:uuid" json:"property_id,omitempty"`
	PropertyCode      string  `json:"property_code,omitempty"`
	PropertyTitle     string  `json:"property_title,omitempty"`
	PropertyAddress   string  `json:"property_address,omitempty"`
	DepositDay        string  `json:"deposit_day,omitempty"`
	MonthlyAmount     float64 `json:"monthly_amount,omitempty"`
	ContractStartDate string  `json:"contract_start_date,omitempty"`
	ContractEndDate   string  `json:"contract_end_date,omitempty"`
}

func (Perfil) TableName() string { return "profiles" }

package usuario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/comprobante"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/propiedad"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/gorm"
)

// ErrFaltanDatosPropiedad se envuelve con el folio que no existe.
var ErrFaltanDatosPropiedad = errors.New("faltan datos de la propiedad")

// Cliente es el alta o edición de un propietario o inquilino junto con el
// inmueble que le corresponde.
type Cliente struct {
	ID                string  `json:"id" validate:"omitempty,uuid"`
	Email             string  `json:"email" validate:"required,email"`
	FullName          string  `json:"full_name" validate:"required"`
	Phone             string  `json:"phone"`
	Role              string  `json:"role" validate:"required,oneof=owner tenant"`
	PropertyCode      string  `json:"property_code" validate:"required"`
	PropertyTitle     string  `json:"property_title"`
	PropertyAddress   string  `json:"property_address"`
	DepositDay        string  `json:"deposit_day"`
	MonthlyAmount     float64 `json:"monthly_amount" validate:"gte=0"`
	ContractStartDate string  `json:"contract_start_date"`
	ContractEndDate   string  `json:"contract_end_date"`

	// Meses marcados como pagados a mano; nil deja los comprobantes como están.
	PaidMonths []string `json:"paid_months,omitempty" validate:"omitempty,dive,datetime=2006-01"`
}

type errorFolio struct{ folio string }

func (e errorFolio) Error() string {
	return fmt.Sprintf("La propiedad con folio %q no existe. Para crearla automáticamente, debes llenar el Título y la Dirección.", e.folio)
}

func (e errorFolio) Unwrap() error { return ErrFaltanDatosPropiedad }

// GuardarCliente crea o actualiza el perfil del cliente dentro de una
// transacción. El folio se busca primero en propiedades internas y luego en
// las publicadas; si no existe en ninguna se da de alta como interna rentada.
// Al crear un perfil nuevo devuelve su contraseña temporal.
func GuardarCliente(db *gorm.DB, c *Cliente) (*models.Perfil, string, error) {
	var (
		perfil   *models.Perfil
		temporal string
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		propertyID, err := resolverPropiedad(tx, c)
		if err != nil {
			return err
		}

		repo := NewRepository()
		if c.ID != "" {
			if perfil, err = repo.BuscarPorID(tx, c.ID); err != nil {
				return err
			}
		} else {
			if temporal, err = utils.GenerarContrasenaTemporal(); err != nil {
				return err
			}
			hash, err := utils.HashContrasena(temporal)
			if err != nil {
				return err
			}
			perfil = &models.Perfil{PasswordHash: hash}
		}

		perfil.Email = utils.NormalizarCorreo(c.Email)
		perfil.FullName = c.FullName
		perfil.Phone = c.Phone
		perfil.Role = c.Role
		perfil.PropertyID = propertyID
		perfil.PropertyCode = c.PropertyCode
		perfil.PropertyTitle = c.PropertyTitle
		perfil.PropertyAddress = c.PropertyAddress
		perfil.DepositDay = c.DepositDay
		perfil.MonthlyAmount = c.MonthlyAmount
		perfil.ContractStartDate = c.ContractStartDate
		perfil.ContractEndDate = c.ContractEndDate
		if err := repo.Salvar(tx, perfil); err != nil {
			return err
		}
		if err := vincular(tx, c, perfil.ID, propertyID); err != nil {
			return err
		}
		if c.PaidMonths == nil {
			return nil
		}
		return pagosManuales(tx, c, perfil.ID, propertyID)
	})
	if err != nil {
		return nil, "", err
	}
	return perfil, temporal, nil
}

// resolverPropiedad devuelve el id de la propiedad publicada que corresponde
// al folio, o nil cuando el folio es de una propiedad interna.
func resolverPropiedad(tx *gorm.DB, c *Cliente) (*string, error) {
	repo := propiedad.NewRepository()
	folio := strings.TrimSpace(c.PropertyCode)

	interna, err := repo.BuscarInternaPorRef(tx, folio)
	if err == nil {
		if c.PropertyTitle != "" {
			interna.Title = c.PropertyTitle
		}
		if c.PropertyAddress != "" {
			interna.Address = c.PropertyAddress
		}
		return nil, repo.GuardarInterna(tx, interna)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	publica, err := repo.BuscarPorRef(tx, folio)
	if err == nil {
		if c.PropertyTitle != "" {
			publica.Title = c.PropertyTitle
		}
		if c.PropertyAddress != "" {
			publica.Address = c.PropertyAddress
		}
		if err := repo.Actualizar(tx, publica); err != nil {
			return nil, err
		}
		return &publica.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if strings.TrimSpace(c.PropertyTitle) == "" || strings.TrimSpace(c.PropertyAddress) == "" {
		return nil, errorFolio{folio: folio}
	}
	nueva := propiedad.PropiedadInterna{
		Ref:     folio,
		Title:   c.PropertyTitle,
		Address: c.PropertyAddress,
		Status:  propiedad.EstadoRentada,
		Price:   c.MonthlyAmount,
	}
	return nil, repo.GuardarInterna(tx, &nueva)
}

// vincular deja al cliente como dueño o inquilino del inmueble.
func vincular(tx *gorm.DB, c *Cliente, perfilID string, propertyID *string) error {
	columna := "owner_id"
	if c.Role == auth.RolInquilino {
		columna = "tenant_id"
	}
	if propertyID != nil {
		return tx.Model(&propiedad.Propiedad{}).Where("id = ?", *propertyID).Update(columna, perfilID).Error
	}
	return tx.Model(&propiedad.PropiedadInterna{}).Where("ref = ?", strings.TrimSpace(c.PropertyCode)).Update(columna, perfilID).Error
}

// pagosManuales deja los comprobantes manuales del cliente iguales a PaidMonths.
func pagosManuales(tx *gorm.DB, c *Cliente, perfilID string, propertyID *string) error {
	m := comprobante.Manuales{
		UserID:     perfilID,
		PropertyID: propertyID,
		Meses:      c.PaidMonths,
		Monto:      c.MonthlyAmount,
	}
	if propertyID == nil {
		interna, err := propiedad.NewRepository().BuscarInternaPorRef(tx, strings.TrimSpace(c.PropertyCode))
		if err != nil {
			return err
		}
		m.InternalPropertyID = &interna.ID
	}
	return comprobante.SincronizarManuales(tx, m)
}

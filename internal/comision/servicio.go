package comision

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"gorm.io/gorm"
)

var (
	ErrSinAsesor      = errors.New("el prospecto no tiene asesor asignado")
	ErrParcelaPagada  = errors.New("no se puede cambiar el estado de una parcela ya pagada")
	ErrEstadoInvalido = errors.New("estado de parcela inválido")
)

// DiasVencimiento es el plazo de la parcela que se genera al cerrar.
const DiasVencimiento = 30

// GenerarParaCierre registra la comisión de un prospecto cerrado con una
// parcela única. Si el prospecto ya tiene comisión la devuelve sin cambios.
func GenerarParaCierre(tx *gorm.DB, p *models.Prospecto, montoBase float64, ahora time.Time) (*Comision, error) {
	asesor := p.Responsable()
	if asesor == "" {
		return nil, ErrSinAsesor
	}
	repo := NewRepository(tx)
	if c, err := repo.FindByLead(p.ID); err == nil {
		return c, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tipo, porcentaje := "rent", PorcentajeRenta
	if p.Intent == models.IntencionComprar || p.Intent == models.IntencionVender {
		tipo, porcentaje = "sale", PorcentajeVenta
	}
	valor := math.Round(montoBase*porcentaje) / 100

	c := Comision{
		LeadID:      p.ID,
		AdvisorID:   asesor,
		PropertyID:  p.PropertyID,
		Tipo:        tipo,
		MontoBase:   montoBase,
		Porcentaje:  porcentaje,
		Status:      ComisionPendiente,
		FechaCierre: ahora,
	}
	if err := repo.Create(&c); err != nil {
		return nil, fmt.Errorf("crear comisión: %w", err)
	}
	parcela := Parcela{Valor: valor, FechaVencimiento: ahora.AddDate(0, 0, DiasVencimiento)}
	if err := repo.CreateParcela(c.ID, &parcela); err != nil {
		return nil, fmt.Errorf("crear parcela: %w", err)
	}
	if err := repo.Recalcular(c.ID); err != nil {
		return nil, err
	}
	return repo.FindByID(c.ID)
}

// CambiarEstadoParcela actualiza la parcela y recalcula la comisión en la misma tx.
func CambiarEstadoParcela(db *gorm.DB, id, status string, ahora time.Time) (*Parcela, error) {
	if !estadoParcelaValido(status) {
		return nil, ErrEstadoInvalido
	}
	var out *Parcela
	err := db.Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		actual, err := repo.FindParcela(id)
		if err != nil {
			return err
		}
		if actual.Status == ParcelaPagada && status != ParcelaPagada {
			return ErrParcelaPagada
		}
		if err := repo.UpdateStatusParcela(id, status, ahora); err != nil {
			return err
		}
		if err := repo.Recalcular(actual.ComisionID); err != nil {
			return err
		}
		out, err = repo.FindParcela(id)
		return err
	})
	return out, err
}

package comprobante

import (
	"errors"
	"fmt"
	"slices"

	"github.com/magno-inmobiliaria/api-admin/internal/timeline"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/gorm"
)

var ErrYaAprobado = errors.New("el comprobante ya fue aprobado")

// Aprobar marca el comprobante y deja constancia en la línea de tiempo de la propiedad.
func Aprobar(db *gorm.DB, id string) (*ConDetalle, error) {
	repo := NewRepository()
	c, err := repo.BuscarPorID(db, id)
	if err != nil {
		return nil, err
	}
	if err := repo.ActualizarEstado(db, id, EstadoAprobado); err != nil {
		return nil, err
	}
	c.Status = EstadoAprobado
	if c.PropertyID != nil {
		timeline.Registrar(db, *c.PropertyID, "Pago Aprobado: "+c.MonthYear,
			fmt.Sprintf("Monto: %s. Usuario: %s", utils.Moneda(c.Amount), c.UserName))
	}
	return c, nil
}

// Rechazar archiva el comprobante en rejected_payments y lo borra, en una sola
// transacción; el mes vuelve a aparecer como no pagado.
func Rechazar(db *gorm.DB, id, motivo string) error {
	if motivo == "" {
		motivo = MotivoRechazoAdmin
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var c Comprobante
		if err := tx.First(&c, "id = ?", id).Error; err != nil {
			return err
		}
		if c.Status == EstadoAprobado {
			return ErrYaAprobado
		}
		r := Rechazado{
			UserID:                 c.UserID,
			PropertyID:             c.PropertyID,
			MonthYear:              c.MonthYear,
			Amount:                 c.Amount,
			ProofURL:               c.ProofURL,
			RejectionReason:        motivo,
			OriginalPaymentProofID: c.ID,
		}
		if err := tx.Create(&r).Error; err != nil {
			return fmt.Errorf("archivar rechazo: %w", err)
		}
		return tx.Delete(&Comprobante{}, "id = ?", c.ID).Error
	})
}

// Manuales son los meses que el admin marca como pagados desde la ficha del cliente.
type Manuales struct {
	UserID             string
	PropertyID         *string
	InternalPropertyID *string
	Meses              []string
	Monto              float64
}

// SincronizarManuales deja como aprobados exactamente los meses indicados:
// crea los que faltan y borra los aprobados que ya no están en la lista.
func SincronizarManuales(tx *gorm.DB, m Manuales) error {
	existentes, err := NewRepository().MesesAprobados(tx, m.UserID)
	if err != nil {
		return err
	}
	var nuevos []Comprobante
	for _, mes := range m.Meses {
		if slices.Contains(existentes, mes) {
			continue
		}
		nuevos = append(nuevos, Comprobante{
			UserID:             &m.UserID,
			PropertyID:         m.PropertyID,
			InternalPropertyID: m.InternalPropertyID,
			MonthYear:          mes,
			Amount:             m.Monto,
			ProofURL:           URLManual,
			Status:             EstadoAprobado,
		})
	}
	if len(nuevos) > 0 {
		if err := tx.Create(&nuevos).Error; err != nil {
			return err
		}
	}
	var quitar []string
	for _, mes := range existentes {
		if !slices.Contains(m.Meses, mes) {
			quitar = append(quitar, mes)
		}
	}
	if len(quitar) == 0 {
		return nil
	}
	return tx.Where("user_id = ? AND status = ? AND month_year IN ?", m.UserID, EstadoAprobado, quitar).
		Delete(&Comprobante{}).Error
}

package reclutamiento

import (
	"errors"
	"fmt"
	"time"

	"github.com/magno-inmobiliaria/api-admin/internal/documento"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/notificacion"
	"gorm.io/gorm"
)

var ErrEstadoInvalido = errors.New("estado de reclutamiento inválido")

func estadoValido(s string) bool {
	switch s {
	case models.ReclutamientoBorrador, models.ReclutamientoPendiente, models.ReclutamientoAprobado,
		models.ReclutamientoRechazado, models.ReclutamientoCambios:
		return true
	}
	return false
}

// ActualizarEstado cambia el estado de la solicitud. Rechazada guarda el
// motivo y con cambios solicitados guarda el feedback. Al aprobar se avisa al
// propietario y se registran sus documentos (ficha y, si dejó llaves, el
// recibo), todo en la misma transacción.
func ActualizarEstado(db *gorm.DB, id, status, motivo, feedback string, ahora time.Time) (*models.Reclutamiento, error) {
	if !estadoValido(status) {
		return nil, ErrEstadoInvalido
	}
	campos := map[string]any{"status": status}
	switch status {
	case models.ReclutamientoRechazado:
		campos["rejection_reason"] = motivo
	case models.ReclutamientoCambios:
		campos["feedback"] = feedback
	}

	repo := NewRepository()
	var out *models.Reclutamiento
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := repo.ActualizarCampos(tx, id, campos); err != nil {
			return err
		}
		rec, err := repo.BuscarPorID(tx, id)
		if err != nil {
			return err
		}
		out = rec
		if status != models.ReclutamientoAprobado {
			return nil
		}
		titulo := rec.Formulario().Title
		if titulo == "" {
			titulo = "Propiedad"
		}
		if rec.OwnerID != nil {
			notificacion.Notificar(tx, rec.OwnerID, notificacion.TipoExito, "¡Propiedad Aprobada!",
				fmt.Sprintf("Tu propiedad %q ha sido aprobada. La estamos subiendo a los portales globales "+
					"(Tokko, Inmuebles24, etc.). Te avisaremos en cuanto esté pública.", titulo))
		}
		if _, err := documento.RegistrarParaReclutamiento(tx, rec, ahora); err != nil {
			return fmt.Errorf("vincular documentos: %w", err)
		}
		return nil
	})
	return out, err
}

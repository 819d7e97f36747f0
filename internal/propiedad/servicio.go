package propiedad

import (
	"errors"
	"fmt"
	"strings"

	"github.com/magno-inmobiliaria/api-admin/internal/timeline"
	"gorm.io/gorm"
)

var ErrEstadoInvalido = errors.New("estado de propiedad inválido")

// Alta crea la propiedad y deja el primer evento en su línea de tiempo.
func Alta(db *gorm.DB, p *Propiedad) error {
	if p.Status == "" {
		p.Status = EstadoDisponible
	}
	if err := NewRepository().Crear(db, p); err != nil {
		return err
	}
	timeline.Registrar(db, p.ID, "Propiedad Registrada", "Alta inicial de la unidad en el sistema Magno.")
	return nil
}

// NormalizarMotivo aplica las reglas del motivo según el estado: disponible lo
// limpia y pausada usa el motivo de investigación cuando no viene ninguno.
func NormalizarMotivo(estado string, motivo *string) *string {
	switch estado {
	case EstadoDisponible:
		return nil
	case EstadoPausada:
		if motivo == nil || strings.TrimSpace(*motivo) == "" {
			m := MotivoInvestigacion
			return &m
		}
	}
	if motivo != nil && strings.TrimSpace(*motivo) == "" {
		return nil
	}
	return motivo
}

// CambiarEstado actualiza estado y motivo y lo anota en la línea de tiempo.
func CambiarEstado(db *gorm.DB, id, estado string, motivo *string) error {
	if !EstadoValido(estado) {
		return ErrEstadoInvalido
	}
	motivo = NormalizarMotivo(estado, motivo)
	if err := NewRepository().ActualizarEstado(db, id, estado, motivo); err != nil {
		return err
	}
	desc := fmt.Sprintf("La unidad cambió a estado %s.", estado)
	if motivo != nil {
		desc = fmt.Sprintf("La unidad cambió a estado %s. Motivo: %s", estado, *motivo)
	}
	timeline.Registrar(db, id, "Estado actualizado", desc)
	return nil
}

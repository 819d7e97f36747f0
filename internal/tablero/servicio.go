package tablero

import (
	"errors"
	"time"

	"github.com/magno-inmobiliaria/api-admin/internal/asesor"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/cita"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/prospecto"
	"github.com/magno-inmobiliaria/api-admin/internal/reclutamiento"
	"github.com/magno-inmobiliaria/api-admin/internal/solicitud"
	"gorm.io/gorm"
)

// soloDe devuelve el id por el que hay que filtrar en la base, vacío si el
// visor ve todo.
func (v Visor) soloDe() string {
	if v.VeTodo() {
		return ""
	}
	return v.ID
}

// CargarCitas trae las dos fuentes de la agenda y las unifica.
func CargarCitas(db *gorm.DB, v Visor, f FiltroCitas, ahora time.Time) ([]models.Cita, error) {
	citas, err := cita.NewRepository().Listar(db, cita.Filtro{AsignadoA: v.soloDe()})
	if err != nil {
		return nil, err
	}
	sols, err := solicitud.NewRepository().Listar(db, solicitud.Filtro{AsignadoA: v.soloDe()})
	if err != nil {
		return nil, err
	}
	return UnificarCitas(citas, sols, v, f, ahora), nil
}

// CargarPotenciales devuelve los prospectos visibles y los potenciales ya agrupados.
func CargarPotenciales(db *gorm.DB, v Visor) ([]models.Prospecto, []Potencial, error) {
	prospectos, err := prospecto.NewRepository().Listar(db, prospecto.Filtro{SoloDe: v.soloDe()})
	if err != nil {
		return nil, nil, err
	}
	citas, err := cita.NewRepository().Listar(db, cita.Filtro{AsignadoA: v.soloDe()})
	if err != nil {
		return nil, nil, err
	}
	recs, err := reclutamiento.NewRepository().Listar(db, reclutamiento.Filtro{ReferidoPor: v.soloDe()})
	if err != nil {
		return nil, nil, err
	}
	return prospectos, ClientesPotenciales(prospectos, citas, recs, v), nil
}

// RachaDeAsesor lee la bitácora del asesor y calcula su racha a la fecha hoy.
func RachaDeAsesor(db *gorm.DB, asesorID string, hoy time.Time) (int, error) {
	desde := inicioDelDia(hoy).AddDate(0, 0, -MaxDiasRacha)
	var fechas []time.Time
	err := db.Model(&models.ActividadAsesor{}).
		Where("advisor_id = ? AND created_at >= ?", asesorID, desde).
		Pluck("created_at", &fechas).Error
	if err != nil {
		return 0, err
	}
	return CalcularRacha(fechas, hoy), nil
}

// Resumen es el desempeño de un asesor.
type Resumen struct {
	Perfil      asesor.Perfil `json:"profile"`
	Embudo      Embudo        `json:"funnel"`
	Racha       int           `json:"streak"`
	Potenciales []Potencial   `json:"potential_clients"`
}

func ResumenAsesor(db *gorm.DB, asesorID string, hoy time.Time) (*Resumen, error) {
	perfil, err := asesor.NewRepository().Buscar(db, asesorID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		perfil = &asesor.Perfil{UserID: asesorID, WeeklyGoal: asesor.MetaSemanalDefault}
	case err != nil:
		return nil, err
	}
	v := Visor{ID: asesorID, Rol: auth.RolAsesor}
	prospectos, potenciales, err := CargarPotenciales(db, v)
	if err != nil {
		return nil, err
	}
	racha, err := RachaDeAsesor(db, asesorID, hoy)
	if err != nil {
		return nil, err
	}
	return &Resumen{
		Perfil:      *perfil,
		Embudo:      CalcularEmbudo(prospectos, potenciales),
		Racha:       racha,
		Potenciales: potenciales,
	}, nil
}

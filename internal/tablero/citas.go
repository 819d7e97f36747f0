// Package tablero calcula las vistas derivadas del panel: agenda unificada,
// clientes potenciales, embudo de conversión y racha de actividad.
package tablero

import (
	"fmt"
	"sort"
	"time"

	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
)

// Fuentes de la vista unificada
const (
	FuenteCita      = "appointment"
	FuenteSolicitud = "rental"
)

// Pestañas de la agenda
const (
	PestanaAgenda    = "agenda"
	PestanaHistorial = "historial"
)

// Visor es quien consulta el tablero.
type Visor struct {
	ID  string
	Rol string
}

// VeTodo indica si el rol ve los registros de todos los asesores.
func (v Visor) VeTodo() bool {
	return v.Rol == auth.RolAdmin || v.Rol == auth.RolMarketing
}

func (v Visor) esDe(asignado *string) bool {
	return asignado != nil && *asignado == v.ID
}

// FiltroCitas acota la agenda. Desde y Hasta son días completos en la zona de ahora.
type FiltroCitas struct {
	Pestana string
	Status  string
	Desde   *time.Time
	Hasta   *time.Time
}

// CitaDeSolicitud convierte una solicitud con fecha y hora en una cita.
// Devuelve false si le falta alguno de los dos datos o no se pueden leer.
func CitaDeSolicitud(s *models.SolicitudRenta, zona *time.Location) (models.Cita, bool) {
	if s.AppointmentDate == "" || s.AppointmentTime == "" {
		return models.Cita{}, false
	}
	inicio, err := time.ParseInLocation("2006-01-02 15:04", s.AppointmentDate+" "+hhmm(s.AppointmentTime), zona)
	if err != nil {
		return models.Cita{}, false
	}
	tipo := "Renta"
	if s.EsVenta() {
		tipo = "Venta"
	}
	c := models.Cita{
		PropertyID:  s.PropertyID,
		Title:       fmt.Sprintf("%s - %s", tipo, s.PropertyRef),
		StartTime:   inicio,
		EndTime:     inicio,
		ClientName:  s.FullName,
		ClientPhone: s.Phone,
		ClientEmail: s.Email,
		Status:      estadoDeSolicitud(s.Status),
		AssignedTo:  s.AssignedTo,
		IsPotential: s.IsPotential,
		Feedback:    s.Feedback,
		Fuente:      FuenteSolicitud,
	}
	c.ID = s.ID
	c.CreatedAt = s.CreatedAt
	c.UpdatedAt = s.UpdatedAt
	return c, true
}

// hhmm recorta "10:30:00" a "10:30".
func hhmm(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

// estadoDeSolicitud: solo una solicitud aprobada cuenta como visita
// confirmada; cualquier otro estado se muestra como programada.
func estadoDeSolicitud(s string) string {
	if s == models.SolicitudAprobada {
		return models.CitaConfirmada
	}
	return models.CitaProgramada
}

// UnificarCitas junta las citas propias con las solicitudes que traen fecha
// de visita, aplica la visibilidad del visor y el filtro, y ordena por inicio.
func UnificarCitas(citas []models.Cita, solicitudes []models.SolicitudRenta, v Visor, f FiltroCitas, ahora time.Time) []models.Cita {
	zona := ahora.Location()
	todas := make([]models.Cita, 0, len(citas)+len(solicitudes))
	for _, c := range citas {
		c.Fuente = FuenteCita
		todas = append(todas, c)
	}
	for i := range solicitudes {
		if c, ok := CitaDeSolicitud(&solicitudes[i], zona); ok {
			todas = append(todas, c)
		}
	}

	hoy := inicioDelDia(ahora)
	out := todas[:0]
	for _, c := range todas {
		if !v.VeTodo() && !v.esDe(c.AssignedTo) {
			continue
		}
		agenda := !c.StartTime.Before(hoy) && !c.Finalizada()
		switch f.Pestana {
		case PestanaAgenda:
			if !agenda {
				continue
			}
		case PestanaHistorial:
			if agenda {
				continue
			}
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Desde != nil && c.StartTime.Before(inicioDelDia(f.Desde.In(zona))) {
			continue
		}
		if f.Hasta != nil && !c.StartTime.Before(inicioDelDia(f.Hasta.In(zona)).AddDate(0, 0, 1)) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func inicioDelDia(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

package cita

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"gorm.io/gorm"
)

// Duracion de una cita creada desde el panel.
const Duracion = time.Hour

var (
	ErrSinActualizar = errors.New("No se pudo actualizar la cita. Verifica que tengas asignada esta cita " +
		"y que la base de datos tenga las columnas y permisos necesarios.")
	ErrFechaInvalida = errors.New("fecha u hora inválida")
	ErrAjena         = errors.New("la cita no está asignada a este asesor")
)

// Inicio combina fecha "YYYY-MM-DD" y hora "HH:MM" en la zona dada.
func Inicio(fecha, hora string, zona *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(fecha)+" "+strings.TrimSpace(hora), zona)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %s", ErrFechaInvalida, fecha, hora)
	}
	return t, nil
}

// EsPotencial interpreta el campo is_potential del formulario de feedback,
// que puede llegar como booleano o como texto de checkbox.
func EsPotencial(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x == "true" || x == "on"
	}
	return false
}

// GuardarFeedback marca la cita (o la solicitud de renta, si esRenta) como
// completada con su feedback. Con soloDe, solo actualiza si está asignada a
// ese usuario.
func GuardarFeedback(db *gorm.DB, id string, feedback map[string]any, esRenta bool, soloDe string) error {
	raw, err := json.Marshal(feedback)
	if err != nil {
		return err
	}
	var modelo any = &models.Cita{}
	status := models.CitaCompletada
	if esRenta {
		modelo = &models.SolicitudRenta{}
		status = models.SolicitudCompletada
	}
	q := db.Model(modelo).Where("id = ?", id)
	if soloDe != "" {
		q = q.Where("assigned_to = ?", soloDe)
	}
	res := q.Updates(map[string]any{
		"feedback":     raw,
		"status":       status,
		"is_potential": EsPotencial(feedback["is_potential"]),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSinActualizar
	}
	return nil
}

// Asignada falla con ErrAjena si la solicitud de renta o la cita con ese id
// no está asignada al usuario.
func Asignada(db *gorm.DB, id, usuario string) error {
	var sol models.SolicitudRenta
	err := db.First(&sol, "id = ?", id).Error
	if err == nil {
		return propia(sol.AssignedTo, usuario)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	c, err := NewRepository().BuscarPorID(db, id)
	if err != nil {
		return err
	}
	return propia(c.AssignedTo, usuario)
}

func propia(asignado *string, usuario string) error {
	if asignado == nil || *asignado != usuario {
		return ErrAjena
	}
	return nil
}

// Reagendar mueve una cita. Primero intenta con la solicitud de renta del
// mismo id (que guarda fecha y hora como texto) y, si no existe, con la cita
// nativa.
func Reagendar(db *gorm.DB, id, fecha, hora string, zona *time.Location) error {
	inicio, err := Inicio(fecha, hora, zona)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.SolicitudRenta{}).Where("id = ?", id).Updates(map[string]any{
			"appointment_date": inicio.Format(time.DateOnly),
			"appointment_time": inicio.Format("15:04"),
			"status":           models.SolicitudPendiente,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		return NewRepository().ActualizarCampos(tx, id, map[string]any{
			"start_time": inicio,
			"end_time":   inicio.Add(Duracion),
		})
	})
}

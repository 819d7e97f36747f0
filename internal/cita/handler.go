package cita

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/notificacion"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Zona       *time.Location
}

func NewHandler(db *gorm.DB, zona *time.Location) *Handler {
	return &Handler{DB: db, Repository: NewRepository(), Zona: zona}
}

func (h *Handler) fallo(w http.ResponseWriter, err error, accion string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Cita no encontrada", http.StatusNotFound)
	case errors.Is(err, ErrSinActualizar):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrFechaInvalida):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrAjena):
		http.Error(w, "acceso denegado", http.StatusForbidden)
	default:
		slog.Error(accion, "error", err)
		http.Error(w, "Error al "+accion, http.StatusInternalServerError)
	}
}

// soloAsignadas: un asesor solo opera las citas que tiene asignadas; los
// demás roles pasan sin consulta.
func (h *Handler) soloAsignadas(r *http.Request, id string) error {
	yo, rol := auth.Usuario(r.Context())
	if rol != auth.RolAsesor {
		return nil
	}
	return Asignada(h.DB.WithContext(r.Context()), id, yo)
}

// GET /citas?status=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	f := Filtro{Status: r.URL.Query().Get("status")}
	if id, rol := auth.Usuario(r.Context()); rol == auth.RolAsesor {
		f.AsignadoA = id
	}
	out, err := h.Repository.Listar(h.DB.WithContext(r.Context()), f)
	if err != nil {
		h.fallo(w, err, "cargar citas")
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// POST /citas
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req citaRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	inicio, err := Inicio(req.Fecha, req.Hora, h.Zona)
	if err != nil {
		h.fallo(w, err, "agendar la cita")
		return
	}
	c := models.Cita{
		PropertyID:  req.PropertyID,
		LeadID:      req.LeadID,
		Title:       req.Title,
		Description: req.Description,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		StartTime:   inicio,
		EndTime:     inicio.Add(Duracion),
		Status:      models.CitaProgramada,
	}
	if err := h.Repository.Crear(h.DB.WithContext(r.Context()), &c); err != nil {
		h.fallo(w, err, "agendar la cita")
		return
	}
	utils.JSON(w, http.StatusCreated, c)
}

// PATCH /citas/{id}/estado
func (h *Handler) ActualizarEstado(w http.ResponseWriter, r *http.Request) {
	var req estadoRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	id := mux.Vars(r)["id"]
	if err := h.soloAsignadas(r, id); err != nil {
		h.fallo(w, err, "actualizar cita")
		return
	}
	err := h.Repository.ActualizarCampos(h.DB.WithContext(r.Context()), id,
		map[string]any{"status": req.Status})
	if err != nil {
		h.fallo(w, err, "actualizar cita")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PATCH /citas/{id}/asignar
func (h *Handler) Asignar(w http.ResponseWriter, r *http.Request) {
	var req asignarRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	db := h.DB.WithContext(r.Context())
	id := mux.Vars(r)["id"]
	err := h.Repository.ActualizarCampos(db, id, map[string]any{
		"assigned_to": req.AsesorID,
		"status":      models.CitaAsignada,
	})
	if err != nil {
		h.fallo(w, err, "asignar la cita")
		return
	}
	if c, err := h.Repository.BuscarPorID(db, id); err == nil {
		notificacion.Notificar(db, &req.AsesorID, notificacion.TipoCita, "Nueva cita asignada",
			c.Title+" con "+c.ClientName+" el "+c.StartTime.In(h.Zona).Format("02/01/2006 15:04"))
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /citas/{id}/confirmar
func (h *Handler) Confirmar(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.soloAsignadas(r, id); err != nil {
		h.fallo(w, err, "confirmar la cita")
		return
	}
	err := h.Repository.ActualizarCampos(h.DB.WithContext(r.Context()), id,
		map[string]any{"status": models.CitaConfirmada})
	if err != nil {
		h.fallo(w, err, "confirmar la cita")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /citas/{id}/feedback
// Un asesor solo puede dejar feedback en sus citas.
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	soloDe := ""
	if id, rol := auth.Usuario(r.Context()); rol == auth.RolAsesor {
		soloDe = id
	}
	err := GuardarFeedback(h.DB.WithContext(r.Context()), mux.Vars(r)["id"], req.Feedback, req.Renta, soloDe)
	if err != nil {
		h.fallo(w, err, "guardar el feedback")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PATCH /citas/{id}/reagendar
func (h *Handler) Reagendar(w http.ResponseWriter, r *http.Request) {
	var req reagendarRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	id := mux.Vars(r)["id"]
	if err := h.soloAsignadas(r, id); err != nil {
		h.fallo(w, err, "reagendar")
		return
	}
	if err := Reagendar(h.DB.WithContext(r.Context()), id, req.Fecha, req.Hora, h.Zona); err != nil {
		h.fallo(w, err, "reagendar")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /citas/{id}
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	if err := h.Repository.Eliminar(h.DB.WithContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.fallo(w, err, "eliminar la cita")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

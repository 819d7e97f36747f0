package solicitud

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/cita"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/notificacion"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Ahora      func() time.Time
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository(), Ahora: time.Now}
}

func (h *Handler) fallo(w http.ResponseWriter, err error, accion string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Solicitud no encontrada", http.StatusNotFound)
	case errors.Is(err, cita.ErrSinActualizar):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		slog.Error(accion, "error", err)
		http.Error(w, "Error al "+accion, http.StatusInternalServerError)
	}
}

// GET /solicitudes?tipo=rent|sale&status=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filtro{Tipo: q.Get("tipo"), Status: q.Get("status")}
	if id, rol := auth.Usuario(r.Context()); rol == auth.RolAsesor {
		f.AsignadoA = id
	}
	out, err := h.Repository.Listar(h.DB.WithContext(r.Context()), f)
	if err != nil {
		h.fallo(w, err, "cargar solicitudes")
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// GET /solicitudes/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repository.BuscarPorID(h.DB.WithContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.fallo(w, err, "cargar la solicitud")
		return
	}
	utils.JSON(w, http.StatusOK, s)
}

// POST /solicitudes (formulario público)
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req solicitudRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	s := models.SolicitudRenta{
		PropertyID:           req.PropertyID,
		PropertyRef:          req.PropertyRef,
		FullName:             req.FullName,
		Phone:                utils.NormalizarTelefono(req.Phone),
		Email:                utils.NormalizarCorreo(req.Email),
		Adults:               req.Adults,
		Children:             req.Children,
		HasPets:              req.HasPets,
		KnowsArea:            req.KnowsArea,
		Reason:               req.Reason,
		MoveDate:             req.MoveDate,
		Duration:             req.Duration,
		IncomeSource:         req.IncomeSource,
		MeetsRatio:           req.MeetsRatio,
		BureauStatus:         req.BureauStatus,
		IsBureauSevere:       req.IsBureauSevere,
		MortgageStatus:       req.MortgageStatus,
		PaymentMethod:        req.PaymentMethod,
		AppointmentDate:      req.AppointmentDate,
		AppointmentTime:      req.AppointmentTime,
		AcceptedRequirements: req.AcceptedRequirements,
		ApplicationType:      req.ApplicationType,
		Status:               models.SolicitudPendiente,
	}
	if s.ApplicationType == "" {
		s.ApplicationType = "rent"
	}
	db := h.DB.WithContext(r.Context())
	if err := h.Repository.Crear(db, &s); err != nil {
		h.fallo(w, err, "registrar la solicitud")
		return
	}
	tipo := "renta"
	if s.EsVenta() {
		tipo = "compra"
	}
	notificacion.Notificar(db, nil, notificacion.TipoCita, "Nueva solicitud de "+tipo,
		fmt.Sprintf("%s solicitó visita para %s.", s.FullName, s.PropertyRef))
	utils.JSON(w, http.StatusCreated, s)
}

// PATCH /solicitudes/{id}/estado (aprobar / rechazar)
func (h *Handler) ActualizarEstado(w http.ResponseWriter, r *http.Request) {
	var req estadoRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	err := h.Repository.ActualizarCampos(h.DB.WithContext(r.Context()), mux.Vars(r)["id"],
		map[string]any{"status": req.Status})
	if err != nil {
		h.fallo(w, err, "actualizar la solicitud")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PATCH /solicitudes/{id}/asignar
func (h *Handler) Asignar(w http.ResponseWriter, r *http.Request) {
	var req asignarRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	err := h.Repository.ActualizarCampos(h.DB.WithContext(r.Context()), mux.Vars(r)["id"],
		map[string]any{"assigned_to": req.AsesorID})
	if err != nil {
		h.fallo(w, err, "asignar la solicitud")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /solicitudes/{id}/feedback
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	soloDe := ""
	if id, rol := auth.Usuario(r.Context()); rol == auth.RolAsesor {
		soloDe = id
	}
	if err := cita.GuardarFeedback(h.DB.WithContext(r.Context()), mux.Vars(r)["id"], req.Feedback, true, soloDe); err != nil {
		h.fallo(w, err, "guardar el feedback")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /solicitudes/{id}/investigacion
func (h *Handler) Veredicto(w http.ResponseWriter, r *http.Request) {
	var req veredictoRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	s, err := Veredicto(h.DB.WithContext(r.Context()), mux.Vars(r)["id"], req.Aprobada, req.Score, req.Notas, h.Ahora())
	if err != nil {
		h.fallo(w, err, "guardar dictamen")
		return
	}
	utils.JSON(w, http.StatusOK, s)
}

// DELETE /solicitudes/{id}
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	if err := h.Repository.Eliminar(h.DB.WithContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.fallo(w, err, "eliminar la solicitud")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package confirmacion

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/monitoreo"
	"github.com/magno-inmobiliaria/api-admin/internal/propiedad"
	"github.com/magno-inmobiliaria/api-admin/internal/prospecto"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/gorm"
)

type Handler struct {
	Despachador *Despachador
	Pendientes  *Pendientes
}

func NewHandler(d *Despachador) *Handler {
	return &Handler{Despachador: d, Pendientes: NewPendientes()}
}

type proponerRequest struct {
	Tipo  string          `json:"tipo" validate:"required"`
	Datos json.RawMessage `json:"datos"`
}

// POST /confirmaciones
func (h *Handler) Proponer(w http.ResponseWriter, r *http.Request) {
	var req proponerRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	yo, rol := auth.Usuario(r.Context())
	pe, err := h.Despachador.Preparar(r.Context(), req.Tipo, rol, req.Datos)
	var ve validator.ValidationErrors
	switch {
	case err == nil:
	case errors.Is(err, ErrTipoDesconocido):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, ErrSinPermiso):
		http.Error(w, "acceso denegado", http.StatusForbidden)
		return
	case errors.As(err, &ve):
		utils.ErrorValidacion(w, err)
		return
	default:
		http.Error(w, "datos inválidos", http.StatusBadRequest)
		return
	}
	pe.usuario = yo
	h.Pendientes.Agregar(pe)
	utils.JSON(w, http.StatusCreated, pe)
}

// POST /confirmaciones/{id}/confirmar
// La acción sale del almacén antes de ejecutarse: una segunda confirmación
// no encuentra nada y no toca la base.
func (h *Handler) Confirmar(w http.ResponseWriter, r *http.Request) {
	yo, _ := auth.Usuario(r.Context())
	pe, ok := h.Pendientes.Tomar(mux.Vars(r)["id"], yo)
	if !ok {
		http.Error(w, "La acción ya no está pendiente", http.StatusNotFound)
		return
	}
	err := h.Despachador.Ejecutar(r.Context(), pe.accion)
	monitoreo.RegistrarConfirmacion(pe.Tipo, err)
	if err != nil {
		h.fallo(w, err, pe.Tipo)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"tipo": pe.Tipo, "status": "ok"})
}

// DELETE /confirmaciones/{id}
func (h *Handler) Cancelar(w http.ResponseWriter, r *http.Request) {
	yo, _ := auth.Usuario(r.Context())
	if _, ok := h.Pendientes.Tomar(mux.Vars(r)["id"], yo); !ok {
		http.Error(w, "La acción ya no está pendiente", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fallo(w http.ResponseWriter, err error, tipo string) {
	switch {
	case errors.Is(err, prospecto.ErrProspectoNoEncontrado):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Registro no encontrado", http.StatusNotFound)
	case errors.Is(err, prospecto.ErrAjeno):
		http.Error(w, "acceso denegado", http.StatusForbidden)
	case errors.Is(err, propiedad.ErrEstadoInvalido), errors.Is(err, prospecto.ErrTransicionInvalida):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("ejecutar confirmación", "error", err, "tipo", tipo)
		http.Error(w, "No se pudo completar la acción", http.StatusInternalServerError)
	}
}

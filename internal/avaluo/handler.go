package avaluo

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/notificacion"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

type avaluoRequest struct {
	FirstName    string   `json:"first_name" validate:"required"`
	LastName1    string   `json:"last_name_1" validate:"required"`
	LastName2    string   `json:"last_name_2"`
	PropertyType string   `json:"property_type" validate:"required,oneof=casa departamento"`
	Location     string   `json:"location" validate:"required"`
	ConstArea    float64  `json:"const_area" validate:"gte=0"`
	LandArea     float64  `json:"land_area" validate:"gte=0"`
	Beds         int      `json:"beds" validate:"gte=0"`
	Baths        float64  `json:"baths" validate:"gte=0"`
	Age          int      `json:"age" validate:"gte=0"`
	Furnishing   string   `json:"furnishing" validate:"omitempty,oneof=none semi full"`
	Amenities    []string `json:"amenities"`
	Services     []string `json:"services"`
}

type estadoRequest struct {
	Status string `json:"status" validate:"required,oneof=reviewed completed"`
}

// GET /avaluos?status=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	out, err := h.Repository.Listar(h.DB.WithContext(r.Context()), r.URL.Query().Get("status"))
	if err != nil {
		slog.Error("listar avalúos", "error", err)
		http.Error(w, "Error al cargar avalúos", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// POST /avaluos (formulario público)
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req avaluoRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	a := Avaluo{
		FirstName:    req.FirstName,
		LastName1:    req.LastName1,
		LastName2:    req.LastName2,
		PropertyType: req.PropertyType,
		Location:     req.Location,
		ConstArea:    req.ConstArea,
		LandArea:     req.LandArea,
		Beds:         req.Beds,
		Baths:        req.Baths,
		Age:          req.Age,
		Furnishing:   req.Furnishing,
		Amenities:    req.Amenities,
		Services:     req.Services,
		Status:       EstadoPendiente,
	}
	db := h.DB.WithContext(r.Context())
	if err := h.Repository.Crear(db, &a); err != nil {
		slog.Error("crear avalúo", "error", err)
		http.Error(w, "Error al enviar la solicitud. Por favor intente de nuevo.", http.StatusInternalServerError)
		return
	}
	notificacion.Notificar(db, nil, notificacion.TipoAvaluo, "Nueva solicitud de avalúo",
		fmt.Sprintf("%s solicitó la valuación de un(a) %s en %s.", a.Nombre(), a.PropertyType, a.Location))
	utils.JSON(w, http.StatusCreated, a)
}

// PATCH /avaluos/{id}/estado
func (h *Handler) ActualizarEstado(w http.ResponseWriter, r *http.Request) {
	var req estadoRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	id := mux.Vars(r)["id"]
	if err := h.Repository.ActualizarEstado(h.DB.WithContext(r.Context()), id, req.Status); err != nil {
		h.fallo(w, err, "actualizar")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}

// DELETE /avaluos/{id}
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	if err := h.Repository.Eliminar(h.DB.WithContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.fallo(w, err, "eliminar")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fallo(w http.ResponseWriter, err error, accion string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Avalúo no encontrado", http.StatusNotFound)
		return
	}
	slog.Error(accion+" avalúo", "error", err)
	http.Error(w, "Error al "+accion, http.StatusInternalServerError)
}

package timeline

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
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

type crearRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
}

// GET /propiedades/{id}/timeline
func (h *Handler) ListarPorPropiedad(w http.ResponseWriter, r *http.Request) {
	out, err := h.Repository.ListarPorPropiedad(h.DB.WithContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		slog.Error("listar timeline", "error", err)
		http.Error(w, "Error al cargar la línea de tiempo", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// POST /propiedades/{id}/timeline
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req crearRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	id := mux.Vars(r)["id"]
	e := Evento{PropertyID: &id, Title: req.Title, Description: req.Description, Date: req.Date, Status: req.Status}
	if e.Date == "" {
		e.Date = time.Now().Format(time.DateOnly)
	}
	if e.Status == "" {
		e.Status = EstadoCompletado
	}
	if err := h.Repository.Crear(h.DB.WithContext(r.Context()), &e); err != nil {
		slog.Error("crear evento de timeline", "error", err)
		http.Error(w, "Error al crear evento", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusCreated, e)
}

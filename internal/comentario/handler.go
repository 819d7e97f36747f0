package comentario

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
	}
}

type crearRequest struct {
	Texto string `json:"texto" validate:"required"`
}

// POST /prospectos/{id}/comentarios
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req crearRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	autor, _ := auth.Usuario(r.Context())
	if autor == "" {
		http.Error(w, "No autenticado", http.StatusUnauthorized)
		return
	}
	c := models.Comentario{
		ProspectoID: mux.Vars(r)["id"],
		AutorID:     &autor,
		Texto:       strings.TrimSpace(req.Texto),
	}
	if err := h.Repository.Crear(h.DB.WithContext(r.Context()), &c); err != nil {
		slog.Error("crear comentario", "error", err)
		http.Error(w, "Error al crear comentario", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusCreated, c)
}

// GET /prospectos/{id}/comentarios
func (h *Handler) ListarPorProspecto(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.ListarPorProspecto(h.DB.WithContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		slog.Error("listar comentarios", "error", err)
		http.Error(w, "Error al listar comentarios", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, toDTOs(list))
}

// PUT /comentarios/{id}
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	var req crearRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	err := h.Repository.Actualizar(h.DB.WithContext(r.Context()), mux.Vars(r)["id"], req.Texto)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Comentario no encontrado", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("actualizar comentario", "error", err)
		http.Error(w, "Error al actualizar comentario", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /comentarios/{id}
func (h *Handler) Remover(w http.ResponseWriter, r *http.Request) {
	err := h.Repository.Remover(h.DB.WithContext(r.Context()), mux.Vars(r)["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Comentario no encontrado", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("remover comentario", "error", err)
		http.Error(w, "Error al remover comentario", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

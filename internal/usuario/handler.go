package usuario

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
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

type actualizarRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	Phone       string `json:"phone"`
	Role        string `json:"role" validate:"omitempty,oneof=admin asesor marketing owner tenant"`
	AdvisorType string `json:"advisor_type" validate:"omitempty,oneof=cerrador opcionador"`
}

// GET /usuarios?rol=&q=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.Repository.Listar(h.DB.WithContext(r.Context()), Filtro{Rol: q.Get("rol"), Busqueda: q.Get("q")})
	if err != nil {
		slog.Error("listar usuarios", "error", err)
		http.Error(w, "Error al cargar usuarios", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// GET /usuarios/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	h.responderPerfil(w, r, mux.Vars(r)["id"])
}

// GET /usuarios/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.Usuario(r.Context())
	if id == "" {
		http.Error(w, "no autenticado", http.StatusUnauthorized)
		return
	}
	h.responderPerfil(w, r, id)
}

func (h *Handler) responderPerfil(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.Repository.BuscarPorID(h.DB.WithContext(r.Context()), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Usuario no encontrado", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("buscar usuario", "error", err)
		http.Error(w, "Error al cargar el usuario", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

// PUT /usuarios/{id}
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	var req actualizarRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	db := h.DB.WithContext(r.Context())
	p, err := h.Repository.BuscarPorID(db, mux.Vars(r)["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Usuario no encontrado", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("buscar usuario", "error", err)
		http.Error(w, "Error al actualizar el usuario", http.StatusInternalServerError)
		return
	}
	p.FullName = req.FullName
	p.Phone = req.Phone
	if req.Role != "" {
		p.Role = req.Role
	}
	if p.Role == auth.RolAsesor {
		p.AdvisorType = req.AdvisorType
	} else {
		p.AdvisorType = ""
	}
	if err := h.Repository.Salvar(db, p); err != nil {
		slog.Error("actualizar usuario", "error", err)
		http.Error(w, "Error al actualizar el usuario", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

// DELETE /usuarios/{id}?purgar=true
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	purgar := r.URL.Query().Get("purgar") == "true"
	err := h.Repository.Eliminar(h.DB.WithContext(r.Context()), mux.Vars(r)["id"], purgar)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Usuario no encontrado", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("eliminar usuario", "error", err, "purgar", purgar)
		http.Error(w, "Error al eliminar el usuario", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /clientes y PUT /clientes/{id}
func (h *Handler) GuardarCliente(w http.ResponseWriter, r *http.Request) {
	var req Cliente
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	if id := mux.Vars(r)["id"]; id != "" {
		req.ID = id
	}
	p, temporal, err := GuardarCliente(h.DB.WithContext(r.Context()), &req)
	switch {
	case errors.Is(err, ErrFaltanDatosPropiedad):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case errors.Is(err, gorm.ErrDuplicatedKey):
		http.Error(w, "el correo ya está registrado", http.StatusConflict)
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Usuario no encontrado", http.StatusNotFound)
		return
	case err != nil:
		slog.Error("guardar cliente", "error", err, "folio", req.PropertyCode)
		http.Error(w, "Error al guardar el cliente", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	resp := map[string]any{"usuario": p}
	if temporal != "" {
		status = http.StatusCreated
		resp["contrasena_temporal"] = temporal
	}
	utils.JSON(w, status, resp)
}


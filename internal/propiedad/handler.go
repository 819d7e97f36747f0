package propiedad

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
	DB            *gorm.DB
	Repository    Repository
	Sincronizador *Sincronizador
}

func NewHandler(db *gorm.DB, fuente Fuente) *Handler {
	return &Handler{
		DB:            db,
		Repository:    NewRepository(),
		Sincronizador: NewSincronizador(db, fuente),
	}
}

// GET /propiedades?status=&type=&q=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filtro{Status: q.Get("status"), Type: q.Get("type"), Busqueda: q.Get("q")}
	if id, rol := auth.Usuario(r.Context()); rol == auth.RolPropietario {
		f.OwnerID = id
	}
	out, err := h.Repository.Listar(h.DB.WithContext(r.Context()), f)
	if err != nil {
		slog.Error("listar propiedades", "error", err)
		http.Error(w, "Error al cargar propiedades", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// GET /propiedades/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repository.BuscarPorID(h.DB.WithContext(r.Context()), mux.Vars(r)["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Propiedad no encontrada", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("buscar propiedad", "error", err)
		http.Error(w, "Error al cargar la propiedad", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

// POST /propiedades
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req Datos
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	var p Propiedad
	req.aplicar(&p)
	if err := Alta(h.DB.WithContext(r.Context()), &p); err != nil {
		slog.Error("crear propiedad", "error", err, "ref", p.Ref)
		http.Error(w, "Error al guardar la propiedad", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusCreated, p)
}

// PUT /propiedades/{id}
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	var req Datos
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	p, err := Editar(h.DB.WithContext(r.Context()), mux.Vars(r)["id"], &req)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Propiedad no encontrada", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("actualizar propiedad", "error", err)
		http.Error(w, "Error al actualizar la propiedad", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

// Editar reemplaza los campos editables de la propiedad.
func Editar(db *gorm.DB, id string, req *Datos) (*Propiedad, error) {
	repo := NewRepository()
	p, err := repo.BuscarPorID(db, id)
	if err != nil {
		return nil, err
	}
	req.aplicar(p)
	if err := repo.Actualizar(db, p); err != nil {
		return nil, err
	}
	return p, nil
}

// PATCH /propiedades/{id}/estado
func (h *Handler) ActualizarEstado(w http.ResponseWriter, r *http.Request) {
	var req estadoRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	err := CambiarEstado(h.DB.WithContext(r.Context()), mux.Vars(r)["id"], req.Status, req.StatusReason)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Propiedad no encontrada", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("actualizar estado de propiedad", "error", err)
		http.Error(w, "Error al actualizar el estado", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /propiedades/{id}
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	err := h.Repository.Eliminar(h.DB.WithContext(r.Context()), mux.Vars(r)["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Propiedad no encontrada", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("eliminar propiedad", "error", err)
		http.Error(w, "Error al eliminar la propiedad", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /propiedades/sincronizar
func (h *Handler) Sincronizar(w http.ResponseWriter, r *http.Request) {
	res, err := h.Sincronizador.Sincronizar(r.Context())
	if err != nil {
		slog.Error("sincronizar con Tokko", "error", err)
		http.Error(w, "Error al sincronizar con Tokko", http.StatusBadGateway)
		return
	}
	utils.JSON(w, http.StatusOK, res)
}

// GET /propiedades-internas
func (h *Handler) ListarInternas(w http.ResponseWriter, r *http.Request) {
	out, err := h.Repository.ListarInternas(h.DB.WithContext(r.Context()))
	if err != nil {
		slog.Error("listar propiedades internas", "error", err)
		http.Error(w, "Error al cargar propiedades internas", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// POST /propiedades-internas
func (h *Handler) GuardarInterna(w http.ResponseWriter, r *http.Request) {
	var req internaRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	db := h.DB.WithContext(r.Context())
	p, err := h.Repository.BuscarInternaPorRef(db, req.Ref)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p, err = &PropiedadInterna{Ref: req.Ref, Status: EstadoRentada}, nil
	}
	if err != nil {
		slog.Error("buscar propiedad interna", "error", err)
		http.Error(w, "Error al guardar la propiedad interna", http.StatusInternalServerError)
		return
	}
	p.Title, p.Address, p.Price = req.Title, req.Address, req.Price
	if req.Status != "" {
		p.Status = req.Status
	}
	if err := h.Repository.GuardarInterna(db, p); err != nil {
		slog.Error("guardar propiedad interna", "error", err)
		http.Error(w, "Error al guardar la propiedad interna", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

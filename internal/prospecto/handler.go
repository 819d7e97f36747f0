package prospecto

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Servicio   *Servicio
}

func NewHandler(s *Servicio) *Handler {
	return &Handler{DB: s.DB, Repository: s.Repository, Servicio: s}
}

func puedeVer(r *http.Request, p *models.Prospecto) bool {
	return PuedeTrabajar(r.Context(), p)
}

func (h *Handler) errorServicio(w http.ResponseWriter, err error, accion string) {
	switch {
	case errors.Is(err, ErrProspectoNoEncontrado):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Prospecto no encontrado", http.StatusNotFound)
	case errors.Is(err, ErrTransicionInvalida):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrAjeno):
		http.Error(w, "acceso denegado", http.StatusForbidden)
	default:
		slog.Error(accion, "error", err)
		http.Error(w, "Error al "+accion, http.StatusInternalServerError)
	}
}

// GET /prospectos?status=&q=&potencial=true&revision=true
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filtro{Status: q.Get("status"), Busqueda: q.Get("q")}
	f.Potencial, _ = strconv.ParseBool(q.Get("potencial"))
	f.EnRevision, _ = strconv.ParseBool(q.Get("revision"))
	if id, rol := auth.Usuario(r.Context()); rol == auth.RolAsesor {
		f.SoloDe = id
	}
	out, err := h.Repository.Listar(h.DB.WithContext(r.Context()), f)
	if err != nil {
		slog.Error("listar prospectos", "error", err)
		http.Error(w, "Error al cargar prospectos", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// GET /prospectos/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repository.BuscarPorID(h.DB.WithContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.errorServicio(w, err, "cargar el prospecto")
		return
	}
	if !puedeVer(r, p) {
		http.Error(w, "acceso denegado", http.StatusForbidden)
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

// POST /prospectos
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req prospectoRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	var p models.Prospecto
	req.aplicar(&p)
	if id, rol := auth.Usuario(r.Context()); rol == auth.RolAsesor && p.AssignedTo == nil && p.ReferredBy == nil {
		p.ReferredBy = &id
	}
	if err := h.Servicio.Registrar(r.Context(), &p); err != nil {
		h.errorServicio(w, err, "registrar el prospecto")
		return
	}
	utils.JSON(w, http.StatusCreated, p)
}

// PUT /prospectos/{id}
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	var req prospectoRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	db := h.DB.WithContext(r.Context())
	p, err := h.Repository.BuscarPorID(db, mux.Vars(r)["id"])
	if err != nil {
		h.errorServicio(w, err, "actualizar el prospecto")
		return
	}
	if !puedeVer(r, p) {
		http.Error(w, "acceso denegado", http.StatusForbidden)
		return
	}
	req.aplicar(p)
	if !models.EstadoValido(p.Status) {
		http.Error(w, ErrTransicionInvalida.Error(), http.StatusBadRequest)
		return
	}
	sanearPropiedad(&p.PropertyID, p.ID)
	if err := h.Repository.Salvar(db, p); err != nil {
		h.errorServicio(w, err, "actualizar el prospecto")
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

// PATCH /prospectos/{id}/estado
func (h *Handler) ActualizarEstado(w http.ResponseWriter, r *http.Request) {
	var req estadoRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	p, err := h.Servicio.ActualizarEstado(r.Context(), mux.Vars(r)["id"], req.Status, req.Metadata, req.Contexto)
	if err != nil {
		h.errorServicio(w, err, "actualizar el estado")
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

// POST /prospectos/{id}/investigacion
func (h *Handler) Veredicto(w http.ResponseWriter, r *http.Request) {
	var req veredictoRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	p, err := h.Servicio.Veredicto(r.Context(), mux.Vars(r)["id"], req.Aprobada, req.Score, req.Notas)
	if err != nil {
		h.errorServicio(w, err, "guardar la investigación")
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

// POST /prospectos/{id}/comprobante (multipart, campo "archivo")
func (h *Handler) SubirComprobante(w http.ResponseWriter, r *http.Request) {
	archivo, cabecera, err := r.FormFile("archivo")
	if err != nil {
		http.Error(w, "falta el archivo", http.StatusBadRequest)
		return
	}
	defer archivo.Close()
	url, err := h.Servicio.SubirComprobante(r.Context(), mux.Vars(r)["id"], cabecera.Filename,
		cabecera.Header.Get("Content-Type"), archivo)
	if err != nil {
		h.errorServicio(w, err, "subir el comprobante")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"payment_proof_url": url})
}

// DELETE /prospectos/{id}
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	if err := h.Repository.Eliminar(h.DB.WithContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.errorServicio(w, err, "eliminar el prospecto")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package reporte

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/almacenamiento"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/notificacion"
	"github.com/magno-inmobiliaria/api-admin/internal/timeline"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/gorm"
)

// maxImagenes por reporte
const maxImagenes = 6

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Almacen    almacenamiento.Almacen
}

func NewHandler(db *gorm.DB, almacen almacenamiento.Almacen) *Handler {
	return &Handler{DB: db, Repository: NewRepository(), Almacen: almacen}
}

type reporteRequest struct {
	ReportType string `validate:"required,oneof=property person other"`
	Title      string `validate:"required,max=200"`
	PropertyID string `validate:"omitempty,uuid"`
	Interna    bool
}

type estadoRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress resolved"`
}

// ActualizarEstado cambia el estado y, si el reporte es de una propiedad
// pública, lo anota en su línea de tiempo.
func ActualizarEstado(db *gorm.DB, id, status string) (*ConDetalle, error) {
	repo := NewRepository()
	rep, err := repo.BuscarPorID(db, id)
	if err != nil {
		return nil, err
	}
	if err := repo.ActualizarEstado(db, id, status); err != nil {
		return nil, err
	}
	rep.Status = status
	if rep.PropertyID != nil {
		timeline.Registrar(db, *rep.PropertyID, tituloEstado(status),
			fmt.Sprintf("Incidencia: %q. Estado cambiado a %s.", rep.Title, status))
	}
	return rep, nil
}

// GET /reportes?status=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	out, err := h.Repository.Listar(h.DB.WithContext(r.Context()), r.URL.Query().Get("status"))
	if err != nil {
		slog.Error("listar reportes", "error", err)
		http.Error(w, "Error al cargar reportes", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// POST /reportes (multipart: report_type, title, description, property_id,
// is_internal, imagenes[])
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.Usuario(r.Context())
	if userID == "" {
		http.Error(w, "no autenticado", http.StatusUnauthorized)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "formulario inválido", http.StatusBadRequest)
		return
	}
	req := reporteRequest{
		ReportType: r.FormValue("report_type"),
		Title:      r.FormValue("title"),
		PropertyID: r.FormValue("property_id"),
		Interna:    r.FormValue("is_internal") == "true",
	}
	if err := utils.Validar(req); err != nil {
		utils.ErrorValidacion(w, err)
		return
	}
	rep := Reporte{
		UserID:      &userID,
		ReportType:  req.ReportType,
		Title:       req.Title,
		Description: r.FormValue("description"),
		Status:      EstadoPendiente,
		ImageURLs:   []string{},
	}
	if req.PropertyID != "" {
		if req.Interna {
			rep.InternalPropertyID = &req.PropertyID
		} else {
			rep.PropertyID = &req.PropertyID
		}
	}

	for i, fh := range r.MultipartForm.File["imagenes"] {
		if i == maxImagenes {
			break
		}
		url, err := h.subirImagen(r, userID, fh)
		if err != nil {
			// una imagen fallida no tumba el reporte
			slog.Warn("subir imagen de reporte", "error", err, "archivo", fh.Filename)
			continue
		}
		rep.ImageURLs = append(rep.ImageURLs, url)
	}

	db := h.DB.WithContext(r.Context())
	if err := h.Repository.Crear(db, &rep); err != nil {
		slog.Error("crear reporte", "error", err)
		http.Error(w, "Error al enviar reporte", http.StatusInternalServerError)
		return
	}
	notificacion.Notificar(db, nil, notificacion.TipoReporte, "Nuevo reporte: "+rep.Title, rep.Description)
	utils.JSON(w, http.StatusCreated, rep)
}

// PATCH /reportes/{id}/estado
func (h *Handler) ActualizarEstado(w http.ResponseWriter, r *http.Request) {
	var req estadoRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	rep, err := ActualizarEstado(h.DB.WithContext(r.Context()), mux.Vars(r)["id"], req.Status)
	if err != nil {
		h.fallo(w, err, "actualizar")
		return
	}
	utils.JSON(w, http.StatusOK, rep)
}

// DELETE /reportes/{id}
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	if err := h.Repository.Eliminar(h.DB.WithContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.fallo(w, err, "eliminar")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) subirImagen(r *http.Request, userID string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	clave := almacenamiento.NombreArchivo(almacenamiento.CarpetaReportes, userID, fh.Filename)
	return h.Almacen.Subir(r.Context(), clave, f, fh.Header.Get("Content-Type"))
}

func (h *Handler) fallo(w http.ResponseWriter, err error, accion string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Reporte no encontrado", http.StatusNotFound)
		return
	}
	slog.Error(accion+" reporte", "error", err)
	http.Error(w, "Error al "+accion, http.StatusInternalServerError)
}

package documento

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/propiedad"
	"github.com/magno-inmobiliaria/api-admin/internal/timeline"
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

type registrarRequest struct {
	PropertyID   *string `json:"property_id" validate:"omitempty,uuid"`
	SubmissionID *string `json:"submission_id" validate:"omitempty,uuid"`
	UserID       *string `json:"user_id" validate:"omitempty,uuid"`
	DocumentType string  `json:"document_type" validate:"required,oneof=recruitment keys contract report"`
	PdfURL       string  `json:"pdf_url" validate:"omitempty,url"`
	Firmado      bool    `json:"firmado"`
}

// GET /documentos
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	out, err := h.Repository.Listar(h.DB.WithContext(r.Context()))
	if err != nil {
		slog.Error("listar documentos firmados", "error", err)
		http.Error(w, "Error al cargar documentos", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// GET /propiedades/{id}/documentos
func (h *Handler) ListarPorPropiedad(w http.ResponseWriter, r *http.Request) {
	out, err := h.Repository.ListarPorPropiedad(h.DB.WithContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		slog.Error("listar documentos de propiedad", "error", err)
		http.Error(w, "Error al cargar documentos", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// POST /documentos
func (h *Handler) Registrar(w http.ResponseWriter, r *http.Request) {
	var req registrarRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	if req.PropertyID == nil && req.SubmissionID == nil {
		http.Error(w, "El documento debe ligarse a una propiedad o a un reclutamiento", http.StatusBadRequest)
		return
	}
	d := Documento{
		PropertyID:   req.PropertyID,
		SubmissionID: req.SubmissionID,
		UserID:       req.UserID,
		DocumentType: req.DocumentType,
		PdfURL:       noVacio(req.PdfURL),
		Status:       EstadoPendiente,
	}
	if req.Firmado {
		ahora := h.Ahora()
		d.Status = EstadoFirmado
		d.SignedAt = &ahora
	}
	if err := h.Repository.Crear(h.DB.WithContext(r.Context()), &d); err != nil {
		slog.Error("registrar documento", "error", err)
		http.Error(w, "Error al registrar el documento", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusCreated, d)
}

// DELETE /documentos/{id}
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	err := h.Repository.Eliminar(h.DB.WithContext(r.Context()), mux.Vars(r)["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Documento no encontrado", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("eliminar documento", "error", err)
		http.Error(w, "Error al eliminar el documento", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /propiedades/{id}/reporte.pdf
func (h *Handler) ReportePropietario(w http.ResponseWriter, r *http.Request) {
	db := h.DB.WithContext(r.Context())
	id := mux.Vars(r)["id"]
	p, err := propiedad.NewRepository().BuscarPorID(db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Propiedad no encontrada", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("buscar propiedad para reporte", "error", err)
		http.Error(w, "Error al generar el reporte", http.StatusInternalServerError)
		return
	}
	eventos, err := timeline.NewRepository().ListarPorPropiedad(db, id)
	if err != nil {
		slog.Error("timeline para reporte", "error", err)
		http.Error(w, "Error al generar el reporte", http.StatusInternalServerError)
		return
	}
	docs, err := h.Repository.ListarPorPropiedad(db, id)
	if err != nil {
		slog.Error("documentos para reporte", "error", err)
		http.Error(w, "Error al generar el reporte", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := ReportePropietario(p, eventos, docs, h.Ahora(), &buf); err != nil {
		slog.Error("generar pdf de reporte", "error", err, "property_id", id)
		http.Error(w, "Error al generar el reporte", http.StatusInternalServerError)
		return
	}
	EnviarPDF(w, "reporte-"+p.Ref+".pdf", buf.Bytes())
}

// EnviarPDF responde con el PDF como descarga.
func EnviarPDF(w http.ResponseWriter, nombre string, contenido []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+nombre+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(contenido)
}

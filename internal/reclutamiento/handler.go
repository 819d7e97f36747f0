package reclutamiento

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/documento"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/tiemporeal"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Fuente     Fuente
	Intervalo  time.Duration
	Ahora      func() time.Time
	Origenes   []string
}

func NewHandler(db *gorm.DB, fuente Fuente, intervalo time.Duration) *Handler {
	return &Handler{DB: db, Repository: NewRepository(), Fuente: fuente, Intervalo: intervalo, Ahora: time.Now}
}

type estadoRequest struct {
	Status   string `json:"status" validate:"required"`
	Motivo   string `json:"rejection_reason"`
	Feedback string `json:"feedback"`
}

func (h *Handler) fallo(w http.ResponseWriter, err error, accion string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Solicitud de reclutamiento no encontrada", http.StatusNotFound)
	case errors.Is(err, ErrEstadoInvalido):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error(accion, "error", err)
		http.Error(w, "Error al "+accion, http.StatusInternalServerError)
	}
}

func (h *Handler) filtro(r *http.Request) Filtro {
	f := Filtro{Status: r.URL.Query().Get("status")}
	if id, rol := auth.Usuario(r.Context()); rol == auth.RolAsesor {
		f.ReferidoPor = id
	}
	return f
}

// GET /reclutamientos?status=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	out, err := h.Repository.Listar(h.DB.WithContext(r.Context()), h.filtro(r))
	if err != nil {
		h.fallo(w, err, "cargar reclutamientos")
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// GET /reclutamientos/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Repository.BuscarPorID(h.DB.WithContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.fallo(w, err, "cargar la solicitud")
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

// PATCH /reclutamientos/{id}/estado
func (h *Handler) ActualizarEstado(w http.ResponseWriter, r *http.Request) {
	var req estadoRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	rec, err := ActualizarEstado(h.DB.WithContext(r.Context()), mux.Vars(r)["id"], req.Status, req.Motivo, req.Feedback, h.Ahora())
	if err != nil {
		h.fallo(w, err, "actualizar reclutamiento")
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

// PUT /reclutamientos/{id}/formulario
// El cuerpo es el form_data completo.
func (h *Handler) ActualizarFormulario(w http.ResponseWriter, r *http.Request) {
	var fd map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fd); err != nil || fd == nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	raw, _ := json.Marshal(fd)
	if err := h.Repository.ActualizarFormulario(h.DB.WithContext(r.Context()), mux.Vars(r)["id"], datatypes.JSON(raw)); err != nil {
		h.fallo(w, err, "actualizar datos")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /reclutamientos/{id}
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	if err := h.Repository.Eliminar(h.DB.WithContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.fallo(w, err, "eliminar la solicitud")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /reclutamientos/{id}/ficha.pdf
func (h *Handler) FichaPDF(w http.ResponseWriter, r *http.Request) {
	h.pdf(w, r, "ficha", documento.FichaReclutamiento)
}

// GET /reclutamientos/{id}/llaves.pdf
func (h *Handler) LlavesPDF(w http.ResponseWriter, r *http.Request) {
	h.pdf(w, r, "recibo-llaves", documento.ReciboLlaves)
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request, nombre string,
	generar func(*models.Reclutamiento, time.Time, io.Writer) error) {
	rec, err := h.Repository.BuscarPorID(h.DB.WithContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.fallo(w, err, "generar el documento")
		return
	}
	var buf bytes.Buffer
	if err := generar(rec, h.Ahora(), &buf); err != nil {
		h.fallo(w, err, "generar el documento")
		return
	}
	documento.EnviarPDF(w, nombre+"-"+rec.ID[:8]+".pdf", buf.Bytes())
}

// GET /ws/reclutamientos
// Mientras el panel está abierto le envía el listado cada vez que cambia.
func (h *Handler) Panel(w http.ResponseWriter, r *http.Request) {
	f := h.filtro(r)
	conn, err := tiemporeal.Upgrader(h.Origenes).Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("upgrade websocket de reclutamientos", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	v := &Vigilante{
		Fuente:    h.Fuente,
		Intervalo: h.Intervalo,
		Refrescar: func(ctx context.Context) error {
			lista, err := h.Repository.Listar(h.DB.WithContext(ctx), f)
			if err != nil {
				return err
			}
			return conn.WriteJSON(lista)
		},
	}
	v.Ejecutar(ctx)
}

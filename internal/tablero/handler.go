package tablero

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/prospecto"
	"github.com/magno-inmobiliaria/api-admin/internal/reclutamiento"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/gorm"
)

type Handler struct {
	DB    *gorm.DB
	Zona  *time.Location
	Ahora func() time.Time
}

func NewHandler(db *gorm.DB, zona *time.Location) *Handler {
	return &Handler{DB: db, Zona: zona, Ahora: time.Now}
}

func (h *Handler) ahora() time.Time {
	return h.Ahora().In(h.Zona)
}

func visor(r *http.Request) Visor {
	id, rol := auth.Usuario(r.Context())
	return Visor{ID: id, Rol: rol}
}

// GET /tablero/citas?pestana=agenda|historial&status=&desde=&hasta=
func (h *Handler) Citas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := FiltroCitas{Pestana: q.Get("pestana"), Status: q.Get("status")}
	for _, p := range []struct {
		clave   string
		destino **time.Time
	}{{"desde", &f.Desde}, {"hasta", &f.Hasta}} {
		s := q.Get(p.clave)
		if s == "" {
			continue
		}
		t, err := time.ParseInLocation(time.DateOnly, s, h.Zona)
		if err != nil {
			http.Error(w, "fecha inválida: "+p.clave, http.StatusBadRequest)
			return
		}
		*p.destino = &t
	}
	out, err := CargarCitas(h.DB.WithContext(r.Context()), visor(r), f, h.ahora())
	if err != nil {
		slog.Error("cargar agenda", "error", err)
		http.Error(w, "Error al cargar citas", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// GET /tablero/potenciales
func (h *Handler) Potenciales(w http.ResponseWriter, r *http.Request) {
	_, out, err := CargarPotenciales(h.DB.WithContext(r.Context()), visor(r))
	if err != nil {
		slog.Error("cargar potenciales", "error", err)
		http.Error(w, "Error al cargar clientes potenciales", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// GET /tablero/embudo
func (h *Handler) Embudo(w http.ResponseWriter, r *http.Request) {
	prospectos, potenciales, err := CargarPotenciales(h.DB.WithContext(r.Context()), visor(r))
	if err != nil {
		slog.Error("calcular embudo", "error", err)
		http.Error(w, "Error al calcular el embudo", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, CalcularEmbudo(prospectos, potenciales))
}

// GET /tablero/embudo.html
func (h *Handler) EmbudoGrafica(w http.ResponseWriter, r *http.Request) {
	prospectos, potenciales, err := CargarPotenciales(h.DB.WithContext(r.Context()), visor(r))
	if err != nil {
		slog.Error("calcular embudo", "error", err)
		http.Error(w, "Error al calcular el embudo", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := CalcularEmbudo(prospectos, potenciales).Grafica("Embudo de prospectos", &buf); err != nil {
		slog.Error("graficar embudo", "error", err)
		http.Error(w, "Error al generar la gráfica", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// GET /prospectos/{id}/reclutamiento
func (h *Handler) ReclutamientoDeProspecto(w http.ResponseWriter, r *http.Request) {
	db := h.DB.WithContext(r.Context())
	p, err := prospecto.NewRepository().BuscarPorID(db, mux.Vars(r)["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, prospecto.ErrProspectoNoEncontrado.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("buscar prospecto", "error", err)
		http.Error(w, "Error al cargar el prospecto", http.StatusInternalServerError)
		return
	}
	recs, err := reclutamiento.NewRepository().Listar(db, reclutamiento.Filtro{})
	if err != nil {
		slog.Error("listar reclutamientos", "error", err)
		http.Error(w, "Error al cargar reclutamientos", http.StatusInternalServerError)
		return
	}
	rec := ReclutamientoVinculado(p, recs)
	if rec == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

// GET /asesores/{id}/resumen
func (h *Handler) Resumen(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if yo, rol := auth.Usuario(r.Context()); rol == auth.RolAsesor && yo != id {
		http.Error(w, "acceso denegado", http.StatusForbidden)
		return
	}
	out, err := ResumenAsesor(h.DB.WithContext(r.Context()), id, h.ahora())
	if err != nil {
		slog.Error("resumen de asesor", "error", err, "asesor", id)
		http.Error(w, "Error al cargar el desempeño", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

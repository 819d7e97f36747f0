package tokko

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
)

type Handler struct {
	Client *Client
}

func NewHandler(c *Client) *Handler {
	return &Handler{Client: c}
}

type leadDTO struct {
	Contacto
	Estado string `json:"estado"`
}

// GET /tokko/leads?max=100
func (h *Handler) ListarLeads(w http.ResponseWriter, r *http.Request) {
	max, err := strconv.Atoi(r.URL.Query().Get("max"))
	if err != nil || max <= 0 {
		max = 100
	}
	contactos, err := h.Client.Contactos(r.Context(), max)
	if err != nil {
		slog.Error("leads de tokko", "error", err)
		http.Error(w, "Error al consultar leads en Tokko", http.StatusBadGateway)
		return
	}
	out := make([]leadDTO, 0, len(contactos))
	for _, c := range contactos {
		out = append(out, leadDTO{Contacto: c, Estado: EstadoLead(c.Tags)})
	}
	utils.JSON(w, http.StatusOK, out)
}

// GET /tokko/contactos/{id}
func (h *Handler) BuscarContacto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	c, err := h.Client.Contacto(r.Context(), id)
	if err != nil {
		slog.Error("contacto de tokko", "error", err, "id", id)
		http.Error(w, "Error al consultar contacto en Tokko", http.StatusBadGateway)
		return
	}
	utils.JSON(w, http.StatusOK, leadDTO{Contacto: *c, Estado: EstadoLead(c.Tags)})
}

// GET /tokko/propiedades?limite=50
func (h *Handler) ListarPropiedades(w http.ResponseWriter, r *http.Request) {
	limite, err := strconv.Atoi(r.URL.Query().Get("limite"))
	if err != nil || limite <= 0 {
		limite = 50
	}
	props, err := h.Client.Propiedades(r.Context(), limite)
	if err != nil {
		slog.Error("propiedades de tokko", "error", err)
		http.Error(w, "Error al consultar propiedades en Tokko", http.StatusBadGateway)
		return
	}
	utils.JSON(w, http.StatusOK, props)
}

package comision

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/gorm"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

type parcelaRequest struct {
	Valor            float64 `json:"valor" validate:"gt=0"`
	FechaVencimiento string  `json:"fecha_vencimiento" validate:"required,datetime=2006-01-02"`
}

type estadoRequest struct {
	Status string `json:"status" validate:"required"`
}

// GET /comisiones?asesor=
// Un asesor solo ve las suyas.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	asesor := r.URL.Query().Get("asesor")
	if id, rol := auth.Usuario(r.Context()); rol == auth.RolAsesor {
		asesor = id
	}
	out, err := h.Repo.WithDB(h.Repo.DB.WithContext(r.Context())).List(asesor)
	if err != nil {
		slog.Error("listar comisiones", "error", err)
		http.Error(w, "Error al cargar comisiones", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// GET /comisiones/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	c, err := h.Repo.WithDB(h.Repo.DB.WithContext(r.Context())).FindByID(mux.Vars(r)["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Comisión no encontrada", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("buscar comisión", "error", err)
		http.Error(w, "Error al cargar la comisión", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

// POST /comisiones/{id}/parcelas
func (h *Handler) CrearParcela(w http.ResponseWriter, r *http.Request) {
	var req parcelaRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	venc, _ := time.Parse(time.DateOnly, req.FechaVencimiento)
	id := mux.Vars(r)["id"]
	p := Parcela{Valor: req.Valor, FechaVencimiento: venc}

	err := h.Repo.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		repo := h.Repo.WithDB(tx)
		if _, err := repo.FindByID(id); err != nil {
			return err
		}
		if err := repo.CreateParcela(id, &p); err != nil {
			return err
		}
		return repo.Recalcular(id)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Comisión no encontrada", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("crear parcela", "error", err)
		http.Error(w, "Error al crear la parcela", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusCreated, p)
}

// PATCH /parcelas/{pid}/estado
func (h *Handler) CambiarEstado(w http.ResponseWriter, r *http.Request) {
	var req estadoRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	p, err := CambiarEstadoParcela(h.Repo.DB.WithContext(r.Context()), mux.Vars(r)["pid"], req.Status, time.Now())
	switch {
	case errors.Is(err, ErrEstadoInvalido):
		http.Error(w, "Estado inválido. Usa 'Pendiente', 'Factura Enviada', 'Pago' o 'Cancelada'.", http.StatusBadRequest)
	case errors.Is(err, ErrParcelaPagada):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Parcela no encontrada", http.StatusNotFound)
	case err != nil:
		slog.Error("cambiar estado de parcela", "error", err)
		http.Error(w, "Error al actualizar la parcela", http.StatusInternalServerError)
	default:
		utils.JSON(w, http.StatusOK, p)
	}
}

// DELETE /parcelas/{pid}
func (h *Handler) EliminarParcela(w http.ResponseWriter, r *http.Request) {
	pid := mux.Vars(r)["pid"]
	err := h.Repo.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		repo := h.Repo.WithDB(tx)
		p, err := repo.FindParcela(pid)
		if err != nil {
			return err
		}
		if err := repo.DeleteParcela(pid); err != nil {
			return err
		}
		return repo.Recalcular(p.ComisionID)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Parcela no encontrada", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("eliminar parcela", "error", err)
		http.Error(w, "Error al eliminar la parcela", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

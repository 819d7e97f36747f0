package comprobante

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/almacenamiento"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/notificacion"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Almacen    almacenamiento.Almacen
}

func NewHandler(db *gorm.DB, almacen almacenamiento.Almacen) *Handler {
	return &Handler{DB: db, Repository: NewRepository(), Almacen: almacen}
}

type subidaRequest struct {
	Mes string `validate:"required,datetime=2006-01"`
}

type rechazoRequest struct {
	Motivo string `json:"rejection_reason"`
}

func (h *Handler) fallo(w http.ResponseWriter, err error, accion string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Comprobante no encontrado", http.StatusNotFound)
	case errors.Is(err, ErrYaAprobado):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		slog.Error(accion, "error", err)
		http.Error(w, "Error al "+accion, http.StatusInternalServerError)
	}
}

// GET /comprobantes
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	out, err := h.Repository.Listar(h.DB.WithContext(r.Context()))
	if err != nil {
		h.fallo(w, err, "cargar comprobantes")
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// POST /comprobantes/{id}/aprobar
func (h *Handler) Aprobar(w http.ResponseWriter, r *http.Request) {
	c, err := Aprobar(h.DB.WithContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.fallo(w, err, "actualizar")
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

// POST /comprobantes/{id}/rechazar
func (h *Handler) Rechazar(w http.ResponseWriter, r *http.Request) {
	var req rechazoRequest
	if r.ContentLength > 0 && !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	if err := Rechazar(h.DB.WithContext(r.Context()), mux.Vars(r)["id"], req.Motivo); err != nil {
		h.fallo(w, err, "actualizar")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /comprobantes/{id}
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	if err := h.Repository.Eliminar(h.DB.WithContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.fallo(w, err, "eliminar el comprobante")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /comprobantes (multipart: archivo, month_year, amount, payment_type)
// Lo sube el inquilino; se liga a la propiedad de su perfil.
func (h *Handler) Subir(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.Usuario(r.Context())
	if userID == "" {
		http.Error(w, "no autenticado", http.StatusUnauthorized)
		return
	}
	mes := r.FormValue("month_year")
	if err := utils.Validar(subidaRequest{Mes: mes}); err != nil {
		utils.ErrorValidacion(w, err)
		return
	}
	monto, err := strconv.ParseFloat(r.FormValue("amount"), 64)
	if err != nil || monto <= 0 {
		http.Error(w, "monto inválido", http.StatusBadRequest)
		return
	}
	archivo, cabecera, err := r.FormFile("archivo")
	if err != nil {
		http.Error(w, "falta el archivo", http.StatusBadRequest)
		return
	}
	defer archivo.Close()

	db := h.DB.WithContext(r.Context())
	var perfil models.Perfil
	if err := db.First(&perfil, "id = ?", userID).Error; err != nil {
		h.fallo(w, err, "subir el comprobante")
		return
	}
	clave := almacenamiento.NombreArchivo(almacenamiento.CarpetaComprobantes, userID, cabecera.Filename)
	url, err := h.Almacen.Subir(r.Context(), clave, archivo, cabecera.Header.Get("Content-Type"))
	if err != nil {
		h.fallo(w, err, "subir el comprobante")
		return
	}
	c := Comprobante{
		UserID:      &userID,
		PropertyID:  perfil.PropertyID,
		MonthYear:   mes,
		Amount:      monto,
		ProofURL:    url,
		Status:      EstadoPendiente,
		PaymentType: r.FormValue("payment_type"),
	}
	if err := h.Repository.Crear(db, &c); err != nil {
		h.fallo(w, err, "registrar el comprobante")
		return
	}
	notificacion.Notificar(db, nil, notificacion.TipoPago, "Nuevo comprobante de pago",
		fmt.Sprintf("%s subió su pago de %s por %s.", perfil.FullName, mes, utils.Moneda(monto)))
	utils.JSON(w, http.StatusCreated, c)
}

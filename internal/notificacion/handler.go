package notificacion

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

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

type crearRequest struct {
	UserID  *string `json:"user_id" validate:"omitempty,uuid"`
	Type    string  `json:"type" validate:"required"`
	Title   string  `json:"title" validate:"required"`
	Message string  `json:"message"`
	Link    string  `json:"link"`
}

// Notificar crea una notificación; los demás paquetes lo usan como efecto
// secundario y solo registran el error.
func Notificar(db *gorm.DB, userID *string, tipo, titulo, mensaje string) {
	n := Notificacion{UserID: userID, Type: tipo, Title: titulo, Message: mensaje}
	if err := NewRepository().Crear(db, &n); err != nil {
		slog.Error("crear notificación", "error", err, "titulo", titulo)
	}
}

// AvisarVeredicto avisa al responsable del candidato el resultado de su
// investigación.
func AvisarVeredicto(db *gorm.DB, userID, candidato string, aprobada bool, score *int) {
	if userID == "" {
		return
	}
	titulo, tipo, verbo := "Investigación Aprobada", TipoExito, "aprobado"
	if !aprobada {
		titulo, tipo, verbo = "Investigación Rechazada", TipoInvestigacion, "rechazado"
	}
	puntos := "sin score"
	if score != nil {
		puntos = fmt.Sprintf("un score de %d", *score)
	}
	Notificar(db, &userID, tipo, titulo, fmt.Sprintf("El candidato %s ha sido %s con %s.", candidato, verbo, puntos))
}

// GET /notificaciones?limite=50
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	id, rol := auth.Usuario(r.Context())
	limite, _ := strconv.Atoi(r.URL.Query().Get("limite"))
	if limite <= 0 {
		limite = 50
	}
	out, err := h.Repository.ListarPara(h.DB.WithContext(r.Context()), id, rol == auth.RolAdmin, limite)
	if err != nil {
		slog.Error("listar notificaciones", "error", err)
		http.Error(w, "Error al cargar notificaciones", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// POST /notificaciones
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req crearRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	n := Notificacion{UserID: req.UserID, Type: req.Type, Title: req.Title, Message: req.Message, Link: req.Link}
	if err := h.Repository.Crear(h.DB.WithContext(r.Context()), &n); err != nil {
		slog.Error("crear notificación", "error", err)
		http.Error(w, "Error al crear notificación", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusCreated, n)
}

// PATCH /notificaciones/{id}/leida
func (h *Handler) MarcarLeida(w http.ResponseWriter, r *http.Request) {
	err := h.Repository.MarcarLeida(h.DB.WithContext(r.Context()), mux.Vars(r)["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "notificación no encontrada", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("marcar notificación", "error", err)
		http.Error(w, "Error al marcar notificación", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PATCH /notificaciones/leidas
func (h *Handler) MarcarTodas(w http.ResponseWriter, r *http.Request) {
	id, rol := auth.Usuario(r.Context())
	n, err := h.Repository.MarcarTodasLeidas(h.DB.WithContext(r.Context()), id, rol == auth.RolAdmin)
	if err != nil {
		slog.Error("marcar todas las notificaciones", "error", err)
		http.Error(w, "Error al marcar notificaciones", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int64{"actualizadas": n})
}

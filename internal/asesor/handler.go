package asesor

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/almacenamiento"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Almacen    almacenamiento.Almacen
}

func NewHandler(db *gorm.DB, a almacenamiento.Almacen) *Handler {
	return &Handler{DB: db, Repository: NewRepository(), Almacen: a}
}

type perfilRequest struct {
	Bio         string `json:"bio"`
	AdvisorType string `json:"advisor_type" validate:"omitempty,oneof=cerrador opcionador"`
	WeeklyGoal  int    `json:"weekly_goal" validate:"gte=0"`
}

// objetivo resuelve el {id} de la ruta; un asesor solo puede tocar su propia ficha.
func objetivo(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	yo, rol := auth.Usuario(r.Context())
	if rol == auth.RolAsesor && id != yo {
		http.Error(w, "acceso denegado", http.StatusForbidden)
		return "", false
	}
	return id, true
}

// GET /asesores/{id}/perfil
func (h *Handler) Perfil(w http.ResponseWriter, r *http.Request) {
	id, ok := objetivo(w, r)
	if !ok {
		return
	}
	p, err := h.Repository.Buscar(h.DB.WithContext(r.Context()), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.JSON(w, http.StatusOK, Perfil{UserID: id, WeeklyGoal: MetaSemanalDefault})
		return
	}
	if err != nil {
		slog.Error("buscar perfil de asesor", "error", err)
		http.Error(w, "Error al cargar el perfil", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

// PUT /asesores/{id}/perfil
func (h *Handler) GuardarPerfil(w http.ResponseWriter, r *http.Request) {
	id, ok := objetivo(w, r)
	if !ok {
		return
	}
	var req perfilRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	p := Perfil{UserID: id, Bio: req.Bio, AdvisorType: req.AdvisorType, WeeklyGoal: req.WeeklyGoal}
	if err := h.Repository.Guardar(h.DB.WithContext(r.Context()), &p); err != nil {
		slog.Error("guardar perfil de asesor", "error", err)
		http.Error(w, "Error al guardar: "+err.Error(), http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

// POST /asesores/{id}/foto (multipart, campo "foto")
func (h *Handler) SubirFoto(w http.ResponseWriter, r *http.Request) {
	id, ok := objetivo(w, r)
	if !ok {
		return
	}
	archivo, cabecera, err := r.FormFile("foto")
	if err != nil {
		http.Error(w, "falta el archivo", http.StatusBadRequest)
		return
	}
	defer archivo.Close()

	webpData, err := ProcesarFoto(archivo)
	if errors.Is(err, ErrFotoInvalida) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error("procesar foto de asesor", "error", err, "archivo", cabecera.Filename)
		http.Error(w, "Error al procesar la imagen", http.StatusInternalServerError)
		return
	}

	clave := almacenamiento.NombreArchivo(almacenamiento.CarpetaFotosAsesor, id, "foto.webp")
	url, err := h.Almacen.Subir(r.Context(), clave, bytes.NewReader(webpData), "image/webp")
	if err != nil {
		slog.Error("subir foto de asesor", "error", err)
		http.Error(w, "Error al subir la imagen", http.StatusBadGateway)
		return
	}
	if err := h.Repository.ActualizarFoto(h.DB.WithContext(r.Context()), id, url); err != nil {
		slog.Error("guardar foto de asesor", "error", err)
		http.Error(w, "Error al guardar la imagen", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"photo_url": url})
}

// GET /asesores/{id}/actividad
func (h *Handler) Actividad(w http.ResponseWriter, r *http.Request) {
	id, ok := objetivo(w, r)
	if !ok {
		return
	}
	out, err := h.Repository.Actividades(h.DB.WithContext(r.Context()), id)
	if err != nil {
		slog.Error("listar actividad de asesor", "error", err)
		http.Error(w, "Error al cargar la actividad", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/gorm"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registroRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"omitempty,min=8"`
	FullName    string `json:"full_name" validate:"required"`
	Phone       string `json:"phone"`
	Role        string `json:"role" validate:"required"`
	AdvisorType string `json:"advisor_type" validate:"omitempty,oneof=cerrador opcionador"`
}

type reverificarRequest struct {
	Password string `json:"password" validate:"required"`
}

// Login valida correo y contraseña y emite los tokens.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}

	var p models.Perfil
	if err := h.DB.WithContext(r.Context()).Where("email = ?", utils.NormalizarCorreo(req.Email)).First(&p).Error; err != nil {
		http.Error(w, "credenciales inválidas", http.StatusUnauthorized)
		return
	}
	if !utils.VerificarContrasena(p.PasswordHash, req.Password) {
		http.Error(w, "credenciales inválidas", http.StatusUnauthorized)
		return
	}

	access, err := IssueTokensOnLogin(h.DB.WithContext(r.Context()), w, p.ID, p.Role)
	if err != nil {
		slog.Error("emitir tokens", "error", err, "user_id", p.ID)
		http.Error(w, "error al iniciar sesión", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"token":   nuevoTokenResponse(access),
		"usuario": p,
		"vistas":  Vistas[p.Role],
	})
}

// Registro da de alta un perfil. Sin sesión solo se permiten propietarios e
// inquilinos; el personal interno lo crea un admin. Si el admin no manda
// contraseña se genera una temporal y se devuelve una sola vez.
func (h *Handler) Registro(w http.ResponseWriter, r *http.Request) {
	var req registroRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	if !RolValido(req.Role) {
		http.Error(w, "rol inválido", http.StatusBadRequest)
		return
	}

	interno := req.Role == RolAdmin || req.Role == RolAsesor || req.Role == RolMarketing
	if interno && !EsAdmin(r.Context()) {
		http.Error(w, "solo un admin puede crear personal", http.StatusForbidden)
		return
	}

	password := req.Password
	var temporal string
	if password == "" {
		if !interno {
			http.Error(w, "contraseña requerida", http.StatusBadRequest)
			return
		}
		var err error
		if temporal, err = utils.GenerarContrasenaTemporal(); err != nil {
			http.Error(w, "error al generar contraseña", http.StatusInternalServerError)
			return
		}
		password = temporal
	}

	hash, err := utils.HashContrasena(password)
	if err != nil {
		http.Error(w, "error al procesar contraseña", http.StatusInternalServerError)
		return
	}

	p := models.Perfil{
		Email:        utils.NormalizarCorreo(req.Email),
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         req.Role,
		AdvisorType:  req.AdvisorType,
		PasswordHash: hash,
	}
	if err := h.DB.WithContext(r.Context()).Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			http.Error(w, "el correo ya está registrado", http.StatusConflict)
			return
		}
		slog.Error("crear perfil", "error", err, "email", p.Email)
		http.Error(w, "error al registrar usuario", http.StatusInternalServerError)
		return
	}

	resp := map[string]any{"usuario": p}
	if temporal != "" {
		resp["contrasena_temporal"] = temporal
	}
	utils.JSON(w, http.StatusCreated, resp)
}

// Reverificar confirma la contraseña del usuario actual antes de una acción destructiva.
func (h *Handler) Reverificar(w http.ResponseWriter, r *http.Request) {
	var req reverificarRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	id, _ := Usuario(r.Context())

	var p models.Perfil
	if err := h.DB.WithContext(r.Context()).First(&p, "id = ?", id).Error; err != nil {
		http.Error(w, "usuario no encontrado", http.StatusNotFound)
		return
	}
	if !utils.VerificarContrasena(p.PasswordHash, req.Password) {
		http.Error(w, "contraseña incorrecta", http.StatusUnauthorized)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

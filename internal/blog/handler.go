package blog

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrSinSlug = errors.New("el título no genera un slug válido")

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

type postRequest struct {
	Title     string         `json:"title" validate:"required,max=200"`
	Slug      string         `json:"slug" validate:"omitempty,max=200"`
	Excerpt   string         `json:"excerpt"`
	MainImage string         `json:"main_image" validate:"omitempty,url"`
	Content   datatypes.JSON `json:"content"`
	Status    string         `json:"status" validate:"omitempty,oneof=draft published"`
	Category  string         `json:"category"`
}

func (req *postRequest) aplicar(p *Post) {
	p.Title = req.Title
	p.Slug = req.Slug
	p.Excerpt = req.Excerpt
	p.MainImage = req.MainImage
	p.Content = req.Content
	p.Category = req.Category
	if req.Status != "" {
		p.Status = req.Status
	}
	if len(p.Content) == 0 {
		p.Content = datatypes.JSON("[]")
	}
}

// Guardar completa el slug desde el título cuando falta y lo vuelve único
// agregando un sufijo numérico.
func Guardar(db *gorm.DB, p *Post) error {
	repo := NewRepository()
	base := utils.Slug(p.Slug)
	if base == "" {
		base = utils.Slug(p.Title)
	}
	if base == "" {
		return ErrSinSlug
	}
	slug := base
	for i := 2; ; i++ {
		ocupado, err := repo.SlugOcupado(db, slug, p.ID)
		if err != nil {
			return err
		}
		if !ocupado {
			break
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	p.Slug = slug
	if p.Status == "" {
		p.Status = EstadoBorrador
	}
	return repo.Salvar(db, p)
}

// GET /blog?status=&q=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.Repository.Listar(h.DB.WithContext(r.Context()), Filtro{Status: q.Get("status"), Buscar: q.Get("q")})
	if err != nil {
		slog.Error("listar blog", "error", err)
		http.Error(w, "Error al cargar el blog", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// GET /publico/blog
func (h *Handler) Publicados(w http.ResponseWriter, r *http.Request) {
	out, err := h.Repository.Listar(h.DB.WithContext(r.Context()), Filtro{Status: EstadoPublicado})
	if err != nil {
		slog.Error("listar blog publicado", "error", err)
		http.Error(w, "Error al cargar el blog", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}

// GET /publico/blog/{slug}
func (h *Handler) BuscarPorSlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repository.BuscarPorSlug(h.DB.WithContext(r.Context()), mux.Vars(r)["slug"])
	if err != nil || p.Status != EstadoPublicado {
		if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Nota no encontrada", http.StatusNotFound)
			return
		}
		h.fallo(w, err, "cargar la nota")
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

// POST /blog
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	var p Post
	req.aplicar(&p)
	if autor, _ := auth.Usuario(r.Context()); autor != "" {
		p.AuthorID = &autor
	}
	if err := Guardar(h.DB.WithContext(r.Context()), &p); err != nil {
		h.fallo(w, err, "guardar blog")
		return
	}
	utils.JSON(w, http.StatusCreated, p)
}

// PUT /blog/{id}
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !utils.DecodificarYValidar(w, r, &req) {
		return
	}
	db := h.DB.WithContext(r.Context())
	p, err := h.Repository.BuscarPorID(db, mux.Vars(r)["id"])
	if err != nil {
		h.fallo(w, err, "guardar blog")
		return
	}
	req.aplicar(p)
	if autor, _ := auth.Usuario(r.Context()); autor != "" {
		p.AuthorID = &autor
	}
	if err := Guardar(db, p); err != nil {
		h.fallo(w, err, "guardar blog")
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

// DELETE /blog/{id}
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	if err := h.Repository.Eliminar(h.DB.WithContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.fallo(w, err, "eliminar")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fallo(w http.ResponseWriter, err error, accion string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Nota no encontrada", http.StatusNotFound)
	case errors.Is(err, ErrSinSlug):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error(accion, "error", err)
		http.Error(w, "Error al "+accion, http.StatusInternalServerError)
	}
}

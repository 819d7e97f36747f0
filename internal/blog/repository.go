package blog

import (
	"strings"

	"gorm.io/gorm"
)

type Filtro struct {
	Status string
	Buscar string
}

type Repository interface {
	Listar(db *gorm.DB, f Filtro) ([]Post, error)
	BuscarPorID(db *gorm.DB, id string) (*Post, error)
	BuscarPorSlug(db *gorm.DB, slug string) (*Post, error)
	SlugOcupado(db *gorm.DB, slug, excepto string) (bool, error)
	Salvar(db *gorm.DB, p *Post) error
	Eliminar(db *gorm.DB, id string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Listar(db *gorm.DB, f Filtro) ([]Post, error) {
	var out []Post
	q := db.Order("created_at DESC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Buscar); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(excerpt) LIKE ? OR LOWER(category) LIKE ?", like, like, like)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*Post, error) {
	var p Post
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) BuscarPorSlug(db *gorm.DB, slug string) (*Post, error) {
	var p Post
	if err := db.First(&p, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) SlugOcupado(db *gorm.DB, slug, excepto string) (bool, error) {
	var n int64
	q := db.Model(&Post{}).Where("slug = ?", slug)
	if excepto != "" {
		q = q.Where("id <> ?", excepto)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *repositoryImpl) Salvar(db *gorm.DB, p *Post) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id string) error {
	res := db.Delete(&Post{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

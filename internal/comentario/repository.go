package comentario

import (
	"log/slog"

	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"gorm.io/gorm"
)

type Repository interface {
	Crear(db *gorm.DB, c *models.Comentario) error
	ListarPorProspecto(db *gorm.DB, prospectoID string) ([]comentarioConAutor, error)
	Remover(db *gorm.DB, id string) error
	Actualizar(db *gorm.DB, id, nuevoTexto string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, c *models.Comentario) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) ListarPorProspecto(db *gorm.DB, prospectoID string) ([]comentarioConAutor, error) {
	var out []comentarioConAutor
	err := db.Table("lead_comments AS c").
		Select("c.*, p.full_name AS autor_nombre").
		Joins("LEFT JOIN profiles p ON p.id = c.autor_id").
		Where("c.prospecto_id = ?", prospectoID).
		Order("c.created_at ASC").
		Scan(&out).Error
	return out, err
}

func (r *repositoryImpl) Remover(db *gorm.DB, id string) error {
	res := db.Delete(&models.Comentario{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, id, nuevoTexto string) error {
	res := db.Model(&models.Comentario{}).Where("id = ? AND system = ?", id, false).Update("texto", nuevoTexto)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Sistema agrega una nota automática al historial del prospecto.
func Sistema(db *gorm.DB, prospectoID, texto string) {
	c := models.Comentario{ProspectoID: prospectoID, Texto: texto, System: true}
	if err := db.Create(&c).Error; err != nil {
		slog.Error("comentario de sistema", "error", err, "lead_id", prospectoID)
	}
}

package reclutamiento

import (
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Filtro struct {
	Status      string
	ReferidoPor string
}

type Repository interface {
	Listar(db *gorm.DB, f Filtro) ([]models.Reclutamiento, error)
	BuscarPorID(db *gorm.DB, id string) (*models.Reclutamiento, error)
	ActualizarCampos(db *gorm.DB, id string, campos map[string]any) error
	ActualizarFormulario(db *gorm.DB, id string, formulario datatypes.JSON) error
	Eliminar(db *gorm.DB, id string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func conPropietario(db *gorm.DB) *gorm.DB {
	return db.Table("property_submissions AS s").
		Select("s.*, pr.full_name AS owner_name, pr.email AS owner_email").
		Joins("LEFT JOIN profiles pr ON pr.id = s.owner_id")
}

func (r *repositoryImpl) Listar(db *gorm.DB, f Filtro) ([]models.Reclutamiento, error) {
	q := conPropietario(db)
	if f.Status != "" {
		q = q.Where("s.status = ?", f.Status)
	}
	if f.ReferidoPor != "" {
		q = q.Where("s.referred_by = ?", f.ReferidoPor)
	}
	var out []models.Reclutamiento
	err := q.Order("s.created_at DESC").Scan(&out).Error
	return out, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*models.Reclutamiento, error) {
	var out []models.Reclutamiento
	if err := conPropietario(db).Where("s.id = ?", id).Limit(1).Scan(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &out[0], nil
}

func (r *repositoryImpl) ActualizarCampos(db *gorm.DB, id string, campos map[string]any) error {
	res := db.Model(&models.Reclutamiento{}).Where("id = ?", id).Updates(campos)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) ActualizarFormulario(db *gorm.DB, id string, formulario datatypes.JSON) error {
	return r.ActualizarCampos(db, id, map[string]any{"form_data": formulario})
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id string) error {
	res := db.Delete(&models.Reclutamiento{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

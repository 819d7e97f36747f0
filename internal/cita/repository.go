package cita

import (
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"gorm.io/gorm"
)

type Filtro struct {
	AsignadoA string
	Status    string
}

type Repository interface {
	Listar(db *gorm.DB, f Filtro) ([]models.Cita, error)
	BuscarPorID(db *gorm.DB, id string) (*models.Cita, error)
	Crear(db *gorm.DB, c *models.Cita) error
	ActualizarCampos(db *gorm.DB, id string, campos map[string]any) error
	Eliminar(db *gorm.DB, id string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Listar(db *gorm.DB, f Filtro) ([]models.Cita, error) {
	q := db.Model(&models.Cita{})
	if f.AsignadoA != "" {
		q = q.Where("assigned_to = ?", f.AsignadoA)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []models.Cita
	err := q.Order("start_time ASC").Find(&out).Error
	return out, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*models.Cita, error) {
	var c models.Cita
	if err := db.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) Crear(db *gorm.DB, c *models.Cita) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) ActualizarCampos(db *gorm.DB, id string, campos map[string]any) error {
	res := db.Model(&models.Cita{}).Where("id = ?", id).Updates(campos)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id string) error {
	res := db.Delete(&models.Cita{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

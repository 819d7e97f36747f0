package solicitud

import (
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"gorm.io/gorm"
)

type Filtro struct {
	Tipo      string
	Status    string
	AsignadoA string
}

type Repository interface {
	Listar(db *gorm.DB, f Filtro) ([]models.SolicitudRenta, error)
	BuscarPorID(db *gorm.DB, id string) (*models.SolicitudRenta, error)
	Crear(db *gorm.DB, s *models.SolicitudRenta) error
	Salvar(db *gorm.DB, s *models.SolicitudRenta) error
	ActualizarCampos(db *gorm.DB, id string, campos map[string]any) error
	Eliminar(db *gorm.DB, id string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Listar(db *gorm.DB, f Filtro) ([]models.SolicitudRenta, error) {
	q := db.Model(&models.SolicitudRenta{})
	if f.Tipo != "" {
		q = q.Where("application_type = ?", f.Tipo)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.AsignadoA != "" {
		q = q.Where("assigned_to = ?", f.AsignadoA)
	}
	var out []models.SolicitudRenta
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*models.SolicitudRenta, error) {
	var s models.SolicitudRenta
	if err := db.First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repositoryImpl) Crear(db *gorm.DB, s *models.SolicitudRenta) error {
	return db.Create(s).Error
}

func (r *repositoryImpl) Salvar(db *gorm.DB, s *models.SolicitudRenta) error {
	return db.Save(s).Error
}

func (r *repositoryImpl) ActualizarCampos(db *gorm.DB, id string, campos map[string]any) error {
	res := db.Model(&models.SolicitudRenta{}).Where("id = ?", id).Updates(campos)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id string) error {
	res := db.Delete(&models.SolicitudRenta{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

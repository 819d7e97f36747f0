package avaluo

import "gorm.io/gorm"

type Repository interface {
	Listar(db *gorm.DB, status string) ([]Avaluo, error)
	BuscarPorID(db *gorm.DB, id string) (*Avaluo, error)
	Crear(db *gorm.DB, a *Avaluo) error
	ActualizarEstado(db *gorm.DB, id, status string) error
	Eliminar(db *gorm.DB, id string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Listar(db *gorm.DB, status string) ([]Avaluo, error) {
	var out []Avaluo
	q := db.Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*Avaluo, error) {
	var a Avaluo
	if err := db.First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repositoryImpl) Crear(db *gorm.DB, a *Avaluo) error {
	return db.Create(a).Error
}

func (r *repositoryImpl) ActualizarEstado(db *gorm.DB, id, status string) error {
	res := db.Model(&Avaluo{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id string) error {
	res := db.Delete(&Avaluo{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package documento

import "gorm.io/gorm"

type Repository interface {
	Crear(db *gorm.DB, d *Documento) error
	Listar(db *gorm.DB) ([]ConPropiedad, error)
	ListarPorPropiedad(db *gorm.DB, propertyID string) ([]Documento, error)
	ListarPorReclutamiento(db *gorm.DB, submissionID string) ([]Documento, error)
	Eliminar(db *gorm.DB, id string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, d *Documento) error {
	return db.Create(d).Error
}

func (r *repositoryImpl) Listar(db *gorm.DB) ([]ConPropiedad, error) {
	var out []ConPropiedad
	err := db.Table("signed_documents AS d").
		Select("d.*, p.ref AS property_ref, p.title AS property_title").
		Joins("LEFT JOIN properties p ON p.id = d.property_id").
		Order("d.created_at DESC").
		Scan(&out).Error
	return out, err
}

func (r *repositoryImpl) ListarPorPropiedad(db *gorm.DB, propertyID string) ([]Documento, error) {
	var out []Documento
	err := db.Where("property_id = ?", propertyID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *repositoryImpl) ListarPorReclutamiento(db *gorm.DB, submissionID string) ([]Documento, error) {
	var out []Documento
	err := db.Where("submission_id = ?", submissionID).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id string) error {
	res := db.Delete(&Documento{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

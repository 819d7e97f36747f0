package reporte

import "gorm.io/gorm"

type Repository interface {
	Listar(db *gorm.DB, status string) ([]ConDetalle, error)
	BuscarPorID(db *gorm.DB, id string) (*ConDetalle, error)
	Crear(db *gorm.DB, r *Reporte) error
	ActualizarEstado(db *gorm.DB, id, status string) error
	Eliminar(db *gorm.DB, id string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func conDetalle(db *gorm.DB) *gorm.DB {
	return db.Table("reports AS r").
		Select("r.*, COALESCE(pr.full_name, '') AS user_name, COALESCE(pr.email, '') AS user_email, " +
			"COALESCE(p.ref, ip.ref, '') AS property_ref, COALESCE(p.title, ip.title, '') AS property_title, " +
			"COALESCE(p.address, ip.address, '') AS property_address").
		Joins("LEFT JOIN profiles pr ON pr.id = r.user_id").
		Joins("LEFT JOIN properties p ON p.id = r.property_id").
		Joins("LEFT JOIN internal_properties ip ON ip.id = r.internal_property_id")
}

func (r *repositoryImpl) Listar(db *gorm.DB, status string) ([]ConDetalle, error) {
	var out []ConDetalle
	q := conDetalle(db).Order("r.created_at DESC")
	if status != "" {
		q = q.Where("r.status = ?", status)
	}
	err := q.Scan(&out).Error
	return out, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*ConDetalle, error) {
	var out []ConDetalle
	if err := conDetalle(db).Where("r.id = ?", id).Limit(1).Scan(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &out[0], nil
}

func (r *repositoryImpl) Crear(db *gorm.DB, rep *Reporte) error {
	return db.Create(rep).Error
}

func (r *repositoryImpl) ActualizarEstado(db *gorm.DB, id, status string) error {
	res := db.Model(&Reporte{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id string) error {
	res := db.Delete(&Reporte{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

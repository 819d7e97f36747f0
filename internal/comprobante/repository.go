package comprobante

import (
	"sort"

	"gorm.io/gorm"
)

type Repository interface {
	Listar(db *gorm.DB) ([]ConDetalle, error)
	BuscarPorID(db *gorm.DB, id string) (*ConDetalle, error)
	Crear(db *gorm.DB, c *Comprobante) error
	ActualizarEstado(db *gorm.DB, id, status string) error
	Eliminar(db *gorm.DB, id string) error
	MesesAprobados(db *gorm.DB, userID string) ([]string, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func conDetalle(db *gorm.DB) *gorm.DB {
	return db.Table("payment_proofs AS c").
		Select("c.*, COALESCE(pr.full_name, 'Desconocido') AS user_name, " +
			"COALESCE(p.ref, ip.ref, 'N/A') AS property_ref").
		Joins("LEFT JOIN profiles pr ON pr.id = c.user_id").
		Joins("LEFT JOIN properties p ON p.id = c.property_id").
		Joins("LEFT JOIN internal_properties ip ON ip.id = c.internal_property_id")
}

// Listar ordena por folio de propiedad y, dentro de cada folio, del más
// reciente al más antiguo. Los pagos manuales no se listan.
func (r *repositoryImpl) Listar(db *gorm.DB) ([]ConDetalle, error) {
	var out []ConDetalle
	err := conDetalle(db).Where("c.proof_url <> ?", URLManual).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PropertyRef != out[j].PropertyRef {
			return out[i].PropertyRef < out[j].PropertyRef
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*ConDetalle, error) {
	var out []ConDetalle
	if err := conDetalle(db).Where("c.id = ?", id).Limit(1).Scan(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &out[0], nil
}

func (r *repositoryImpl) Crear(db *gorm.DB, c *Comprobante) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) ActualizarEstado(db *gorm.DB, id, status string) error {
	res := db.Model(&Comprobante{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id string) error {
	res := db.Delete(&Comprobante{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) MesesAprobados(db *gorm.DB, userID string) ([]string, error) {
	var meses []string
	err := db.Model(&Comprobante{}).
		Where("user_id = ? AND status = ?", userID, EstadoAprobado).
		Order("month_year").
		Pluck("month_year", &meses).Error
	return meses, err
}

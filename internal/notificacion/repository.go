package notificacion

import (
	"gorm.io/gorm"
)

type Repository interface {
	Crear(db *gorm.DB, n *Notificacion) error
	ListarPara(db *gorm.DB, userID string, incluirPanel bool, limite int) ([]Notificacion, error)
	MarcarLeida(db *gorm.DB, id string) error
	MarcarTodasLeidas(db *gorm.DB, userID string, incluirPanel bool) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, n *Notificacion) error {
	return db.Create(n).Error
}

// ListarPara devuelve las del usuario y, para admins, también las del panel (user_id nulo).
func (r *repositoryImpl) ListarPara(db *gorm.DB, userID string, incluirPanel bool, limite int) ([]Notificacion, error) {
	var out []Notificacion
	q := db.Order("created_at DESC")
	if incluirPanel {
		q = q.Where("user_id = ? OR user_id IS NULL", userID)
	} else {
		q = q.Where("user_id = ?", userID)
	}
	if limite > 0 {
		q = q.Limit(limite)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *repositoryImpl) MarcarLeida(db *gorm.DB, id string) error {
	res := db.Model(&Notificacion{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) MarcarTodasLeidas(db *gorm.DB, userID string, incluirPanel bool) (int64, error) {
	q := db.Model(&Notificacion{}).Where("is_read = ?", false)
	if incluirPanel {
		q = q.Where("user_id = ? OR user_id IS NULL", userID)
	} else {
		q = q.Where("user_id = ?", userID)
	}
	res := q.Update("is_read", true)
	return res.RowsAffected, res.Error
}

package usuario

import (
	"strings"

	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/propiedad"
	"gorm.io/gorm"
)

type Filtro struct {
	Rol      string
	Busqueda string
}

type Repository interface {
	Listar(db *gorm.DB, f Filtro) ([]models.Perfil, error)
	BuscarPorID(db *gorm.DB, id string) (*models.Perfil, error)
	Salvar(db *gorm.DB, p *models.Perfil) error
	Eliminar(db *gorm.DB, id string, purgar bool) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Listar(db *gorm.DB, f Filtro) ([]models.Perfil, error) {
	q := db.Model(&models.Perfil{})
	if f.Rol != "" {
		q = q.Where("role = ?", f.Rol)
	}
	if s := strings.TrimSpace(f.Busqueda); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}
	var out []models.Perfil
	err := q.Order("full_name ASC").Find(&out).Error
	return out, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*models.Perfil, error) {
	var p models.Perfil
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) Salvar(db *gorm.DB, p *models.Perfil) error {
	return db.Save(p).Error
}

// Eliminar borra el perfil y sus sesiones. Con purgar también elimina sus
// propiedades (con todo lo que cuelga de ellas) y sus documentos; sin purgar
// solo los desvincula.
func (r *repositoryImpl) Eliminar(db *gorm.DB, id string, purgar bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if purgar {
			var ids []string
			if err := tx.Model(&propiedad.Propiedad{}).Where("owner_id = ?", id).Pluck("id", &ids).Error; err != nil {
				return err
			}
			repo := propiedad.NewRepository()
			for _, pid := range ids {
				if err := repo.Eliminar(tx, pid); err != nil {
					return err
				}
			}
			if err := tx.Exec("DELETE FROM signed_documents WHERE user_id = ?", id).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Model(&propiedad.Propiedad{}).Where("owner_id = ?", id).Update("owner_id", nil).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&propiedad.Propiedad{}).Where("tenant_id = ?", id).Update("tenant_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&auth.RefreshToken{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Perfil{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

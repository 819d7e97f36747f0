package prospecto

import (
	"strings"

	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/gorm"
)

// Filtro de listado. Con SoloDe se limita a los prospectos asignados o
// referidos por ese usuario.
type Filtro struct {
	SoloDe     string
	Status     string
	Busqueda   string
	Potencial  bool
	EnRevision bool
}

type Repository interface {
	Listar(db *gorm.DB, f Filtro) ([]models.Prospecto, error)
	BuscarPorID(db *gorm.DB, id string) (*models.Prospecto, error)
	Crear(db *gorm.DB, p *models.Prospecto) error
	Salvar(db *gorm.DB, p *models.Prospecto) error
	ActualizarCampos(db *gorm.DB, id string, campos map[string]any) (int64, error)
	Eliminar(db *gorm.DB, id string) error
	Duplicados(db *gorm.DB, correo, telefono, excepto string) ([]models.Prospecto, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Listar(db *gorm.DB, f Filtro) ([]models.Prospecto, error) {
	q := db.Model(&models.Prospecto{})
	if f.SoloDe != "" {
		q = q.Where("assigned_to = ? OR referred_by = ?", f.SoloDe, f.SoloDe)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Potencial {
		q = q.Where("is_potential = ?", true)
	}
	if f.EnRevision {
		q = q.Where("status = ? OR investigation_status = ?", models.EstadoInvestigando, models.InvestigacionRevision)
	}
	if s := strings.TrimSpace(f.Busqueda); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}
	var out []models.Prospecto
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*models.Prospecto, error) {
	var p models.Prospecto
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) Crear(db *gorm.DB, p *models.Prospecto) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) Salvar(db *gorm.DB, p *models.Prospecto) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) ActualizarCampos(db *gorm.DB, id string, campos map[string]any) (int64, error) {
	res := db.Model(&models.Prospecto{}).Where("id = ?", id).Updates(campos)
	return res.RowsAffected, res.Error
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prospecto_id = ?", id).Delete(&models.Comentario{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Prospecto{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Duplicados busca otros prospectos con el mismo correo o los mismos últimos
// 10 dígitos de teléfono.
func (r *repositoryImpl) Duplicados(db *gorm.DB, correo, telefono, excepto string) ([]models.Prospecto, error) {
	correo = utils.NormalizarCorreo(correo)
	telefono = utils.NormalizarTelefono(telefono)
	if correo == "" && len(telefono) < 10 {
		return nil, nil
	}
	q := db.Model(&models.Prospecto{}).Where("id <> ?", excepto)
	switch {
	case correo != "" && len(telefono) == 10:
		q = q.Where("LOWER(email) = ? OR phone LIKE ?", correo, "%"+telefono)
	case correo != "":
		q = q.Where("LOWER(email) = ?", correo)
	default:
		q = q.Where("phone LIKE ?", "%"+telefono)
	}
	var candidatos []models.Prospecto
	if err := q.Find(&candidatos).Error; err != nil {
		return nil, err
	}
	// el LIKE también acepta números más largos con el mismo final
	out := candidatos[:0]
	for _, c := range candidatos {
		if (correo != "" && utils.NormalizarCorreo(c.Email) == correo) ||
			(len(telefono) == 10 && utils.NormalizarTelefono(c.Phone) == telefono) {
			out = append(out, c)
		}
	}
	return out, nil
}

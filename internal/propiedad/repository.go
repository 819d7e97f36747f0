package propiedad

import (
	"strings"

	"github.com/magno-inmobiliaria/api-admin/internal/timeline"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Filtro struct {
	Status   string
	Type     string
	Busqueda string
	OwnerID  string
}

type Repository interface {
	Listar(db *gorm.DB, f Filtro) ([]Propiedad, error)
	BuscarPorID(db *gorm.DB, id string) (*Propiedad, error)
	BuscarPorRef(db *gorm.DB, ref string) (*Propiedad, error)
	Crear(db *gorm.DB, p *Propiedad) error
	Actualizar(db *gorm.DB, p *Propiedad) error
	ActualizarEstado(db *gorm.DB, id, estado string, motivo *string) error
	Eliminar(db *gorm.DB, id string) error
	UpsertTokko(db *gorm.DB, p *Propiedad) error

	ListarInternas(db *gorm.DB) ([]PropiedadInterna, error)
	BuscarInternaPorRef(db *gorm.DB, ref string) (*PropiedadInterna, error)
	GuardarInterna(db *gorm.DB, p *PropiedadInterna) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Listar(db *gorm.DB, f Filtro) ([]Propiedad, error) {
	q := db.Model(&Propiedad{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.OwnerID != "" {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if s := strings.TrimSpace(f.Busqueda); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(ref) LIKE ? OR LOWER(address) LIKE ?", like, like, like)
	}
	var out []Propiedad
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*Propiedad, error) {
	var p Propiedad
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) BuscarPorRef(db *gorm.DB, ref string) (*Propiedad, error) {
	var p Propiedad
	if err := db.Where("ref = ?", ref).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) Crear(db *gorm.DB, p *Propiedad) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, p *Propiedad) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) ActualizarEstado(db *gorm.DB, id, estado string, motivo *string) error {
	res := db.Model(&Propiedad{}).Where("id = ?", id).
		Updates(map[string]any{"status": estado, "status_reason": motivo})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Eliminar borra la propiedad junto con su timeline, documentos y comprobantes.
func (r *repositoryImpl) Eliminar(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := timeline.NewRepository().EliminarPorPropiedad(tx, id); err != nil {
			return err
		}
		for _, tabla := range []string{"signed_documents", "payment_proofs"} {
			if err := tx.Exec("DELETE FROM "+tabla+" WHERE property_id = ?", id).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&Propiedad{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// UpsertTokko inserta o actualiza por tokko_id. El estado solo se fija al
// insertar para no pisar apartados o rentas locales.
func (r *repositoryImpl) UpsertTokko(db *gorm.DB, p *Propiedad) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tokko_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"ref", "title", "address", "full_address", "description", "price", "type",
			"specs", "main_image", "images", "amenities", "latitude", "longitude", "updated_at",
		}),
	}).Create(p).Error
}

func (r *repositoryImpl) ListarInternas(db *gorm.DB) ([]PropiedadInterna, error) {
	var out []PropiedadInterna
	err := db.Order("ref ASC").Find(&out).Error
	return out, err
}

func (r *repositoryImpl) BuscarInternaPorRef(db *gorm.DB, ref string) (*PropiedadInterna, error) {
	var p PropiedadInterna
	if err := db.Where("ref = ?", ref).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) GuardarInterna(db *gorm.DB, p *PropiedadInterna) error {
	return db.Save(p).Error
}

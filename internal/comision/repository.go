package comision

import (
	"time"

	"gorm.io/gorm"
)

// Repository encapsula comisiones y parcelas.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB devuelve una copia que usa db (por ejemplo una tx).
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

func (r *Repository) Create(c *Comision) error {
	return r.DB.Create(c).Error
}

func (r *Repository) FindByID(id string) (*Comision, error) {
	var c Comision
	err := r.DB.Preload("Parcelas", func(db *gorm.DB) *gorm.DB {
		return db.Order("fecha_vencimiento ASC")
	}).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) FindByLead(leadID string) (*Comision, error) {
	var c Comision
	if err := r.DB.Where("lead_id = ?", leadID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// List devuelve las comisiones con sus parcelas; advisorID vacío trae todas.
func (r *Repository) List(advisorID string) ([]Comision, error) {
	q := r.DB.Preload("Parcelas", func(db *gorm.DB) *gorm.DB {
		return db.Order("fecha_vencimiento ASC")
	})
	if advisorID != "" {
		q = q.Where("advisor_id = ?", advisorID)
	}
	var out []Comision
	err := q.Order("fecha_cierre DESC").Find(&out).Error
	return out, err
}

func (r *Repository) FindParcela(id string) (*Parcela, error) {
	var p Parcela
	if err := r.DB.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) CreateParcela(comisionID string, p *Parcela) error {
	p.ComisionID = comisionID
	if p.Status == "" {
		p.Status = ParcelaPendiente
	}
	return r.DB.Create(p).Error
}

// UpdateStatusParcela cambia el estado; "Pago" fija la fecha de pago y
// cualquier otro estado la borra.
func (r *Repository) UpdateStatusParcela(id, status string, fecha time.Time) error {
	updates := map[string]any{"status": status}
	if status == ParcelaPagada {
		updates["fecha_pago"] = &fecha
	} else {
		updates["fecha_pago"] = nil
	}
	return r.DB.Model(&Parcela{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) DeleteParcela(id string) error {
	res := r.DB.Delete(&Parcela{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Recalcular actualiza total_recibir (parcelas no canceladas) y el estado de
// la comisión: pagada cuando todas las parcelas vigentes están pagadas.
func (r *Repository) Recalcular(comisionID string) error {
	var fila struct {
		Total    float64
		Vigentes int64
		Pagadas  int64
	}
	err := r.DB.Model(&Parcela{}).
		Where("comision_id = ? AND status <> ?", comisionID, ParcelaCancelada).
		Select("COALESCE(SUM(valor), 0) AS total, COUNT(*) AS vigentes, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pagadas", ParcelaPagada).
		Scan(&fila).Error
	if err != nil {
		return err
	}
	status := ComisionPendiente
	if fila.Vigentes > 0 && fila.Pagadas == fila.Vigentes {
		status = ComisionPagada
	}
	return r.DB.Model(&Comision{}).Where("id = ?", comisionID).
		Updates(map[string]any{"total_recibir": fila.Total, "status": status}).Error
}

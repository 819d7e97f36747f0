package asesor

import (
	"encoding/json"
	"log/slog"

	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Buscar(db *gorm.DB, userID string) (*Perfil, error)
	Asegurar(db *gorm.DB, userID string) error
	Guardar(db *gorm.DB, p *Perfil) error
	ActualizarFoto(db *gorm.DB, userID, url string) error
	Incrementar(db *gorm.DB, userID string, venta bool) error
	Actividades(db *gorm.DB, advisorID string) ([]models.ActividadAsesor, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Buscar(db *gorm.DB, userID string) (*Perfil, error) {
	var p Perfil
	if err := db.First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Asegurar crea el perfil vacío si todavía no existe.
func (r *repositoryImpl) Asegurar(db *gorm.DB, userID string) error {
	p := Perfil{UserID: userID, WeeklyGoal: MetaSemanalDefault}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error
}

// Guardar hace upsert de los campos editables; los contadores no se tocan.
func (r *repositoryImpl) Guardar(db *gorm.DB, p *Perfil) error {
	if p.WeeklyGoal <= 0 {
		p.WeeklyGoal = MetaSemanalDefault
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"bio", "advisor_type", "weekly_goal", "updated_at"}),
	}).Create(p).Error
}

func (r *repositoryImpl) ActualizarFoto(db *gorm.DB, userID, url string) error {
	if err := r.Asegurar(db, userID); err != nil {
		return err
	}
	return db.Model(&Perfil{}).Where("user_id = ?", userID).Update("photo_url", url).Error
}

// Incrementar suma un cierre a rented_count o sold_count.
func (r *repositoryImpl) Incrementar(db *gorm.DB, userID string, venta bool) error {
	if err := r.Asegurar(db, userID); err != nil {
		return err
	}
	campo := "rented_count"
	if venta {
		campo = "sold_count"
	}
	return db.Model(&Perfil{}).Where("user_id = ?", userID).
		Update(campo, gorm.Expr(campo+" + 1")).Error
}

func (r *repositoryImpl) Actividades(db *gorm.DB, advisorID string) ([]models.ActividadAsesor, error) {
	var out []models.ActividadAsesor
	err := db.Where("advisor_id = ?", advisorID).Order("created_at DESC").Find(&out).Error
	return out, err
}

// RegistrarActividad anota una actividad para la racha del asesor. Sin asesor
// no hace nada; un fallo solo queda en el log.
func RegistrarActividad(db *gorm.DB, advisorID, tipo string, metadata map[string]any) {
	if advisorID == "" {
		return
	}
	a := models.ActividadAsesor{AdvisorID: advisorID, ActivityType: tipo}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err == nil {
			a.Metadata = raw
		}
	}
	if err := db.Create(&a).Error; err != nil {
		slog.Error("registrar actividad de asesor", "error", err, "advisor_id", advisorID, "tipo", tipo)
	}
}

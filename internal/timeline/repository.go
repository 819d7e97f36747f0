package timeline

import (
	"log/slog"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Crear(db *gorm.DB, e *Evento) error
	ListarPorPropiedad(db *gorm.DB, propertyID string) ([]Evento, error)
	EliminarPorPropiedad(db *gorm.DB, propertyID string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, e *Evento) error {
	return db.Create(e).Error
}

func (r *repositoryImpl) ListarPorPropiedad(db *gorm.DB, propertyID string) ([]Evento, error) {
	var out []Evento
	err := db.Where("property_id = ?", propertyID).Order("date DESC, created_at DESC").Find(&out).Error
	return out, err
}

func (r *repositoryImpl) EliminarPorPropiedad(db *gorm.DB, propertyID string) error {
	return db.Where("property_id = ?", propertyID).Delete(&Evento{}).Error
}

// Registrar agrega un evento completado con la fecha de hoy. Es un efecto
// secundario: si falla solo se registra en el log.
func Registrar(db *gorm.DB, propertyID, titulo, descripcion string) {
	if propertyID == "" {
		return
	}
	e := Evento{
		PropertyID:  &propertyID,
		Title:       titulo,
		Description: descripcion,
		Date:        time.Now().Format(time.DateOnly),
		Status:      EstadoCompletado,
	}
	if err := db.Create(&e).Error; err != nil {
		slog.Error("registrar evento de timeline", "error", err, "property_id", propertyID, "titulo", titulo)
	}
}

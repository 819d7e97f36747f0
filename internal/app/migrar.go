package app

import (
	"fmt"
	"log/slog"

	"github.com/magno-inmobiliaria/api-admin/internal/asesor"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/avaluo"
	"github.com/magno-inmobiliaria/api-admin/internal/blog"
	"github.com/magno-inmobiliaria/api-admin/internal/comision"
	"github.com/magno-inmobiliaria/api-admin/internal/comprobante"
	"github.com/magno-inmobiliaria/api-admin/internal/documento"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/notificacion"
	"github.com/magno-inmobiliaria/api-admin/internal/propiedad"
	"github.com/magno-inmobiliaria/api-admin/internal/reporte"
	"github.com/magno-inmobiliaria/api-admin/internal/tiemporeal"
	"github.com/magno-inmobiliaria/api-admin/internal/timeline"
	"gorm.io/gorm"
)

// Modelos son todas las tablas que administra el servicio.
func Modelos() []any {
	return []any{
		&models.Perfil{},
		&auth.RefreshToken{},
		&asesor.Perfil{},
		&models.ActividadAsesor{},
		&propiedad.Propiedad{},
		&propiedad.PropiedadInterna{},
		&timeline.Evento{},
		&documento.Documento{},
		&models.Prospecto{},
		&models.Comentario{},
		&models.Cita{},
		&models.SolicitudRenta{},
		&models.Reclutamiento{},
		&comprobante.Comprobante{},
		&comprobante.Rechazado{},
		&comision.Comision{},
		&comision.Parcela{},
		&avaluo.Avaluo{},
		&reporte.Reporte{},
		&blog.Post{},
		&notificacion.Notificacion{},
	}
}

// Migrar crea o ajusta las tablas. En Postgres además instala los triggers
// de NOTIFY que alimentan el tiempo real.
func Migrar(db *gorm.DB) error {
	if err := db.AutoMigrate(Modelos()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		slog.Info("triggers de tiempo real omitidos", "dialecto", db.Dialector.Name())
		return nil
	}
	if err := tiemporeal.InstalarTriggers(db); err != nil {
		return fmt.Errorf("instalar triggers: %w", err)
	}
	return nil
}

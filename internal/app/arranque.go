package app

import (
	"context"
	"log/slog"

	"github.com/magno-inmobiliaria/api-admin/internal/almacenamiento"
	"github.com/magno-inmobiliaria/api-admin/internal/config"
	"github.com/magno-inmobiliaria/api-admin/internal/tokko"
)

// NuevoAlmacen elige el bucket según STORAGE_DRIVER.
func NuevoAlmacen(ctx context.Context, cfg *config.Config) (almacenamiento.Almacen, error) {
	if cfg.Storage.Driver == "memoria" {
		slog.Warn("almacenamiento en memoria, los archivos se pierden al reiniciar")
		return almacenamiento.NewMemoria(cfg.Storage.PublicURL), nil
	}
	return almacenamiento.NewS3(ctx, cfg.Storage.Region, cfg.Storage.Bucket, cfg.Storage.PublicURL)
}

// NuevoTokko arma el cliente del portal de listados. Si Redis no está
// configurado o no responde, el cliente trabaja sin caché.
func NuevoTokko(cfg *config.Config) (*tokko.Client, func()) {
	var cache tokko.Cache
	cerrar := func() {}
	if cfg.Redis.Addr != "" {
		rc, err := tokko.NewRedisCache(&tokko.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			slog.Warn("redis no disponible, tokko sin caché", "error", err)
		} else {
			cache = rc
			cerrar = func() { _ = rc.Close() }
		}
	}
	return tokko.NewClient(cfg.Tokko.BaseURL, cfg.Tokko.APIKey, cache), cerrar
}

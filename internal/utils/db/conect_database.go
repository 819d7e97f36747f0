package db

import (
	"context"
	"fmt"

	"github.com/magno-inmobiliaria/api-admin/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN arma la cadena de conexión resolviendo las credenciales.
func DSN(ctx context.Context, cfg *config.Config) (string, error) {
	var sslMode string
	if cfg.DB.SSLDisable {
		sslMode = " sslmode=disable"
	}
	username, password, err := retrieveCredentials(ctx, cfg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d%s",
		cfg.DB.Host, username, password, cfg.DB.Name, cfg.DB.Port, sslMode), nil
}

// ConnectDataBase abre la conexión GORM contra Postgres.
func ConnectDataBase(ctx context.Context, cfg *config.Config) (*gorm.DB, string, error) {
	dsn, err := DSN(ctx, cfg)
	if err != nil {
		return nil, "", err
	}
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("abrir postgres: %w", err)
	}
	return database, dsn, nil
}

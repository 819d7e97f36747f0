package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/magno-inmobiliaria/api-admin/internal/app"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/config"
	"github.com/magno-inmobiliaria/api-admin/internal/notificacion"
	"github.com/magno-inmobiliaria/api-admin/internal/tiemporeal"
	"github.com/magno-inmobiliaria/api-admin/internal/utils/db"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("cargar configuración", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := auth.Inicializar(auth.Opciones{
		RSAPrivatePath: cfg.Auth.RSAPrivatePath,
		KID:            cfg.Auth.KID,
		Issuer:         cfg.Auth.Issuer,
		Audience:       cfg.Auth.Audience,
		CookieSecure:   cfg.Auth.CookieSecure,
	}); err != nil {
		slog.Error("inicializar llaves", "error", err)
		os.Exit(1)
	}

	database, dsn, err := db.ConnectDataBase(ctx, cfg)
	if err != nil {
		slog.Error("conectar a la base", "error", err)
		os.Exit(1)
	}
	if err := app.Migrar(database); err != nil {
		slog.Error("migrar", "error", err)
		os.Exit(1)
	}

	almacen, err := app.NuevoAlmacen(ctx, cfg)
	if err != nil {
		slog.Error("inicializar almacenamiento", "error", err)
		os.Exit(1)
	}
	tk, cerrarCache := app.NuevoTokko(cfg)
	defer cerrarCache()

	hub := tiemporeal.NewHub()
	go func() {
		escucha := &tiemporeal.Escucha{DSN: dsn, Hub: hub}
		if err := escucha.Ejecutar(ctx); err != nil {
			slog.Error("escucha de tiempo real detenida", "error", err)
		}
	}()

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: app.NewRouter(app.Dependencias{
			DB:       database,
			Almacen:  almacen,
			Tokko:    tk,
			Hub:      hub,
			Alertas:  notificacion.NewWebhook(cfg.WebhookAlertasURL),
			Zona:     cfg.Ubicacion(),
			Sondeo:   cfg.ReclutamientoPoll,
			Origenes: cfg.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		apagar, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(apagar); err != nil {
			slog.Error("apagar servidor", "error", err)
		}
	}()

	slog.Info("servidor escuchando", "addr", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("servidor", "error", err)
		os.Exit(1)
	}
}

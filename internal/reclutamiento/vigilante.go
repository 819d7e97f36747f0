package reclutamiento

import (
	"context"
	"log/slog"
	"time"

	"github.com/magno-inmobiliaria/api-admin/internal/tiemporeal"
)

// IntervaloSondeo por defecto cuando no hay transporte en vivo.
const IntervaloSondeo = 15 * time.Second

// Fuente de eventos en vivo; *tiemporeal.Hub la implementa.
type Fuente interface {
	Suscribir() (<-chan tiemporeal.Evento, func())
	Conectado() bool
}

// Vigilante mantiene fresco el listado de reclutamientos de un panel: con
// transporte en vivo refresca en cada inserción y, si no lo hay, sondea cada
// Intervalo. Vive lo que viva el contexto del panel.
type Vigilante struct {
	Fuente    Fuente
	Intervalo time.Duration
	Refrescar func(ctx context.Context) error
}

// Ejecutar refresca una vez al entrar y bloquea hasta que ctx termina.
func (v *Vigilante) Ejecutar(ctx context.Context) {
	intervalo := v.Intervalo
	if intervalo <= 0 {
		intervalo = IntervaloSondeo
	}
	v.refrescar(ctx)

	eventos, cancel := v.Fuente.Suscribir()
	defer cancel()
	ticker := time.NewTicker(intervalo)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-eventos:
			if !ok {
				eventos = nil
				continue
			}
			if ev.Tabla == tiemporeal.TablaReclutamientos {
				v.refrescar(ctx)
			}
		case <-ticker.C:
			if !v.Fuente.Conectado() {
				v.refrescar(ctx)
			}
		}
	}
}

func (v *Vigilante) refrescar(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := v.Refrescar(ctx); err != nil {
		slog.Warn("refrescar reclutamientos", "error", err)
	}
}

// magnoctl reúne tareas de operación que no pasan por el panel.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/alecthomas/kong"
	"github.com/magno-inmobiliaria/api-admin/internal/app"
	"github.com/magno-inmobiliaria/api-admin/internal/config"
	"github.com/magno-inmobiliaria/api-admin/internal/propiedad"
	"github.com/magno-inmobiliaria/api-admin/internal/tablero"
	"github.com/magno-inmobiliaria/api-admin/internal/tokko"
	"github.com/magno-inmobiliaria/api-admin/internal/utils/db"
	"gorm.io/gorm"
)

type cli struct {
	Migrar      migrarCmd      `cmd:"" help:"Crea o ajusta las tablas e instala los triggers de tiempo real."`
	Sincronizar sincronizarCmd `cmd:"" help:"Trae las publicaciones de Tokko y las guarda en properties."`
	Leads       leadsCmd       `cmd:"" help:"Cuenta los contactos de Tokko por estado."`
	Racha       rachaCmd       `cmd:"" help:"Muestra la racha de días con actividad de un asesor."`
}

type migrarCmd struct{}

type sincronizarCmd struct{}

type leadsCmd struct {
	Max int `default:"3000" help:"Máximo de contactos a leer."`
}

type rachaCmd struct {
	Asesor string `required:"" help:"ID del asesor."`
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "magnoctl:", err)
		os.Exit(1)
	}
	ctx := kong.Parse(&cli{},
		kong.Description("Tareas de operación del panel de Magno."),
		kong.UsageOnError(),
		kong.Bind(cfg),
	)
	err = ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func conectar(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	database, _, err := db.ConnectDataBase(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("magnoctl: %w", err)
	}
	return database, nil
}

func (cmd *migrarCmd) Run(ctx context.Context, cfg *config.Config) error {
	database, err := conectar(ctx, cfg)
	if err != nil {
		return err
	}
	if err := app.Migrar(database); err != nil {
		return fmt.Errorf("magnoctl: %w", err)
	}
	fmt.Println("migración completa")
	return nil
}

func (cmd *sincronizarCmd) Run(ctx context.Context, cfg *config.Config) error {
	database, err := conectar(ctx, cfg)
	if err != nil {
		return err
	}
	tk, cerrar := app.NuevoTokko(cfg)
	defer cerrar()

	res, err := propiedad.NewSincronizador(database, tk).Sincronizar(ctx)
	if err != nil {
		return fmt.Errorf("magnoctl: %w", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func (cmd *leadsCmd) Run(ctx context.Context, cfg *config.Config) error {
	tk, cerrar := app.NuevoTokko(cfg)
	defer cerrar()

	contactos, err := tk.Contactos(ctx, cmd.Max)
	if err != nil {
		return fmt.Errorf("magnoctl: %w", err)
	}
	porEstado := map[string]int{}
	for _, c := range contactos {
		porEstado[tokko.EstadoLead(c.Tags)]++
	}
	estados := make([]string, 0, len(porEstado))
	for e := range porEstado {
		estados = append(estados, e)
	}
	sort.Strings(estados)
	for _, e := range estados {
		fmt.Printf("%-22s %d\n", e, porEstado[e])
	}
	fmt.Printf("%-22s %d\n", "Total", len(contactos))
	return nil
}

func (cmd *rachaCmd) Run(ctx context.Context, cfg *config.Config) error {
	database, err := conectar(ctx, cfg)
	if err != nil {
		return err
	}
	n, err := tablero.RachaDeAsesor(database.WithContext(ctx), cmd.Asesor, time.Now().In(cfg.Ubicacion()))
	if err != nil {
		return fmt.Errorf("magnoctl: %w", err)
	}
	fmt.Printf("racha de %s: %d días\n", cmd.Asesor, n)
	return nil
}

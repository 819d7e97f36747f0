package propiedad

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/magno-inmobiliaria/api-admin/internal/monitoreo"
	"github.com/magno-inmobiliaria/api-admin/internal/tokko"
	"gorm.io/gorm"
)

// LimiteSincronizacion es cuántas publicaciones se traen por corrida.
const LimiteSincronizacion = 200

// Fuente es el lado remoto de la sincronización.
type Fuente interface {
	Propiedades(ctx context.Context, limite int) ([]tokko.Propiedad, error)
}

type Resultado struct {
	Updated   int     `json:"updated"`
	Errors    int     `json:"errors"`
	LastError *string `json:"last_error"`
}

type Sincronizador struct {
	DB         *gorm.DB
	Fuente     Fuente
	Repository Repository
}

func NewSincronizador(db *gorm.DB, f Fuente) *Sincronizador {
	return &Sincronizador{DB: db, Fuente: f, Repository: NewRepository()}
}

// Sincronizar trae las publicaciones y las guarda una por una. Un error en una
// fila no detiene las demás; solo un fallo al leer la fuente aborta.
func (s *Sincronizador) Sincronizar(ctx context.Context) (Resultado, error) {
	var res Resultado
	remotas, err := s.Fuente.Propiedades(ctx, LimiteSincronizacion)
	if err != nil {
		return res, fmt.Errorf("leer publicaciones: %w", err)
	}
	db := s.DB.WithContext(ctx)
	for i := range remotas {
		p := DesdeTokko(&remotas[i])
		if err := s.Repository.UpsertTokko(db, &p); err != nil {
			slog.Error("sincronizar propiedad", "error", err, "tokko_id", remotas[i].ID)
			res.Errors++
			msg := err.Error()
			res.LastError = &msg
			continue
		}
		res.Updated++
	}
	monitoreo.RegistrarSincronizacion(res.Updated, res.Errors)
	slog.Info("sincronización con Tokko", "actualizadas", res.Updated, "errores", res.Errors)
	return res, nil
}

// DesdeTokko convierte una publicación remota al modelo local.
func DesdeTokko(tp *tokko.Propiedad) Propiedad {
	tokkoID := strconv.Itoa(tp.ID)

	var precio float64
	if op := tp.Operacion("Sale"); op != nil && len(op.Prices) > 0 {
		precio = float64(op.Prices[0].Price)
	} else if op := tp.Operacion("Rent"); op != nil && len(op.Prices) > 0 {
		precio = float64(op.Prices[0].Price)
	}
	tipo := TipoVenta
	if tp.Operacion("Rent") != nil {
		tipo = TipoRenta
	}

	recamaras := tp.SuiteAmount
	if recamaras == 0 {
		recamaras = tp.RoomAmount
	}
	niveles := tp.FloorsAmount
	if niveles == 0 {
		niveles = 1
	}

	amenidades := make([]string, 0, len(tp.Tags))
	for _, t := range tp.Tags {
		amenidades = append(amenidades, t.Name)
	}
	imagenes := make([]string, 0, len(tp.Photos))
	portada := ""
	for _, f := range tp.Photos {
		imagenes = append(imagenes, f.Image)
		if f.IsFrontCover && portada == "" {
			portada = f.Image
		}
	}
	if portada == "" && len(imagenes) > 0 {
		portada = imagenes[0]
	}

	ref := primero(tp.ReferenceCode, tp.Reference, "TK-"+tokkoID)
	descripcion := primero(strings.TrimSpace(tp.RichDescription), tp.Description, tp.DescriptionOnly)
	completa := tp.Address
	if tp.Location != nil && tp.Location.Name != "" {
		completa = tp.Location.Name + ", " + tp.Address
	}

	p := Propiedad{
		TokkoID:     &tokkoID,
		Ref:         ref,
		Title:       primero(tp.PublicationTitle, tp.Address),
		Address:     tp.Address,
		FullAddress: completa,
		Description: descripcion,
		Price:       precio,
		Type:        tipo,
		Status:      EstadoDisponible,
		Specs: Especificaciones{
			Beds:     recamaras,
			Baths:    tp.BathroomAmount,
			Parking:  tp.ParkingLotAmount,
			Area:     float64(tp.TotalSurface),
			LandArea: float64(tp.Surface),
			Age:      tp.Age,
			Levels:   niveles,
		},
		MainImage: portada,
		Images:    imagenes,
		Amenities: amenidades,
	}
	if tp.GeoLat != 0 || tp.GeoLong != 0 {
		lat, lng := float64(tp.GeoLat), float64(tp.GeoLong)
		p.Latitude, p.Longitude = &lat, &lng
	}
	return p
}

func primero(valores ...string) string {
	for _, v := range valores {
		if v != "" {
			return v
		}
	}
	return ""
}

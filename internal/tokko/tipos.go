package tokko

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Numero acepta números que Tokko manda como número, texto o null.
type Numero float64

func (n *Numero) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = Numero(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Numero(f)
	return nil
}

type Etiqueta struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Precio struct {
	Price    Numero `json:"price"`
	Currency string `json:"currency"`
}

type Operacion struct {
	OperationType string   `json:"operation_type"`
	Prices        []Precio `json:"prices"`
}

type Foto struct {
	Image        string `json:"image"`
	IsFrontCover bool   `json:"is_front_cover"`
}

type Ubicacion struct {
	Name string `json:"name"`
}

// Propiedad es un inmueble tal como lo publica Tokko.
type Propiedad struct {
	ID               int         `json:"id"`
	ReferenceCode    string      `json:"reference_code"`
	Reference        string      `json:"reference"`
	PublicationTitle string      `json:"publication_title"`
	Address          string      `json:"address"`
	RichDescription  string      `json:"rich_description"`
	Description      string      `json:"description"`
	DescriptionOnly  string      `json:"description_only"`
	Operations       []Operacion `json:"operations"`
	SuiteAmount      int         `json:"suite_amount"`
	RoomAmount       int         `json:"room_amount"`
	BathroomAmount   int         `json:"bathroom_amount"`
	ParkingLotAmount int         `json:"parking_lot_amount"`
	Age              int         `json:"age"`
	FloorsAmount     int         `json:"floors_amount"`
	TotalSurface     Numero      `json:"total_surface"`
	Surface          Numero      `json:"surface"`
	Photos           []Foto      `json:"photos"`
	Tags             []Etiqueta  `json:"tags"`
	GeoLat           Numero      `json:"geo_lat"`
	GeoLong          Numero      `json:"geo_long"`
	Location         *Ubicacion  `json:"location"`
}

// Operacion devuelve la operación del tipo dado ("Sale", "Rent") o nil.
func (p *Propiedad) Operacion(tipo string) *Operacion {
	for i := range p.Operations {
		if p.Operations[i].OperationType == tipo {
			return &p.Operations[i]
		}
	}
	return nil
}

// Contacto es un lead de Tokko.
type Contacto struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CellPhone string     `json:"cellphone"`
	Phone     string     `json:"phone"`
	Tags      []Etiqueta `json:"tags"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
	DeletedAt *string    `json:"deleted_at"`
}

type pagina[T any] struct {
	Meta struct {
		TotalCount int `json:"total_count"`
	} `json:"meta"`
	Objects []T `json:"objects"`
}

// EstadosLead son las etiquetas de Tokko que representan el estado del lead.
var EstadosLead = []string{
	"Pendiente contactar",
	"Esperando respuesta",
	"Evolucionando",
	"Tomar Accion",
	"Congelado",
}

// EstadoLead devuelve la primera etiqueta que sea un estado; por omisión "Pendiente contactar".
func EstadoLead(tags []Etiqueta) string {
	for _, t := range tags {
		for _, e := range EstadosLead {
			if t.Name == e {
				return e
			}
		}
	}
	return EstadosLead[0]
}

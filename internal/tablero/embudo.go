package tablero

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
)

type ConteoEstado struct {
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// Embudo resume la conversión de prospectos. Las tasas son porcentajes.
type Embudo struct {
	Prospectos    int            `json:"prospects"`
	Potenciales   int            `json:"potential"`
	Cerrados      int            `json:"closed"`
	PotentialRate float64        `json:"potentialRate"`
	ClosingRate   float64        `json:"closingRate"`
	PorEstado     []ConteoEstado `json:"by_status"`
}

// CalcularEmbudo: potenciales/prospectos y cerrados/potenciales, en cero
// cuando el denominador es cero.
func CalcularEmbudo(prospectos []models.Prospecto, potenciales []Potencial) Embudo {
	conteo := map[string]int{}
	for _, p := range prospectos {
		conteo[p.Status]++
	}
	e := Embudo{
		Prospectos:  len(prospectos),
		Potenciales: len(potenciales),
		Cerrados:    conteo[models.EstadoCerradoGanado],
	}
	e.PotentialRate = porcentaje(e.Potenciales, e.Prospectos)
	e.ClosingRate = porcentaje(e.Cerrados, e.Potenciales)
	for _, s := range models.EstadosEmbudo {
		e.PorEstado = append(e.PorEstado, ConteoEstado{Status: s, Total: conteo[s]})
	}
	return e
}

func porcentaje(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}

// Grafica dibuja el embudo como página HTML de echarts.
func (e Embudo) Grafica(titulo string, w io.Writer) error {
	f := charts.NewFunnel()
	f.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: titulo}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: titulo, Width: "900px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)
	data := []opts.FunnelData{
		{Name: "Prospectos", Value: e.Prospectos},
		{Name: "Potenciales", Value: e.Potenciales},
		{Name: "Cerrados", Value: e.Cerrados},
	}
	f.AddSeries("Conversión", data)
	return f.Render(w)
}

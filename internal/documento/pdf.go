package documento

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/propiedad"
	"github.com/magno-inmobiliaria/api-admin/internal/timeline"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
)

// hoja envuelve fpdf con la cabecera Magno y la traducción a cp1252 que
// necesitan las fuentes base para acentos y eñes.
type hoja struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func nuevaHoja(titulo string) *hoja {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(titulo, true)
	pdf.SetAuthor("Magno Inmobiliaria", true)
	pdf.SetMargins(18, 18, 18)
	h := &hoja{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 6, h.tr(fmt.Sprintf("Magno Inmobiliaria · página %d", pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(20, 33, 61)
	pdf.CellFormat(0, 10, h.tr(titulo), "", 1, "L", false, 0, "")
	pdf.SetDrawColor(252, 163, 17)
	pdf.SetLineWidth(0.8)
	x, y := pdf.GetXY()
	pdf.Line(x, y, x+60, y)
	pdf.Ln(6)
	return h
}

func (h *hoja) seccion(titulo string) {
	h.pdf.Ln(2)
	h.pdf.SetFont("Helvetica", "B", 12)
	h.pdf.SetTextColor(20, 33, 61)
	h.pdf.CellFormat(0, 8, h.tr(titulo), "B", 1, "L", false, 0, "")
	h.pdf.Ln(2)
}

func (h *hoja) campo(etiqueta, valor string) {
	if strings.TrimSpace(valor) == "" {
		valor = "-"
	}
	h.pdf.SetFont("Helvetica", "B", 10)
	h.pdf.SetTextColor(80, 80, 80)
	h.pdf.CellFormat(55, 6, h.tr(etiqueta), "", 0, "L", false, 0, "")
	h.pdf.SetFont("Helvetica", "", 10)
	h.pdf.SetTextColor(0, 0, 0)
	h.pdf.MultiCell(0, 6, h.tr(valor), "", "L", false)
}

func (h *hoja) parrafo(texto string) {
	h.pdf.SetFont("Helvetica", "", 10)
	h.pdf.SetTextColor(0, 0, 0)
	h.pdf.MultiCell(0, 5.5, h.tr(texto), "", "J", false)
	h.pdf.Ln(2)
}

func (h *hoja) firmas(izquierda, derecha string) {
	h.pdf.Ln(22)
	y := h.pdf.GetY()
	h.pdf.SetDrawColor(0, 0, 0)
	h.pdf.SetLineWidth(0.3)
	h.pdf.Line(25, y, 95, y)
	h.pdf.Line(120, y, 190, y)
	h.pdf.SetFont("Helvetica", "", 9)
	h.pdf.SetXY(25, y+1)
	h.pdf.CellFormat(70, 5, h.tr(izquierda), "", 0, "C", false, 0, "")
	h.pdf.SetXY(120, y+1)
	h.pdf.CellFormat(70, 5, h.tr(derecha), "", 1, "C", false, 0, "")
}

func (h *hoja) escribir(w io.Writer) error {
	if h.pdf.Err() {
		return h.pdf.Error()
	}
	return h.pdf.Output(w)
}

// camposOmitidos no se imprimen en la ficha: son enlaces o banderas internas.
var camposOmitidos = map[string]bool{
	"unsigned_recruitment_url": true,
	"unsigned_keys_url":        true,
	"is_signed_at":             true,
	"images":                   true,
	"signature":                true,
}

// FichaReclutamiento genera la ficha con todo el formulario del propietario.
func FichaReclutamiento(rec *models.Reclutamiento, ahora time.Time, w io.Writer) error {
	f := rec.Formulario()
	h := nuevaHoja("Ficha de Reclutamiento")

	h.seccion("Propietario")
	h.campo("Nombre", primero(f.OwnerName, rec.OwnerName))
	h.campo("Correo", rec.Correo())
	h.campo("Teléfono", f.OwnerPhone)

	h.seccion("Inmueble")
	h.campo("Título", f.Title)
	h.campo("Dirección", f.Address)
	h.campo("Operación", tipoOperacion(rec.Type))
	if f.Price > 0 {
		h.campo("Precio", utils.Moneda(f.Price))
	}

	var resto map[string]any
	if len(rec.FormData) > 0 && json.Unmarshal(rec.FormData, &resto) == nil {
		claves := make([]string, 0, len(resto))
		for k := range resto {
			switch k {
			case "title", "address", "price", "owner_name", "owner_email", "owner_phone":
				continue
			}
			if !camposOmitidos[k] {
				claves = append(claves, k)
			}
		}
		sort.Strings(claves)
		if len(claves) > 0 {
			h.seccion("Detalle del formulario")
			for _, k := range claves {
				h.campo(etiquetaCampo(k), valorCampo(resto[k]))
			}
		}
	}

	h.seccion("Firma")
	estado := "Pendiente de firma"
	if rec.IsSigned {
		estado = "Firmada"
		if f.IsSignedAt != "" {
			estado += " el " + f.IsSignedAt
		}
	}
	h.campo("Estado", estado)
	h.campo("Generada", ahora.Format("02/01/2006 15:04"))
	h.firmas("Propietario", "Magno Inmobiliaria")
	return h.escribir(w)
}

// ReciboLlaves genera el recibo de entrega de llaves.
func ReciboLlaves(rec *models.Reclutamiento, ahora time.Time, w io.Writer) error {
	f := rec.Formulario()
	h := nuevaHoja("Recibo de Llaves")
	h.parrafo(fmt.Sprintf("Por medio del presente, Magno Inmobiliaria hace constar que recibe de %s "+
		"las llaves del inmueble ubicado en %s, con el fin de mostrarlo a posibles clientes. "+
		"Las llaves serán resguardadas en nuestras oficinas y se devolverán a solicitud del propietario.",
		primero(f.OwnerName, rec.OwnerName, "el propietario"), primero(f.Address, "la dirección registrada")))
	h.campo("Inmueble", f.Title)
	h.campo("Fecha", ahora.Format("02/01/2006"))
	h.firmas("Entrega: "+primero(f.OwnerName, rec.OwnerName, "Propietario"), "Recibe: Magno Inmobiliaria")
	return h.escribir(w)
}

// ReportePropietario resume la propiedad, su historial y sus documentos.
func ReportePropietario(p *propiedad.Propiedad, eventos []timeline.Evento, docs []Documento, ahora time.Time, w io.Writer) error {
	h := nuevaHoja("Reporte de Propiedad")
	h.seccion("Inmueble")
	h.campo("Folio", p.Ref)
	h.campo("Título", p.Title)
	h.campo("Dirección", primero(p.FullAddress, p.Address))
	h.campo("Operación", tipoOperacion(p.Type))
	h.campo("Precio", utils.Moneda(p.Price))
	h.campo("Estado", estadoPropiedad(p))

	h.seccion("Historial")
	if len(eventos) == 0 {
		h.parrafo("Sin movimientos registrados.")
	}
	for _, e := range eventos {
		h.campo(e.Date, e.Title+". "+e.Description)
	}

	h.seccion("Documentos")
	if len(docs) == 0 {
		h.parrafo("Sin documentos firmados.")
	}
	for _, d := range docs {
		estado := "Pendiente"
		if d.Status == EstadoFirmado {
			estado = "Firmado"
			if d.SignedAt != nil {
				estado += " " + d.SignedAt.Format("02/01/2006")
			}
		}
		h.campo(etiquetaDocumento(d.DocumentType), estado)
	}
	h.pdf.Ln(4)
	h.pdf.SetFont("Helvetica", "I", 8)
	h.pdf.CellFormat(0, 5, h.tr("Generado el "+ahora.Format("02/01/2006 15:04")), "", 1, "R", false, 0, "")
	return h.escribir(w)
}

func primero(v ...string) string {
	for _, s := range v {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func tipoOperacion(t string) string {
	switch t {
	case propiedad.TipoVenta:
		return "Venta"
	case propiedad.TipoRenta:
		return "Renta"
	}
	return t
}

func estadoPropiedad(p *propiedad.Propiedad) string {
	nombres := map[string]string{
		propiedad.EstadoDisponible: "Disponible",
		propiedad.EstadoApartada:   "Apartada",
		propiedad.EstadoRentada:    "Rentada",
		propiedad.EstadoPausada:    "Pausada",
	}
	s := primero(nombres[p.Status], p.Status)
	if p.StatusReason != nil && *p.StatusReason != "" {
		s += " (" + *p.StatusReason + ")"
	}
	return s
}

func etiquetaDocumento(t string) string {
	switch t {
	case TipoReclutamiento:
		return "Ficha de reclutamiento"
	case TipoLlaves:
		return "Recibo de llaves"
	case TipoContrato:
		return "Contrato"
	case TipoReporte:
		return "Reporte"
	}
	return t
}

func etiquetaCampo(k string) string {
	k = strings.ReplaceAll(k, "_", " ")
	if k == "" {
		return k
	}
	return strings.ToUpper(k[:1]) + k[1:]
}

func valorCampo(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return "Sí"
		}
		return "No"
	case string:
		return x
	case float64:
		return utils.Numero(x)
	case []any:
		partes := make([]string, 0, len(x))
		for _, e := range x {
			partes = append(partes, valorCampo(e))
		}
		return strings.Join(partes, ", ")
	}
	raw, _ := json.Marshal(v)
	return string(raw)
}

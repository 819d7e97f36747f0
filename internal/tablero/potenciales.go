package tablero

import (
	"sort"
	"time"

	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
)

// Potencial es un cliente de seguimiento prioritario, venga de donde venga.
type Potencial struct {
	ID            string    `json:"id"`
	Fuente        string    `json:"source"`
	Nombre        string    `json:"name"`
	Correo        string    `json:"email"`
	Telefono      string    `json:"phone"`
	Estado        string    `json:"status"`
	AsignadoA     *string   `json:"assigned_to,omitempty"`
	ActualizadoEn time.Time `json:"updated_at"`
}

// FuenteProspecto y FuenteReclutamiento completan las fuentes de potenciales.
const (
	FuenteProspecto     = "lead"
	FuenteReclutamiento = "recruitment"
)

// ClientesPotenciales une prospectos marcados, citas marcadas y reclutamientos
// visibles. Los registros que comparten id, correo o teléfono (normalizados)
// forman un solo cliente, aunque el vínculo sea indirecto; de cada grupo queda
// el primero en orden prospectos, citas, reclutamientos. El resultado va del
// más reciente al más antiguo.
func ClientesPotenciales(prospectos []models.Prospecto, citas []models.Cita, reclutamientos []models.Reclutamiento, v Visor) []Potencial {
	var todos []Potencial
	for _, p := range prospectos {
		if !p.IsPotential && p.Status != models.EstadoPotencialArchivado {
			continue
		}
		if !v.VeTodo() && !v.esDe(p.AssignedTo) && !v.esDe(p.ReferredBy) {
			continue
		}
		todos = append(todos, Potencial{
			ID: p.ID, Fuente: FuenteProspecto, Nombre: p.FullName, Correo: p.Email, Telefono: p.Phone,
			Estado: p.Status, AsignadoA: p.AssignedTo, ActualizadoEn: p.UpdatedAt,
		})
	}
	for _, c := range citas {
		if !c.IsPotential {
			continue
		}
		if !v.VeTodo() && !v.esDe(c.AssignedTo) {
			continue
		}
		todos = append(todos, Potencial{
			ID: c.ID, Fuente: FuenteCita, Nombre: c.ClientName, Correo: c.ClientEmail, Telefono: c.ClientPhone,
			Estado: c.Status, AsignadoA: c.AssignedTo, ActualizadoEn: c.UpdatedAt,
		})
	}
	for _, r := range reclutamientos {
		if !v.VeTodo() && !v.esDe(r.ReferredBy) {
			continue
		}
		f := r.Formulario()
		nombre := f.OwnerName
		if nombre == "" {
			nombre = r.OwnerName
		}
		todos = append(todos, Potencial{
			ID: r.ID, Fuente: FuenteReclutamiento, Nombre: nombre, Correo: r.Correo(), Telefono: f.OwnerPhone,
			Estado: r.Status, AsignadoA: r.ReferredBy, ActualizadoEn: r.UpdatedAt,
		})
	}
	return agrupar(todos)
}

// agrupar deja un representante por grupo conectado (union-find con la raíz
// en el índice menor, que es el de mayor precedencia).
func agrupar(todos []Potencial) []Potencial {
	padre := make([]int, len(todos))
	for i := range padre {
		padre[i] = i
	}
	var raiz func(int) int
	raiz = func(i int) int {
		for padre[i] != i {
			padre[i] = padre[padre[i]]
			i = padre[i]
		}
		return i
	}
	unir := func(a, b int) {
		ra, rb := raiz(a), raiz(b)
		if ra == rb {
			return
		}
		if rb < ra {
			ra, rb = rb, ra
		}
		padre[rb] = ra
	}

	visto := map[string]int{}
	for i, p := range todos {
		for _, llave := range llaves(p) {
			if j, ok := visto[llave]; ok {
				unir(j, i)
			} else {
				visto[llave] = i
			}
		}
	}

	out := make([]Potencial, 0, len(todos))
	for i, p := range todos {
		if raiz(i) == i {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ActualizadoEn.After(out[j].ActualizadoEn) })
	return out
}

func llaves(p Potencial) []string {
	ll := []string{"id:" + p.ID}
	if c := utils.NormalizarCorreo(p.Correo); c != "" {
		ll = append(ll, "correo:"+c)
	}
	if t := utils.NormalizarTelefono(p.Telefono); t != "" {
		ll = append(ll, "tel:"+t)
	}
	return ll
}

// ReclutamientoVinculado busca el primer reclutamiento cuyo propietario
// comparte correo o teléfono con el prospecto.
func ReclutamientoVinculado(p *models.Prospecto, reclutamientos []models.Reclutamiento) *models.Reclutamiento {
	correo := utils.NormalizarCorreo(p.Email)
	tel := utils.NormalizarTelefono(p.Phone)
	if correo == "" && tel == "" {
		return nil
	}
	for i := range reclutamientos {
		r := &reclutamientos[i]
		if correo != "" && utils.NormalizarCorreo(r.Correo()) == correo {
			return r
		}
		if tel != "" && utils.NormalizarTelefono(r.Formulario().OwnerPhone) == tel {
			return r
		}
	}
	return nil
}

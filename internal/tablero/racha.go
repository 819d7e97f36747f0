package tablero

import "time"

// MaxDiasRacha limita cuántos días hacia atrás se revisan.
const MaxDiasRacha = 365

// CalcularRacha cuenta los días consecutivos con actividad, caminando hacia
// atrás desde hoy. Un domingo sin actividad no rompe ni suma; hoy sin
// actividad tampoco rompe (el día no ha terminado). Cualquier otro día vacío
// corta. Las fechas se agrupan en la zona de hoy.
func CalcularRacha(actividades []time.Time, hoy time.Time) int {
	zona := hoy.Location()
	dias := make(map[string]struct{}, len(actividades))
	for _, a := range actividades {
		dias[a.In(zona).Format(time.DateOnly)] = struct{}{}
	}

	racha := 0
	d := inicioDelDia(hoy)
	for i := 0; i < MaxDiasRacha; i++ {
		if _, ok := dias[d.Format(time.DateOnly)]; ok {
			racha++
		} else if i > 0 && d.Weekday() != time.Sunday {
			break
		}
		d = d.AddDate(0, 0, -1)
	}
	return racha
}

package auth

// Roles
const (
	RolAdmin       = "admin"
	RolAsesor      = "asesor"
	RolMarketing   = "marketing"
	RolPropietario = "owner"
	RolInquilino   = "tenant"
)

// Vistas del panel que cada rol puede abrir.
var Vistas = map[string][]string{
	RolAdmin: {
		"properties", "internal-properties", "recruitments", "appointments", "rental-apps",
		"leads-crm", "investigations", "payments", "signed-documents", "reports",
		"appraisals", "blog", "landing-pages", "users", "notifications", "commissions",
	},
	RolAsesor:    {"appointments", "appraisals", "leads-crm"},
	RolMarketing: {"blog", "landing-pages"},
}

func RolValido(r string) bool {
	switch r {
	case RolAdmin, RolAsesor, RolMarketing, RolPropietario, RolInquilino:
		return true
	}
	return false
}

// PuedeVer indica si el rol tiene acceso a la vista.
func PuedeVer(rol, vista string) bool {
	for _, v := range Vistas[rol] {
		if v == vista {
			return true
		}
	}
	return false
}

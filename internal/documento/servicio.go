package documento

import (
	"time"

	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"gorm.io/gorm"
)

// RegistrarParaReclutamiento da de alta la ficha de reclutamiento y, si el
// propietario entregó llaves, el recibo de llaves. Quedan ligados a la
// solicitud porque la propiedad todavía no existe.
func RegistrarParaReclutamiento(tx *gorm.DB, rec *models.Reclutamiento, ahora time.Time) ([]Documento, error) {
	f := rec.Formulario()
	estado := EstadoPendiente
	var firmado *time.Time
	if rec.IsSigned {
		estado = EstadoFirmado
		t := ahora
		if f.IsSignedAt != "" {
			if parsed, err := time.Parse(time.RFC3339, f.IsSignedAt); err == nil {
				t = parsed
			}
		}
		firmado = &t
	}

	docs := []Documento{{DocumentType: TipoReclutamiento, PdfURL: noVacio(f.UnsignedRecruitmentURL)}}
	if f.KeysProvided {
		docs = append(docs, Documento{DocumentType: TipoLlaves, PdfURL: noVacio(f.UnsignedKeysURL)})
	}
	repo := NewRepository()
	for i := range docs {
		docs[i].SubmissionID = &rec.ID
		docs[i].UserID = rec.OwnerID
		docs[i].Status = estado
		docs[i].SignedAt = firmado
		if err := repo.Crear(tx, &docs[i]); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func noVacio(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

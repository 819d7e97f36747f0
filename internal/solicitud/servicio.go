package solicitud

import (
	"encoding/json"
	"time"

	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/notificacion"
	"gorm.io/gorm"
)

// Veredicto guarda el resultado de la investigación del solicitante. Las
// notas se agregan también al feedback para que se vean junto a la visita.
func Veredicto(db *gorm.DB, id string, aprobada bool, score *int, notas string, ahora time.Time) (*models.SolicitudRenta, error) {
	repo := NewRepository()
	var s *models.SolicitudRenta
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if s, err = repo.BuscarPorID(tx, id); err != nil {
			return err
		}
		fb := map[string]any{}
		if len(s.Feedback) > 0 {
			_ = json.Unmarshal(s.Feedback, &fb)
		}
		fb["investigation_notes"] = notas
		raw, err := json.Marshal(fb)
		if err != nil {
			return err
		}
		s.Feedback = raw
		s.InvestigationScore = score
		s.InvestigationNotes = notas
		if aprobada {
			s.InvestigationStatus = models.InvestigacionAprobada
			s.Status = models.SolicitudListaCierre
		} else {
			s.InvestigationStatus = models.InvestigacionRechazada
			s.Status = models.SolicitudRechazada
			s.ArchivedAt = &ahora
		}
		return repo.Salvar(tx, s)
	})
	if err != nil {
		return nil, err
	}
	if s.AssignedTo != nil {
		notificacion.AvisarVeredicto(db, *s.AssignedTo, s.FullName, aprobada, score)
	}
	return s, nil
}
